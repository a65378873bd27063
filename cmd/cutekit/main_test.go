package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cute-engineering/cutekit-go/internal/ckerrors"
)

func TestExitCodeMapsSentinelErrors(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 2, exitCode(ckerrors.NewConfig("manifest.json", "bad type")))
	assert.Equal(t, 2, exitCode(ckerrors.NewResolution("no provider")))
	assert.Equal(t, 3, exitCode(ckerrors.NewIO("build.ninja", assert.AnError)))
	assert.Equal(t, 4, exitCode(&ckerrors.BuildError{ExitCode: 1}))
	assert.Equal(t, 1, exitCode(assert.AnError))
}

package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScalarCrossKindNeverEqual(t *testing.T) {
	assert.False(t, IntScalar(1).Equal(BoolScalar(true)))
	assert.False(t, StringScalar("1").Equal(IntScalar(1)))
}

func TestScalarSameKindEquality(t *testing.T) {
	assert.True(t, StringScalar("x86_64").Equal(StringScalar("x86_64")))
	assert.False(t, StringScalar("x86_64").Equal(StringScalar("arm64")))
	assert.True(t, IntScalar(4).Equal(IntScalar(4)))
}

func TestFromAnyNumericBecomesInt(t *testing.T) {
	sc, ok := FromAny(float64(42))
	assert.True(t, ok)
	assert.Equal(t, ScalarInt, sc.Kind)
	assert.Equal(t, int64(42), sc.I)
}

func TestTruthy(t *testing.T) {
	assert.True(t, BoolScalar(true).Truthy())
	assert.False(t, BoolScalar(false).Truthy())
	assert.True(t, IntScalar(1).Truthy())
	assert.False(t, IntScalar(0).Truthy())
	assert.True(t, StringScalar("x").Truthy())
	assert.False(t, StringScalar("").Truthy())
}

package jexpr

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pelletier/go-toml/v2"
)

var schemaPragma = regexp.MustCompile(`#:schema\s+(\S+)`)

// Read loads a JSON or TOML file into a Value tree, unexpanded. TOML files
// additionally honor a leading "#:schema <uri>" comment pragma, which is
// injected into the decoded tree as a "$schema" key the same way a JSON
// manifest would carry it as an ordinary field.
func Read(path string) (Value, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, &ExpansionError{Path: path, Cause: err}
	}

	var v Value
	if filepath.Ext(path) == ".toml" {
		v, err = loadTOML(buf)
	} else {
		err = json.Unmarshal(buf, &v)
	}
	if err != nil {
		return nil, &ExpansionError{Path: path, Cause: err}
	}
	return v, nil
}

func loadTOML(buf []byte) (Value, error) {
	var v map[string]Value
	if err := toml.Unmarshal(buf, &v); err != nil {
		return nil, err
	}
	if m := schemaPragma.FindSubmatch(buf); m != nil {
		v["$schema"] = string(m[1])
	}
	return v, nil
}

// Include reads path and expands it against globals/locals, the Jexpr
// entry point used by the manifest loader for every target and component
// file it discovers.
func Include(path string, locals, globals map[string]Value) (Value, error) {
	raw, err := Read(path)
	if err != nil {
		return nil, err
	}
	expanded, err := Expand(raw, locals, globals, 0)
	if err != nil {
		return nil, &ExpansionError{Path: path, Cause: err}
	}
	return expanded, nil
}

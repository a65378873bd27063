package jexpr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGlobals() map[string]Value {
	return map[string]Value{
		"utils": map[string]Value{
			"concat": Func(func(args []Value) (Value, error) {
				s := ""
				for _, a := range args {
					s += stringify(a)
				}
				return s, nil
			}),
			"union": Func(func(args []Value) (Value, error) {
				return union(args[0], args[1])
			}),
			"first": Func(func(args []Value) (Value, error) {
				list := args[0].([]Value)
				if len(list) == 0 {
					return nil, nil
				}
				return list[0], nil
			}),
		},
	}
}

func TestExpandPassthroughScalars(t *testing.T) {
	v, err := Expand(true, nil, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = Expand(float64(3), nil, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, float64(3), v)
}

func TestExpandStringSplice(t *testing.T) {
	locals := map[string]Value{"name": "world"}
	v, err := Expand("hello {name}!", locals, map[string]Value{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello world!", v)
}

func TestExpandStringSpliceUnknownVariable(t *testing.T) {
	_, err := Expand("hello {missing}", nil, map[string]Value{}, 0)
	assert.Error(t, err)
}

func TestExpandUnbalancedBraces(t *testing.T) {
	_, err := Expand("hello {name", nil, map[string]Value{}, 0)
	assert.Error(t, err)
}

func TestExpandListOfScalars(t *testing.T) {
	v, err := Expand([]Value{"a", "b"}, nil, map[string]Value{}, 0)
	require.NoError(t, err)
	assert.Equal(t, []Value{"a", "b"}, v)
}

func TestExpandCallForm(t *testing.T) {
	globals := testGlobals()
	v, err := Expand([]Value{"@utils.concat", "foo", "bar"}, nil, globals, 0)
	require.NoError(t, err)
	assert.Equal(t, "foobar", v)
}

func TestExpandCallUnionDicts(t *testing.T) {
	globals := testGlobals()
	v, err := Expand([]Value{
		"@utils.union",
		map[string]Value{"a": "1"},
		map[string]Value{"b": "2"},
	}, nil, globals, 0)
	require.NoError(t, err)
	assert.Equal(t, map[string]Value{"a": "1", "b": "2"}, v)
}

func TestExpandCallUnknownFunction(t *testing.T) {
	_, err := Expand([]Value{"@utils.missing"}, nil, map[string]Value{"utils": map[string]Value{}}, 0)
	assert.Error(t, err)
}

func TestExpandSpliceCall(t *testing.T) {
	globals := map[string]Value{
		"sum": Func(func(args []Value) (Value, error) {
			total := 0.0
			for _, a := range args {
				total += a.(float64)
			}
			return total, nil
		}),
	}
	v, err := Expand("{sum(1, 2)}", nil, globals, 0)
	require.NoError(t, err)
	assert.Equal(t, "3", v)
}

func TestExpandSpliceNestedCall(t *testing.T) {
	globals := map[string]Value{
		"shell": map[string]Value{
			"latest": Func(func(args []Value) (Value, error) {
				return "clang-18", nil
			}),
		},
	}
	v, err := Expand("{shell.latest('clang')}", nil, globals, 0)
	require.NoError(t, err)
	assert.Equal(t, "clang-18", v)
}

func TestExpandSpliceLiteralsAndBooleans(t *testing.T) {
	v, err := Expand("{true}", nil, map[string]Value{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	v, err = Expand("{42}", nil, map[string]Value{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "42", v)
}

func TestExpandDictKeysAndValues(t *testing.T) {
	locals := map[string]Value{"v": "1.0"}
	v, err := Expand(map[string]Value{"version": "{v}"}, locals, map[string]Value{}, 0)
	require.NoError(t, err)
	assert.Equal(t, map[string]Value{"version": "1.0"}, v)
}

func TestExpandRecursionLimit(t *testing.T) {
	_, err := Expand("x", nil, map[string]Value{}, maxDepth+1)
	assert.Error(t, err)
}

func TestReadTomlExtractsSchemaPragma(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "component.toml")
	content := "#:schema component.schema.json\nid = \"lib-foo\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v, err := Read(path)
	require.NoError(t, err)
	m := v.(map[string]Value)
	assert.Equal(t, "lib-foo", m["id"])
	assert.Equal(t, "component.schema.json", m["$schema"])
}

func TestReadJson(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "target.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"host-x86_64","$schema":"target.schema.json"}`), 0o644))

	v, err := Read(path)
	require.NoError(t, err)
	m := v.(map[string]Value)
	assert.Equal(t, "host-x86_64", m["id"])
}

package jexpr

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cute-engineering/cutekit-go/internal/host"
)

// StandardGlobals builds the fixed set of names every manifest file's
// expressions may call: shell.* (backed by h), jexpr.include/read/expand,
// and the utils.* helpers. There is no mechanism to register additional names at
// runtime — the set a manifest can call is closed, by design.
func StandardGlobals(h host.Shell) map[string]Value {
	globals := map[string]Value{}

	shellNS := map[string]Value{
		"uname": Func(func(args []Value) (Value, error) {
			un, err := h.Uname()
			if err != nil {
				return nil, err
			}
			return map[string]Value{"sysname": un.Sysname, "machine": un.Machine}, nil
		}),
		"popen": Func(func(args []Value) (Value, error) {
			cmd, rest, err := stringArgs(args)
			if err != nil {
				return nil, err
			}
			lines, err := h.Popen(context.Background(), cmd, rest...)
			if err != nil {
				return nil, err
			}
			return strings.Join(lines, "\n"), nil
		}),
		"which": Func(func(args []Value) (Value, error) {
			cmd, err := singleStringArg(args)
			if err != nil {
				return nil, err
			}
			path, ok := h.Which(cmd)
			if !ok {
				return nil, nil
			}
			return path, nil
		}),
		"latest": Func(func(args []Value) (Value, error) {
			prefix, err := singleStringArg(args)
			if err != nil {
				return nil, err
			}
			return h.Latest(prefix)
		}),
		"nproc": Func(func(args []Value) (Value, error) {
			return float64(h.NProc()), nil
		}),
	}
	globals["shell"] = shellNS

	globals["jexpr"] = map[string]Value{
		"include": Func(func(args []Value) (Value, error) {
			path, err := singleStringArg(args)
			if err != nil {
				return nil, err
			}
			return Include(path, nil, globals)
		}),
		"read": Func(func(args []Value) (Value, error) {
			path, err := singleStringArg(args)
			if err != nil {
				return nil, err
			}
			return Read(path)
		}),
		"expand": Func(func(args []Value) (Value, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("jexpr.expand expects 1 argument, got %d", len(args))
			}
			return Expand(args[0], nil, globals, 0)
		}),
	}

	globals["utils"] = map[string]Value{
		"relpath": Func(func(args []Value) (Value, error) {
			parts := make([]string, len(args))
			for i, a := range args {
				s, ok := a.(string)
				if !ok {
					return nil, fmt.Errorf("utils.relpath expects string arguments")
				}
				parts[i] = s
			}
			return filepath.Clean(filepath.Join(parts...)), nil
		}),
		"union": Func(func(args []Value) (Value, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("utils.union expects 2 arguments, got %d", len(args))
			}
			return union(args[0], args[1])
		}),
		"concat": Func(func(args []Value) (Value, error) {
			var sb strings.Builder
			for _, a := range args {
				sb.WriteString(stringify(a))
			}
			return sb.String(), nil
		}),
		"first": Func(func(args []Value) (Value, error) {
			list, err := singleListArg(args)
			if err != nil {
				return nil, err
			}
			if len(list) == 0 {
				return nil, nil
			}
			return list[0], nil
		}),
		"last": Func(func(args []Value) (Value, error) {
			list, err := singleListArg(args)
			if err != nil {
				return nil, err
			}
			if len(list) == 0 {
				return nil, nil
			}
			return list[len(list)-1], nil
		}),
	}

	return globals
}

func stringArgs(args []Value) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, fmt.Errorf("expected at least 1 argument")
	}
	head, ok := args[0].(string)
	if !ok {
		return "", nil, fmt.Errorf("expected string, got %v", args[0])
	}
	rest := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		s, ok := a.(string)
		if !ok {
			return "", nil, fmt.Errorf("expected string, got %v", a)
		}
		rest = append(rest, s)
	}
	return head, rest, nil
}

func singleStringArg(args []Value) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected 1 argument, got %d", len(args))
	}
	s, ok := args[0].(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %v", args[0])
	}
	return s, nil
}

func singleListArg(args []Value) ([]Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
	}
	list, ok := args[0].([]Value)
	if !ok {
		return nil, fmt.Errorf("expected list, got %v", args[0])
	}
	return list, nil
}

func union(lhs, rhs Value) (Value, error) {
	if lm, ok := lhs.(map[string]Value); ok {
		rm, ok := rhs.(map[string]Value)
		if !ok {
			return nil, fmt.Errorf("utils.union: both arguments must be the same shape")
		}
		result := make(map[string]Value, len(lm)+len(rm))
		for k, v := range lm {
			result[k] = v
		}
		for k, v := range rm {
			result[k] = v
		}
		return result, nil
	}
	if ll, ok := lhs.([]Value); ok {
		rl, ok := rhs.([]Value)
		if !ok {
			return nil, fmt.Errorf("utils.union: both arguments must be the same shape")
		}
		return append(append([]Value{}, ll...), rl...), nil
	}
	return nil, fmt.Errorf("utils.union: unsupported operand type %T", lhs)
}

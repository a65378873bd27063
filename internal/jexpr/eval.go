package jexpr

import (
	"fmt"
	"strings"
)

// Expand walks expr and resolves every "@name" call and "{...}" splice,
// looking names up in locals first (undotted names only) and then in
// globals, for variables and functions alike. depth starts at 0 for
// top-level calls.
func Expand(expr Value, locals, globals map[string]Value, depth int) (Value, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("recursion limit reached expanding %v", expr)
	}

	switch v := expr.(type) {
	case map[string]Value:
		result := make(map[string]Value, len(v))
		for k, val := range v {
			expandedKey, err := Expand(k, locals, globals, depth+1)
			if err != nil {
				return nil, err
			}
			expandedVal, err := Expand(val, locals, globals, depth+1)
			if err != nil {
				return nil, err
			}
			result[fmt.Sprint(expandedKey)] = expandedVal
		}
		return result, nil

	case []Value:
		if isListExpr(v) {
			return expandCall(v, locals, globals, depth)
		}
		result := make([]Value, len(v))
		for i, el := range v {
			expanded, err := Expand(el, locals, globals, depth+1)
			if err != nil {
				return nil, err
			}
			result[i] = expanded
		}
		return result, nil

	case string:
		return expandString(v, locals, globals, depth)

	default:
		return expr, nil
	}
}

func expandCall(list []Value, locals, globals map[string]Value, depth int) (Value, error) {
	head := list[0].(string)
	nameExpr, err := Expand(head[1:], locals, globals, depth+1)
	if err != nil {
		return nil, err
	}
	name, ok := nameExpr.(string)
	if !ok {
		return nil, fmt.Errorf("expected function name, got %v", nameExpr)
	}

	fVal, ok := lookupPath(name, locals, globals)
	if !ok {
		return nil, fmt.Errorf("unknown function %q", name)
	}
	fn, ok := fVal.(Func)
	if !ok {
		return nil, fmt.Errorf("%q is not callable", name)
	}

	args := make([]Value, 0, len(list)-1)
	for _, a := range list[1:] {
		expanded, err := Expand(a, locals, globals, depth+1)
		if err != nil {
			return nil, err
		}
		args = append(args, expanded)
	}

	res, err := fn(args)
	if err != nil {
		return nil, fmt.Errorf("calling %q: %w", name, err)
	}
	return Expand(res, locals, globals, depth+1)
}

// expandString performs the original's brace-balanced splice extraction:
// runs of "{...}" are cut out, their contents resolved as a lookup or
// literal, stringified, and spliced back into the surrounding text.
func expandString(s string, locals, globals map[string]Value, depth int) (Value, error) {
	var res strings.Builder
	strStart := 0
	exprStart := 0
	braceDepth := 0

	for i, c := range s {
		switch c {
		case '{':
			if braceDepth == 0 {
				res.WriteString(s[strStart:i])
				exprStart = i + 1
			}
			braceDepth++
		case '}':
			braceDepth--
			if braceDepth == 0 {
				sub := s[exprStart:i]
				val, err := resolveSplice(sub, locals, globals, depth+1)
				if err != nil {
					return nil, fmt.Errorf("failed to expand %q: %w", sub, err)
				}
				res.WriteString(stringify(val))
				strStart = i + 1
			} else if braceDepth < 0 {
				return nil, fmt.Errorf("unbalanced braces in %q", s)
			}
		}
	}

	if braceDepth != 0 {
		return nil, fmt.Errorf("unbalanced braces in %q", s)
	}
	res.WriteString(s[strStart:])
	return res.String(), nil
}

// resolveSplice evaluates the text between a pair of braces: a literal, a
// dotted lookup, or a call over the closed function set exposed through
// locals/globals (e.g. "sum(1, 2)", "shell.latest('clang')"). The result is
// expanded again, so a function returning another splice-bearing string
// still resolves fully.
func resolveSplice(sub string, locals, globals map[string]Value, depth int) (Value, error) {
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return "", nil
	}

	v, err := evalExpr(sub, locals, globals)
	if err != nil {
		return nil, err
	}
	return Expand(v, locals, globals, depth)
}

func stringify(v Value) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

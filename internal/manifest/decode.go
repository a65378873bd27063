package manifest

import (
	"fmt"

	"github.com/cute-engineering/cutekit-go/internal/jexpr"
)

func getString(data map[string]jexpr.Value, key, def string) string {
	if v, ok := data[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

func getBool(data map[string]jexpr.Value, key string, def bool) bool {
	if v, ok := data[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

func getStringSlice(data map[string]jexpr.Value, key string) []string {
	v, ok := data[key]
	if !ok {
		return nil
	}
	list, ok := v.([]jexpr.Value)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, el := range list {
		if s, ok := el.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func getStringMap(data map[string]jexpr.Value, key string) map[string]string {
	v, ok := data[key]
	if !ok {
		return nil
	}
	m, ok := v.(map[string]jexpr.Value)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out
}

func getScalarMap(data map[string]jexpr.Value, key string) map[string]Scalar {
	v, ok := data[key]
	if !ok {
		return map[string]Scalar{}
	}
	m, ok := v.(map[string]jexpr.Value)
	if !ok {
		return map[string]Scalar{}
	}
	out := make(map[string]Scalar, len(m))
	for k, val := range m {
		if sc, ok := FromAny(val); ok {
			out[k] = sc
		}
	}
	return out
}

// getEnableIf decodes a component's enableIf table: prop name -> list of
// acceptable Scalar values.
func getEnableIf(data map[string]jexpr.Value, key string) map[string][]Scalar {
	v, ok := data[key]
	if !ok {
		return map[string][]Scalar{}
	}
	m, ok := v.(map[string]jexpr.Value)
	if !ok {
		return map[string][]Scalar{}
	}
	out := make(map[string][]Scalar, len(m))
	for k, val := range m {
		list, ok := val.([]jexpr.Value)
		if !ok {
			continue
		}
		scalars := make([]Scalar, 0, len(list))
		for _, el := range list {
			if sc, ok := FromAny(el); ok {
				scalars = append(scalars, sc)
			}
		}
		out[k] = scalars
	}
	return out
}

func getTools(data map[string]jexpr.Value, key string) map[string]Tool {
	v, ok := data[key]
	if !ok {
		return map[string]Tool{}
	}
	m, ok := v.(map[string]jexpr.Value)
	if !ok {
		return map[string]Tool{}
	}
	out := make(map[string]Tool, len(m))
	for k, val := range m {
		toolData, ok := val.(map[string]jexpr.Value)
		if !ok {
			continue
		}
		out[k] = Tool{
			Cmd:   getString(toolData, "cmd", ""),
			Args:  getStringSlice(toolData, "args"),
			Files: getStringSlice(toolData, "files"),
			Rule:  getString(toolData, "rule", ""),
		}
	}
	return out
}

func getExterns(data map[string]jexpr.Value, key string) (map[string]Extern, error) {
	v, ok := data[key]
	if !ok {
		return map[string]Extern{}, nil
	}
	m, ok := v.(map[string]jexpr.Value)
	if !ok {
		return nil, fmt.Errorf("%s must be an object", key)
	}
	out := make(map[string]Extern, len(m))
	for k, val := range m {
		extData, ok := val.(map[string]jexpr.Value)
		if !ok {
			return nil, fmt.Errorf("extern %q must be an object", k)
		}
		git := getString(extData, "git", "")
		if git == "" {
			names := getStringSlice(extData, "names")
			if len(names) == 0 {
				return nil, fmt.Errorf("extern %q is missing \"git\" or \"names\"", k)
			}
			out[k] = Extern{Names: names}
			continue
		}
		out[k] = Extern{
			Git:  git,
			Tag:  getString(extData, "tag", ""),
			Deep: !getBool(extData, "shallow", true),
		}
	}
	return out, nil
}

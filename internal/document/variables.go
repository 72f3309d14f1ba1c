package document

import "strings"

const variablePrefix = "$"

// ResolveVariables replaces every string value of the exact form $name with
// env[name]. Unknown names are left untouched.
func ResolveVariables(v any, env Environment) any {
	switch value := v.(type) {
	case string:
		if !strings.HasPrefix(value, variablePrefix) || len(value) == len(variablePrefix) {
			return value
		}
		if resolved, ok := env[strings.TrimPrefix(value, variablePrefix)]; ok {
			return resolved
		}
		return value
	case map[string]any:
		res := make(map[string]any, len(value))
		for k, item := range value {
			res[k] = ResolveVariables(item, env)
		}
		return res
	case []any:
		res := make([]any, len(value))
		for i, item := range value {
			res[i] = ResolveVariables(item, env)
		}
		return res
	}
	return v
}

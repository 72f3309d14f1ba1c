package document

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/turbot/bqpipe/internal/perr"
)

func parseYaml(body []byte, env Environment) (map[string]any, error) {
	var raw any
	if err := yaml.Unmarshal(body, &raw); err != nil {
		return nil, perr.ConfigurationErrorWithMessage("invalid YAML document: " + yaml.FormatError(err, false, true))
	}

	if raw == nil {
		return map[string]any{}, nil
	}

	normalized, err := normalizeYaml(raw)
	if err != nil {
		return nil, err
	}

	doc, ok := ResolveVariables(normalized, env).(map[string]any)
	if !ok {
		return nil, perr.ConfigurationErrorWithMessage("pipeline document must be a mapping")
	}
	return doc, nil
}

// normalizeYaml converts map[any]any nodes into map[string]any.
func normalizeYaml(v any) (any, error) {
	switch value := v.(type) {
	case map[string]any:
		res := make(map[string]any, len(value))
		for k, item := range value {
			n, err := normalizeYaml(item)
			if err != nil {
				return nil, err
			}
			res[k] = n
		}
		return res, nil
	case map[any]any:
		res := make(map[string]any, len(value))
		for k, item := range value {
			key, ok := k.(string)
			if !ok {
				return nil, perr.ConfigurationErrorWithMessage(fmt.Sprintf("document keys must be strings, got %v", k))
			}
			n, err := normalizeYaml(item)
			if err != nil {
				return nil, err
			}
			res[key] = n
		}
		return res, nil
	case []any:
		res := make([]any, len(value))
		for i, item := range value {
			n, err := normalizeYaml(item)
			if err != nil {
				return nil, err
			}
			res[i] = n
		}
		return res, nil
	}
	return v, nil
}

package document

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/turbot/bqpipe/internal/constants"
	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/bqpipe/internal/types"
)

// Environment holds the values document variables resolve against.
type Environment map[string]any

// Parse parses a pipeline document body and decodes it into a Document.
func Parse(body []byte, format string, env Environment) (*types.Document, error) {
	raw, err := ParseMap(body, format, env)
	if err != nil {
		return nil, err
	}
	return Decode(raw)
}

// ParseMap parses a document body into its generic form with variables resolved.
// An empty body yields an empty map.
func ParseMap(body []byte, format string, env Environment) (map[string]any, error) {
	if strings.TrimSpace(string(body)) == "" {
		return map[string]any{}, nil
	}

	switch format {
	case constants.FormatYaml, "yml", "":
		return parseYaml(body, env)
	case constants.FormatHcl:
		return parseHcl(body, env)
	}
	return nil, perr.ConfigurationErrorWithMessage("unsupported document format: " + format)
}

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl", ".bqp":
		return constants.FormatHcl
	}
	return constants.FormatYaml
}

// Decode converts a generic document into a Document. Unknown keys are rejected.
func Decode(raw map[string]any) (*types.Document, error) {
	doc := &types.Document{}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.ComposeDecodeHookFunc(timeToStringHook, scalarToStringHook),
		ErrorUnused: true,
		Result:      doc,
	})
	if err != nil {
		return nil, perr.Internal(err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, perr.ConfigurationErrorWithMessage("invalid pipeline document: " + err.Error())
	}

	return doc, nil
}

// timeToStringHook keeps schedule dates that YAML parsed as timestamps in their text form.
func timeToStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	if t, ok := data.(time.Time); ok {
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format(time.DateOnly), nil
		}
		return t.Format(time.RFC3339), nil
	}
	return data, nil
}

// scalarToStringHook lets numeric table names and delimiters through as strings.
func scalarToStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Int, reflect.Int64, reflect.Uint64:
		return fmt.Sprintf("%d", data), nil
	}
	return data, nil
}

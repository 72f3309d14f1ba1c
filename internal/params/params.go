package params

import (
	"log/slog"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/turbot/bqpipe/internal/document"
	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/bqpipe/internal/types"
	"github.com/xeipuuv/gojsonschema"
)

const parametersKey = "parameters"

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(QueryParamsSchema))
	})
	return schema, schemaErr
}

// Extract parses a query cell body and returns its compiled query parameters.
func Extract(query *string, body []byte, format string, env document.Environment) ([]types.QueryParameter, error) {
	if query == nil {
		return nil, perr.ConfigurationErrorWithMessage("cannot extract query parameters without a query")
	}

	doc, err := document.ParseMap(body, format, env)
	if err != nil {
		return nil, err
	}
	return FromDocument(query, doc)
}

// FromDocument compiles the parameters section of an already parsed document.
// A document without a parameters section yields no parameters.
func FromDocument(query *string, doc map[string]any) ([]types.QueryParameter, error) {
	if query == nil {
		return nil, perr.ConfigurationErrorWithMessage("cannot extract query parameters without a query")
	}

	raw, ok := doc[parametersKey]
	if !ok {
		return []types.QueryParameter{}, nil
	}

	if err := validate(map[string]any{parametersKey: raw}); err != nil {
		return nil, err
	}

	var userParams []types.UserQueryParameter
	if err := mapstructure.Decode(raw, &userParams); err != nil {
		return nil, perr.SchemaValidationError("invalid query parameters", []*perr.ErrorDetailModel{{Message: err.Error()}})
	}

	compiled := make([]types.QueryParameter, 0, len(userParams))
	for _, p := range userParams {
		compiled = append(compiled, p.Compile())
	}

	slog.Debug("compiled query parameters", "count", len(compiled))
	return compiled, nil
}

// FromList compiles a parameter list taken from a transformation section.
func FromList(query *string, list []any) ([]types.QueryParameter, error) {
	return FromDocument(query, map[string]any{parametersKey: list})
}

func validate(doc map[string]any) error {
	s, err := compiledSchema()
	if err != nil {
		return perr.Internal(err)
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return perr.SchemaValidationError("invalid query parameters", []*perr.ErrorDetailModel{{Message: err.Error()}})
	}

	if result.Valid() {
		return nil
	}

	diagnostics := make([]*perr.ErrorDetailModel, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		diagnostics = append(diagnostics, &perr.ErrorDetailModel{
			Message:  re.String(),
			Location: re.Field(),
		})
	}
	return perr.SchemaValidationError("invalid query parameters", diagnostics)
}

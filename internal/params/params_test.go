package params

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/bqpipe/internal/document"
	"github.com/turbot/bqpipe/internal/perr"
	"github.com/turbot/bqpipe/internal/types"
)

func query(s string) *string { return &s }

func TestExtractRequiresQuery(t *testing.T) {
	assert := assert.New(t)

	_, err := Extract(nil, []byte("parameters: []"), "yaml", nil)
	assert.True(perr.IsConfigurationError(err))

	_, err = FromDocument(nil, map[string]any{})
	assert.True(perr.IsConfigurationError(err))
}

func TestExtractWithoutParameters(t *testing.T) {
	assert := assert.New(t)

	params, err := Extract(query("q"), []byte(""), "yaml", nil)
	assert.Nil(err)
	assert.Empty(params)

	params, err = Extract(query("q"), []byte("other: 1"), "yaml", nil)
	assert.Nil(err)
	assert.Empty(params)
}

func TestExtractCompilesInOrder(t *testing.T) {
	require := require.New(t)

	body := `
parameters:
  - name: day
    type: DATE
    value: $day
  - name: limit
    type: INT64
    value: '10'
  - name: country
    type: STRING
    value: NZ
`
	params, err := Extract(query("q"), []byte(body), "yaml", document.Environment{"day": "2024-01-01"})
	require.NoError(err)

	expected := []types.QueryParameter{
		{Name: "day", ParameterType: types.QueryParameterType{Type: "DATE"}, ParameterValue: types.QueryParameterValue{Value: "2024-01-01"}},
		{Name: "limit", ParameterType: types.QueryParameterType{Type: "INT64"}, ParameterValue: types.QueryParameterValue{Value: "10"}},
		{Name: "country", ParameterType: types.QueryParameterType{Type: "STRING"}, ParameterValue: types.QueryParameterValue{Value: "NZ"}},
	}

	if diff := cmp.Diff(expected, params); diff != "" {
		t.Errorf("parameters mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractSchemaValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing value",
			body: "parameters:\n  - name: day\n    type: DATE\n",
		},
		{
			name: "name not a string",
			body: "parameters:\n  - name: [a]\n    type: DATE\n    value: x\n",
		},
		{
			name: "parameters not a list",
			body: "parameters: day\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := Extract(query("q"), []byte(tt.body), "yaml", nil)
			assert.True(perr.IsSchemaValidationError(err), "expected schema validation error, got %v", err)

			e, ok := perr.AsErrorModel(err)
			assert.True(ok)
			assert.NotEmpty(e.ValidationErrors)
		})
	}
}

func TestFromList(t *testing.T) {
	assert := assert.New(t)

	params, err := FromList(query("q"), []any{
		map[string]any{"name": "flag", "type": "BOOL", "value": true},
	})
	assert.Nil(err)
	assert.Equal([]types.QueryParameter{
		{Name: "flag", ParameterType: types.QueryParameterType{Type: "BOOL"}, ParameterValue: types.QueryParameterValue{Value: true}},
	}, params)
}

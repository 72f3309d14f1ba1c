package perr

import (
	"net/http"
	"strings"
)

const (
	ErrorCodeSchemaValidation = "error_schema_validation"
)

// SchemaValidationError reports a document that does not match a fixed schema. The
// validator diagnostics are kept verbatim, both in Detail and as individual entries.
func SchemaValidationError(msg string, diagnostics []*ErrorDetailModel) ErrorModel {
	var lines []string
	for _, d := range diagnostics {
		lines = append(lines, d.Message)
	}

	detail := msg
	if len(lines) > 0 {
		detail = msg + ": " + strings.Join(lines, "; ")
	}

	return ErrorModel{
		Instance:         reference(),
		Type:             ErrorCodeSchemaValidation,
		Title:            "Schema Validation Error",
		Status:           http.StatusUnprocessableEntity,
		Detail:           detail,
		ValidationErrors: diagnostics,
	}
}

func IsSchemaValidationError(err error) bool {
	return hasType(err, ErrorCodeSchemaValidation)
}

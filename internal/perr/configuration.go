package perr

import (
	"net/http"
)

const (
	ErrorCodeConfiguration = "error_configuration"
)

// ConfigurationErrorWithMessage reports a semantic contradiction in a pipeline document.
func ConfigurationErrorWithMessage(msg string) ErrorModel {
	return ErrorModel{
		Instance: reference(),
		Type:     ErrorCodeConfiguration,
		Title:    "Configuration Error",
		Status:   http.StatusBadRequest,
		Detail:   msg,
	}
}

// ConfigurationErrorFromValidation folds struct validation diagnostics into a single
// configuration error, one detail per failed field.
func ConfigurationErrorFromValidation(msg string, ve ValidationError) ErrorModel {
	e := ConfigurationErrorWithMessage(msg)
	for _, fe := range ve.Errors {
		e.ValidationErrors = append(e.ValidationErrors, &ErrorDetailModel{
			Message:  fe.Error(),
			Location: ve.Type + "." + fe.Field(),
		})
	}
	return e
}

func IsConfigurationError(err error) bool {
	return hasType(err, ErrorCodeConfiguration)
}

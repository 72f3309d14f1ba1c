package perr

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// As per RFC7807 (https://tools.ietf.org/html/rfc7807) define a standard error model with a limited set of
// bqpipe-specific extensions
type ErrorDetailModel struct {
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
}

type ErrorModel struct {
	Instance         string              `json:"instance" binding:"required"`
	Type             string              `json:"type" binding:"required"`
	Title            string              `json:"title" binding:"required"`
	Status           int                 `json:"status" binding:"required"`
	Detail           string              `json:"detail,omitempty"`
	ValidationErrors []*ErrorDetailModel `json:"validation_errors,omitempty"`
}

func (e ErrorModel) Error() string {
	if e.Detail != "" {
		return e.Title + ": " + e.Detail
	}
	return e.Title
}

func (e ErrorModel) GetStatus() int {
	return e.Status
}

// ValidationError carries the raw diagnostics of a struct validation, before they are
// folded into an ErrorModel.
type ValidationError struct {
	Type   string                     `json:"type"`   // Denotes the location where the validation error was encountered.
	Errors validator.ValidationErrors `json:"errors"` // The list of validation errors.
}

func (e ValidationError) Error() string {
	return e.Type + ": " + e.Errors.Error()
}

// AsErrorModel returns the ErrorModel found in err's chain, if any.
func AsErrorModel(err error) (ErrorModel, bool) {
	var e ErrorModel
	if errors.As(err, &e) {
		return e, true
	}
	return ErrorModel{}, false
}

func hasType(err error, errorType string) bool {
	e, ok := AsErrorModel(err)
	return ok && e.Type == errorType
}

func reference() string {
	return fmt.Sprintf("bqpipe_%s", uuid.New().String())
}

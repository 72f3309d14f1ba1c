package perr

import (
	"net/http"
)

const (
	ErrorCodeInternal = "error_internal"
)

func InternalWithMessage(msg string) ErrorModel {
	return ErrorModel{
		Instance: reference(),
		Type:     ErrorCodeInternal,
		Title:    "Internal Error",
		Status:   http.StatusInternalServerError,
		Detail:   msg,
	}
}

func Internal(err error) ErrorModel {
	return InternalWithMessage(err.Error())
}

func IsInternal(err error) bool {
	return hasType(err, ErrorCodeInternal)
}

package perr

const (
	ExitCodeSuccess          = 0
	ExitCodeUnknownError     = 1
	ExitCodeConfiguration    = 2
	ExitCodeSchemaValidation = 3
	ExitCodeNotFound         = 4
	ExitCodeInternal         = 5
	ExitCodeUnknownPanic     = 10
)

func GetExitCode(err error, fromPanic bool) int {
	if err == nil {
		return ExitCodeSuccess
	}

	if e, ok := AsErrorModel(err); ok {
		switch e.Type {
		case ErrorCodeConfiguration:
			return ExitCodeConfiguration
		case ErrorCodeSchemaValidation:
			return ExitCodeSchemaValidation
		case ErrorCodeNotFound:
			return ExitCodeNotFound
		case ErrorCodeInternal:
			return ExitCodeInternal
		}
	}

	if fromPanic {
		return ExitCodeUnknownPanic
	}
	return ExitCodeUnknownError
}

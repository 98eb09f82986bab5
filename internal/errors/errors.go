package errors

// ErrorWithStatusCode is returned by services when a failure maps to a
// specific HTTP status. Errors of any other type surface as a generic 500,
// so storage and driver details never reach clients.
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

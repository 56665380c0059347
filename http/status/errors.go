package status

import "errors"

// HTTPError is an error carrying the status code it must be answered with.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

// CodeOf extracts the status code from the error chain. If there's no HTTPError inside,
// InternalServerError is returned.
func CodeOf(err error) Code {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return InternalServerError
}

var (
	ErrBadRequest            = NewError(BadRequest, "bad request")
	ErrForbidden             = NewError(Forbidden, "forbidden")
	ErrNotFound              = NewError(NotFound, "not found")
	ErrRequestEntityTooLarge = NewError(RequestEntityTooLarge, "request entity too large")
	ErrUnsupportedMediaType  = NewError(UnsupportedMediaType, "unsupported media type")
	ErrTooManyRequests       = NewError(TooManyRequests, "too many requests")
	ErrInternalServerError   = NewError(InternalServerError, "internal server error")
	ErrNotImplemented        = NewError(NotImplemented, "not implemented")
)

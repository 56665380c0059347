package http

import "errors"

// Next continues the chain. Passing a non-nil error aborts it and makes the error handler
// produce the response.
type Next func(err error)

// Handler is the contract handlers are written against. A returned error is treated the same
// way as passing it to next.
type Handler func(req *Request, res *Response, next Next) error

// ErrorHandler produces the response for an error, raised by a handler.
type ErrorHandler func(err error, req *Request, res *Response)

// FileCallback is notified when a file transfer finished. err is nil on success.
type FileCallback func(err error)

// FileOptions tune file transfers.
type FileOptions struct {
	// Root is the directory the path is resolved against. Paths escaping it are rejected
	// with status.ErrForbidden.
	Root string
	// Headers are set on the response along with the file.
	Headers map[string]string
}

var (
	ErrNoRenderer  = errors.New("native response is unable to render views")
	ErrIsDir       = errors.New("requested file is a directory")
	ErrOutsideRoot = errors.New("requested file is outside the root")
)

// Package native describes the request/response surface an underlying server must provide
// in order to run adapted handlers, and the driver running them in a chain.
package native

import (
	"io"
	"net/url"

	"github.com/indigo-web/shim/http/mime"
	"github.com/indigo-web/shim/http/status"
)

// Request is the native request. All the accessors are expected to be cheap, except Body.
type Request interface {
	Method() string
	// Path is the decoded request path, without the query.
	Path() string
	// OriginalURL is the request target as it was received.
	OriginalURL() string
	// Params are dynamic routing segments, as they were matched by the router.
	Params() map[string]string
	Query() url.Values
	// Header returns the first value of the header. Lookup is case-insensitive.
	Header(key string) string
	Headers() map[string][]string
	// Remote is the client address.
	Remote() string
	// Protocol is either "http" or "https".
	Protocol() string
	Secure() bool
	Hostname() string
	// Body returns the whole request body. It may block, so it's called from a separate
	// goroutine and never more than once.
	Body() ([]byte, error)
}

// Response is the native response.
type Response interface {
	Status(code status.Code) Response
	StatusCode() status.Code
	// Header sets the header, replacing all its previous values.
	Header(key, value string) Response
	// AddHeader adds one more value to the header.
	AddHeader(key, value string) Response
	// GetHeader returns the first value of the header. Lookup is case-insensitive.
	GetHeader(key string) string
	RemoveHeader(key string) Response
	Type(mime mime.MIME) Response
	Send(body []byte) error
	// Stream sends the contents of the reader. If size is negative, it's unknown.
	Stream(r io.Reader, size int64) error
	// Committed reports whether the response was already sent.
	Committed() bool
}

// Renderer is implemented by native responses capable of rendering views.
type Renderer interface {
	Render(view string, data any) error
}

// Next continues the chain. Non-nil error aborts it.
type Next func(err error)

// Handler is what an underlying router calls per middleware step.
type Handler func(req Request, res Response, next Next)

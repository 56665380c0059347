package http

import (
	"maps"
	"net/url"

	"github.com/indigo-web/shim/http/stream"
	"github.com/indigo-web/shim/kv"
	"github.com/indigo-web/shim/native"
	"github.com/indigo-web/utils/strcomp"
)

// Request is a view over the native request. All the fields are copied at construction,
// so modifying them doesn't affect the native request. Only Stream is live.
type Request struct {
	// ID is a random identifier, unique enough to tell requests apart in logs.
	ID string
	// Method is the request method as it was received.
	Method string
	// Path is the decoded request path, without query.
	Path string
	// OriginalURL is the request target, including query.
	OriginalURL string
	// Params are dynamic routing segments.
	Params map[string]string
	// Query holds the parsed query parameters.
	Query url.Values
	// Headers holds request headers. Lookup is case-insensitive.
	Headers *kv.Storage
	// IP is the client address.
	IP       string
	Protocol string
	Secure   bool
	Hostname string
	// Body is empty until some middleware consumes the Stream and sets the parsed body.
	Body any
	// Stream provides the raw request body. It can be consumed only once.
	Stream *stream.Stream
}

func NewRequest(n native.Request, body *stream.Stream, id string) *Request {
	return &Request{
		ID:          id,
		Method:      n.Method(),
		Path:        n.Path(),
		OriginalURL: n.OriginalURL(),
		Params:      cloneMap(n.Params()),
		Query:       cloneValues(n.Query()),
		Headers:     kv.NewFromMap(n.Headers()),
		IP:          n.Remote(),
		Protocol:    n.Protocol(),
		Secure:      n.Secure(),
		Hostname:    n.Hostname(),
		Stream:      body,
	}
}

// Get returns the first value of the request header. Referer and Referrer are interchangeable.
func (r *Request) Get(field string) string {
	if strcomp.EqualFold(field, "referer") || strcomp.EqualFold(field, "referrer") {
		return r.Headers.ValueOr("Referer", r.Headers.Value("Referrer"))
	}

	return r.Headers.Value(field)
}

// Header is an alias for Get.
func (r *Request) Header(field string) string {
	return r.Get(field)
}

// Param returns the dynamic routing segment by its name.
func (r *Request) Param(name string) string {
	return r.Params[name]
}

// QueryValue returns the first value of the query parameter.
func (r *Request) QueryValue(name string) string {
	return r.Query.Get(name)
}

// Content negotiation isn't supported by native requests. The methods below are kept so
// handlers relying on them keep compiling, but they never match anything.

func (r *Request) Accepts(...string) string {
	return ""
}

func (r *Request) AcceptsCharsets(...string) string {
	return ""
}

func (r *Request) AcceptsEncodings(...string) string {
	return ""
}

func (r *Request) AcceptsLanguages(...string) string {
	return ""
}

func (r *Request) Is(...string) string {
	return ""
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return make(map[string]string)
	}

	return maps.Clone(m)
}

func cloneValues(values url.Values) url.Values {
	clone := make(url.Values, len(values))
	for key, vals := range values {
		clone[key] = append([]string(nil), vals...)
	}

	return clone
}

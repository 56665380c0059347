package dummy

import (
	"net/url"
	"sync/atomic"

	"github.com/indigo-web/shim/kv"
	"github.com/indigo-web/shim/native"
)

var _ native.Request = new(Request)

// Request is an in-memory native request, built via chainable setters. The body is returned
// as it was initialised with, unless an error is set to be returned instead.
type Request struct {
	method   string
	path     string
	rawQuery string
	params   map[string]string
	headers  *kv.Storage
	remote   string
	secure   bool
	hostname string
	body     []byte
	bodyErr  error
	block    chan struct{}
	reads    atomic.Int32
}

func NewRequest(method, path string) *Request {
	return &Request{
		method:   method,
		path:     path,
		params:   make(map[string]string),
		headers:  kv.New(),
		remote:   "127.0.0.1:54321",
		hostname: "localhost",
	}
}

func (r *Request) WithQuery(raw string) *Request {
	r.rawQuery = raw
	return r
}

func (r *Request) WithParam(key, value string) *Request {
	r.params[key] = value
	return r
}

func (r *Request) WithHeader(key, value string) *Request {
	r.headers.Add(key, value)
	return r
}

func (r *Request) WithBody(body string) *Request {
	r.body = []byte(body)
	return r
}

// WithBodyError makes Body fail with the error.
func (r *Request) WithBodyError(err error) *Request {
	r.bodyErr = err
	return r
}

// Blocking makes Body wait until Release is called.
func (r *Request) Blocking() *Request {
	r.block = make(chan struct{})
	return r
}

// Release unblocks Body, if the request was set to be blocking.
func (r *Request) Release() {
	close(r.block)
}

func (r *Request) WithRemote(remote string) *Request {
	r.remote = remote
	return r
}

func (r *Request) WithTLS() *Request {
	r.secure = true
	return r
}

func (r *Request) WithHostname(hostname string) *Request {
	r.hostname = hostname
	return r
}

func (r *Request) Method() string {
	return r.method
}

func (r *Request) Path() string {
	return r.path
}

func (r *Request) OriginalURL() string {
	if len(r.rawQuery) == 0 {
		return r.path
	}

	return r.path + "?" + r.rawQuery
}

func (r *Request) Params() map[string]string {
	return r.params
}

func (r *Request) Query() url.Values {
	query, _ := url.ParseQuery(r.rawQuery)
	return query
}

func (r *Request) Header(key string) string {
	return r.headers.Value(key)
}

func (r *Request) Headers() map[string][]string {
	return r.headers.Map()
}

func (r *Request) Remote() string {
	return r.remote
}

func (r *Request) Protocol() string {
	if r.secure {
		return "https"
	}

	return "http"
}

func (r *Request) Secure() bool {
	return r.secure
}

func (r *Request) Hostname() string {
	return r.hostname
}

func (r *Request) Body() ([]byte, error) {
	r.reads.Add(1)
	if r.block != nil {
		<-r.block
	}

	return r.body, r.bodyErr
}

// Reads returns how many times Body was called.
func (r *Request) Reads() int {
	return int(r.reads.Load())
}

// Package nethttp runs native handlers on top of net/http. Route parameters are taken from
// gorilla/mux, if the request was routed by it.
package nethttp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/indigo-web/shim/config"
	"github.com/indigo-web/shim/http/status"
	"github.com/indigo-web/shim/native"
)

var _ native.Request = new(Request)

// Request tracks the body retrieval, which must be waited for before ServeHTTP returns.
type Request struct {
	native.Tracker
	w        http.ResponseWriter
	r        *http.Request
	cfg      *config.Config
	consumed []byte
	read     bool
}

func NewRequest(w http.ResponseWriter, r *http.Request, cfg *config.Config) *Request {
	return &Request{w: w, r: r, cfg: cfg}
}

// Raw returns the underlying request.
func (r *Request) Raw() *http.Request {
	return r.r
}

func (r *Request) Method() string {
	return r.r.Method
}

func (r *Request) Path() string {
	return r.r.URL.Path
}

func (r *Request) OriginalURL() string {
	if len(r.r.RequestURI) > 0 {
		return r.r.RequestURI
	}

	return r.r.URL.RequestURI()
}

func (r *Request) Params() map[string]string {
	return mux.Vars(r.r)
}

func (r *Request) Query() url.Values {
	return r.r.URL.Query()
}

func (r *Request) Header(key string) string {
	return r.r.Header.Get(key)
}

func (r *Request) Headers() map[string][]string {
	return r.r.Header
}

func (r *Request) Remote() string {
	return r.r.RemoteAddr
}

func (r *Request) Protocol() string {
	if r.Secure() {
		return "https"
	}

	return "http"
}

func (r *Request) Secure() bool {
	return r.r.TLS != nil
}

func (r *Request) Hostname() string {
	return hostname(r.r.Host)
}

// Body reads the whole body, unless it exceeds config.Body.MaxSize. In that case,
// status.ErrRequestEntityTooLarge is returned.
func (r *Request) Body() ([]byte, error) {
	data, err := ReadBody(r.w, r.r, r.cfg)
	if err == nil {
		r.consumed, r.read = data, true
	}

	return data, err
}

// Replay restores the underlying request body from what Body has read, so the handlers
// further down the net/http chain can read it again. Must be called after Wait.
func (r *Request) Replay() {
	if r.read {
		r.r.Body = io.NopCloser(bytes.NewReader(r.consumed))
	}
}

// ReadBody reads the whole request body, limiting it by config.Body.MaxSize.
func ReadBody(w http.ResponseWriter, r *http.Request, cfg *config.Config) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	if r.ContentLength > cfg.Body.MaxSize {
		return nil, status.ErrRequestEntityTooLarge
	}

	prealloc := cfg.Body.BufferPrealloc
	if r.ContentLength > 0 {
		prealloc = int(r.ContentLength)
	}

	buff := bytes.NewBuffer(make([]byte, 0, prealloc))
	_, err := buff.ReadFrom(http.MaxBytesReader(w, r.Body, cfg.Body.MaxSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: %w", status.ErrRequestEntityTooLarge, err)
		}

		return nil, err
	}

	return buff.Bytes(), nil
}

func hostname(host string) string {
	name, _, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}

	return name
}

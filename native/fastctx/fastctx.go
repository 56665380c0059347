// Package fastctx runs native handlers on top of fasthttp.
package fastctx

import (
	"io"
	"net"
	"net/url"
	"sync/atomic"

	"github.com/indigo-web/shim/config"
	"github.com/indigo-web/shim/http/mime"
	"github.com/indigo-web/shim/http/status"
	"github.com/indigo-web/shim/native"
	"github.com/indigo-web/shim/native/nethttp"
	"github.com/indigo-web/utils/strcomp"
	"github.com/valyala/fasthttp"
)

// Handler runs the handlers as a chain per request. The chain and the body retrieval are
// completed before returning to fasthttp, as the request context must not be used afterward.
func Handler(cfg *config.Config, handlers ...native.Handler) fasthttp.RequestHandler {
	if cfg == nil {
		cfg = config.Default()
	}

	return func(ctx *fasthttp.RequestCtx) {
		req := NewRequest(ctx, cfg)
		res := NewResponse(ctx)
		native.SetDefaults(res, cfg.Headers.Default)
		err := native.Run(ctx, req, res, handlers...)
		req.Wait()
		_ = native.Fallback(res, err)
	}
}

var _ native.Request = new(Request)

type Request struct {
	native.Tracker
	ctx *fasthttp.RequestCtx
	cfg *config.Config
}

func NewRequest(ctx *fasthttp.RequestCtx, cfg *config.Config) *Request {
	return &Request{ctx: ctx, cfg: cfg}
}

func (r *Request) Method() string {
	return string(r.ctx.Method())
}

func (r *Request) Path() string {
	return string(r.ctx.Path())
}

func (r *Request) OriginalURL() string {
	return string(r.ctx.RequestURI())
}

// Params are the string user values, as routers for fasthttp store them there.
func (r *Request) Params() map[string]string {
	params := make(map[string]string)
	r.ctx.VisitUserValues(func(key []byte, value any) {
		if str, ok := value.(string); ok {
			params[string(key)] = str
		}
	})

	return params
}

func (r *Request) Query() url.Values {
	query, _ := url.ParseQuery(string(r.ctx.QueryArgs().QueryString()))
	return query
}

func (r *Request) Header(key string) string {
	return string(r.ctx.Request.Header.Peek(key))
}

func (r *Request) Headers() map[string][]string {
	headers := make(map[string][]string)
	r.ctx.Request.Header.VisitAll(func(key, value []byte) {
		k := string(key)
		headers[k] = append(headers[k], string(value))
	})

	return headers
}

func (r *Request) Remote() string {
	return r.ctx.RemoteAddr().String()
}

func (r *Request) Protocol() string {
	if r.Secure() {
		return "https"
	}

	return "http"
}

func (r *Request) Secure() bool {
	return r.ctx.IsTLS()
}

func (r *Request) Hostname() string {
	host := string(r.ctx.Host())
	if name, _, err := net.SplitHostPort(host); err == nil {
		return name
	}

	return host
}

// Body copies the body, as the underlying buffer is reused by fasthttp.
func (r *Request) Body() ([]byte, error) {
	body := r.ctx.PostBody()
	if int64(len(body)) > r.cfg.Body.MaxSize {
		return nil, status.ErrRequestEntityTooLarge
	}

	return append([]byte(nil), body...), nil
}

var _ native.Response = new(Response)

type Response struct {
	ctx       *fasthttp.RequestCtx
	typed     atomic.Bool
	committed atomic.Bool
}

func NewResponse(ctx *fasthttp.RequestCtx) *Response {
	return &Response{ctx: ctx}
}

func (r *Response) Status(code status.Code) native.Response {
	r.ctx.SetStatusCode(code)
	return r
}

func (r *Response) StatusCode() status.Code {
	return r.ctx.Response.StatusCode()
}

func (r *Response) Header(key, value string) native.Response {
	if isContentType(key) {
		return r.Type(value)
	}

	r.ctx.Response.Header.Set(key, value)
	return r
}

func (r *Response) AddHeader(key, value string) native.Response {
	if isContentType(key) {
		return r.Type(value)
	}

	r.ctx.Response.Header.Add(key, value)
	return r
}

// GetHeader returns an empty Content-Type unless it was explicitly set, even though fasthttp
// reports its own default.
func (r *Response) GetHeader(key string) string {
	if isContentType(key) && !r.typed.Load() {
		return ""
	}

	return string(r.ctx.Response.Header.Peek(key))
}

func (r *Response) RemoveHeader(key string) native.Response {
	if isContentType(key) {
		r.typed.Store(false)
	}

	r.ctx.Response.Header.Del(key)
	return r
}

func (r *Response) Type(value mime.MIME) native.Response {
	r.typed.Store(true)
	r.ctx.SetContentType(value)
	return r
}

func isContentType(key string) bool {
	return strcomp.EqualFold(key, "Content-Type")
}

func (r *Response) Send(body []byte) error {
	if !r.committed.CompareAndSwap(false, true) {
		return nethttp.ErrCommitted
	}

	r.ctx.SetBody(body)
	return nil
}

// Stream copies the reader into the response body at once, as the reader is usually closed
// right after the call returns.
func (r *Response) Stream(reader io.Reader, _ int64) error {
	if !r.committed.CompareAndSwap(false, true) {
		return nethttp.ErrCommitted
	}

	r.ctx.Response.ResetBody()
	_, err := io.Copy(r.ctx.Response.BodyWriter(), reader)
	return err
}

func (r *Response) Committed() bool {
	return r.committed.Load()
}

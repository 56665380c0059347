// Package ginctx runs native handlers as gin middlewares.
package ginctx

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/indigo-web/shim/config"
	"github.com/indigo-web/shim/http/mime"
	"github.com/indigo-web/shim/http/status"
	"github.com/indigo-web/shim/native"
	"github.com/indigo-web/shim/native/nethttp"
)

type Options struct {
	// Config defaults to config.Default().
	Config *config.Config
	// Views enables rendering via the engine's HTML templates. The engine must have them
	// loaded.
	Views bool
}

// HandlerFunc converts the handler into a gin middleware. Passing the request on results
// in c.Next(), an error aborts the chain with the code of the error, unless the response
// is already written. A written response aborts the rest of the chain as well. The request
// body is retrieved before anything is written, and the handlers following in the gin chain
// can read it again.
func HandlerFunc(h native.Handler, options ...Options) gin.HandlerFunc {
	var opts Options
	if len(options) > 0 {
		opts = options[0]
	}

	if opts.Config == nil {
		opts.Config = config.Default()
	}

	return func(c *gin.Context) {
		req := NewRequest(c, opts.Config)
		base := NewResponse(c)
		base.body = &req.Tracker

		var res native.Response = base
		if opts.Views {
			res = RenderingResponse{base}
		}

		done := make(chan error, 1)
		h(req, res, func(err error) {
			select {
			case done <- err:
			default:
			}
		})

		var (
			err      error
			canceled bool
		)

		select {
		case err = <-done:
		case <-c.Request.Context().Done():
			canceled = true
		}

		req.Wait()

		switch {
		case canceled:
			c.Abort()
		case err != nil:
			_ = c.Error(err)
			if !c.Writer.Written() {
				code := status.CodeOf(err)
				c.Data(code, mime.WithCharset(mime.Plain), []byte(status.Text(code)))
			}

			c.Abort()
		case c.Writer.Written():
			c.Abort()
		default:
			req.Replay()
			c.Next()
		}
	}
}

// Request takes everything from the underlying *http.Request, except route parameters and
// the client address, which are resolved by gin.
type Request struct {
	*nethttp.Request
	c *gin.Context
}

var _ native.Request = Request{}

func NewRequest(c *gin.Context, cfg *config.Config) Request {
	return Request{
		Request: nethttp.NewRequest(c.Writer, c.Request, cfg),
		c:       c,
	}
}

func (r Request) Params() map[string]string {
	params := make(map[string]string, len(r.c.Params))
	for _, param := range r.c.Params {
		params[param.Key] = param.Value
	}

	return params
}

func (r Request) Remote() string {
	return r.c.ClientIP()
}

var _ native.Response = new(Response)

type Response struct {
	c    *gin.Context
	body *native.Tracker
}

func NewResponse(c *gin.Context) *Response {
	return &Response{c: c}
}

func (r *Response) Status(code status.Code) native.Response {
	r.c.Status(code)
	return r
}

func (r *Response) StatusCode() status.Code {
	return r.c.Writer.Status()
}

func (r *Response) Header(key, value string) native.Response {
	r.c.Writer.Header().Set(key, value)
	return r
}

func (r *Response) AddHeader(key, value string) native.Response {
	r.c.Writer.Header().Add(key, value)
	return r
}

func (r *Response) GetHeader(key string) string {
	return r.c.Writer.Header().Get(key)
}

func (r *Response) RemoveHeader(key string) native.Response {
	r.c.Writer.Header().Del(key)
	return r
}

func (r *Response) Type(value mime.MIME) native.Response {
	return r.Header("Content-Type", value)
}

// settle waits for the request body, as net/http may discard it once the header is written.
func (r *Response) settle() {
	if r.body != nil {
		r.body.Wait()
	}
}

func (r *Response) Send(body []byte) error {
	if r.Committed() {
		return nethttp.ErrCommitted
	}

	r.settle()

	r.Header("Content-Length", strconv.Itoa(len(body)))
	r.c.Writer.WriteHeaderNow()
	_, err := r.c.Writer.Write(body)
	return err
}

func (r *Response) Stream(reader io.Reader, size int64) error {
	if r.Committed() {
		return nethttp.ErrCommitted
	}

	r.settle()
	if size >= 0 {
		r.Header("Content-Length", strconv.FormatInt(size, 10))
	}

	r.c.Writer.WriteHeaderNow()
	_, err := io.Copy(r.c.Writer, reader)
	return err
}

func (r *Response) Committed() bool {
	return r.c.Writer.Written()
}

// RenderingResponse renders views by the HTML templates loaded into the engine.
type RenderingResponse struct {
	*Response
}

var _ native.Renderer = RenderingResponse{}

func (r RenderingResponse) Render(view string, data any) error {
	if r.Committed() {
		return nethttp.ErrCommitted
	}

	r.settle()
	r.c.HTML(r.c.Writer.Status(), view, data)
	return nil
}

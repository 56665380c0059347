package nethttp

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/indigo-web/shim/http/mime"
	"github.com/indigo-web/shim/http/status"
	"github.com/indigo-web/shim/native"
)

var ErrCommitted = errors.New("response is already committed")

var _ native.Response = new(Response)

// Response writes into the http.ResponseWriter. Headers and the status are buffered until
// the response is sent.
type Response struct {
	w         http.ResponseWriter
	code      status.Code
	committed atomic.Bool
	body      *native.Tracker
}

func NewResponse(w http.ResponseWriter) *Response {
	return &Response{
		w:    w,
		code: status.OK,
	}
}

// Await makes the response wait for the tracked body reads before writing the header, as
// net/http may discard the unread request body once the header is written.
func (r *Response) Await(body *native.Tracker) *Response {
	r.body = body
	return r
}

func (r *Response) Status(code status.Code) native.Response {
	r.code = code
	return r
}

func (r *Response) StatusCode() status.Code {
	return r.code
}

func (r *Response) Header(key, value string) native.Response {
	r.w.Header().Set(key, value)
	return r
}

func (r *Response) AddHeader(key, value string) native.Response {
	r.w.Header().Add(key, value)
	return r
}

func (r *Response) GetHeader(key string) string {
	return r.w.Header().Get(key)
}

func (r *Response) RemoveHeader(key string) native.Response {
	r.w.Header().Del(key)
	return r
}

func (r *Response) Type(value mime.MIME) native.Response {
	return r.Header("Content-Type", value)
}

func (r *Response) Send(body []byte) error {
	if !r.commit(int64(len(body))) {
		return ErrCommitted
	}

	_, err := r.w.Write(body)
	return err
}

func (r *Response) Stream(reader io.Reader, size int64) error {
	if !r.commit(size) {
		return ErrCommitted
	}

	_, err := io.Copy(r.w, reader)
	return err
}

func (r *Response) commit(size int64) bool {
	if !r.committed.CompareAndSwap(false, true) {
		return false
	}

	if r.body != nil {
		r.body.Wait()
	}

	if size >= 0 {
		r.w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}

	r.w.WriteHeader(r.code)
	return true
}

func (r *Response) Committed() bool {
	return r.committed.Load()
}

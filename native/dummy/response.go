package dummy

import (
	"io"
	"sync"

	"github.com/indigo-web/shim/http/mime"
	"github.com/indigo-web/shim/http/status"
	"github.com/indigo-web/shim/kv"
	"github.com/indigo-web/shim/native"
	json "github.com/json-iterator/go"
)

var _ native.Response = new(Response)

// Response records everything done to it. Every send-like call is journaled, so tests can
// check that nothing was sent twice.
type Response struct {
	mu      sync.Mutex
	code    status.Code
	headers *kv.Storage
	body    []byte
	sends   int
	sendErr error
}

func NewResponse() *Response {
	return &Response{
		code:    status.OK,
		headers: kv.New(),
	}
}

// FailWith makes every send-like call fail with the error. The response is still considered
// committed.
func (r *Response) FailWith(err error) *Response {
	r.sendErr = err
	return r
}

func (r *Response) Status(code status.Code) native.Response {
	r.mu.Lock()
	r.code = code
	r.mu.Unlock()
	return r
}

func (r *Response) StatusCode() status.Code {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.code
}

func (r *Response) Header(key, value string) native.Response {
	r.mu.Lock()
	r.headers.Set(key, value)
	r.mu.Unlock()
	return r
}

func (r *Response) AddHeader(key, value string) native.Response {
	r.mu.Lock()
	r.headers.Add(key, value)
	r.mu.Unlock()
	return r
}

func (r *Response) GetHeader(key string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.headers.Value(key)
}

// HeaderValues returns all the values of the header.
func (r *Response) HeaderValues(key string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.headers.Values(key)
}

func (r *Response) RemoveHeader(key string) native.Response {
	r.mu.Lock()
	r.headers.Delete(key)
	r.mu.Unlock()
	return r
}

func (r *Response) Type(value mime.MIME) native.Response {
	return r.Header("Content-Type", value)
}

func (r *Response) Send(body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sends++
	r.body = append(r.body[:0], body...)

	return r.sendErr
}

func (r *Response) Stream(reader io.Reader, _ int64) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	return r.Send(data)
}

func (r *Response) Committed() bool {
	return r.Sends() > 0
}

// Sends returns how many times the response was sent.
func (r *Response) Sends() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.sends
}

// Body returns the last sent body.
func (r *Response) Body() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return string(r.body)
}

// RenderingResponse is a Response, which also implements native.Renderer by sending the
// view name followed by the JSON-encoded data.
type RenderingResponse struct {
	*Response
}

var _ native.Renderer = RenderingResponse{}

func NewRenderingResponse() RenderingResponse {
	return RenderingResponse{NewResponse()}
}

func (r RenderingResponse) Render(view string, data any) error {
	encoded, err := json.ConfigCompatibleWithStandardLibrary.Marshal(data)
	if err != nil {
		return err
	}

	r.Type(mime.HTML)
	return r.Send(append([]byte(view+":"), encoded...))
}

package http

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/indigo-web/shim/config"
	"github.com/indigo-web/shim/http/cookie"
	"github.com/indigo-web/shim/http/mime"
	"github.com/indigo-web/shim/http/status"
	"github.com/indigo-web/shim/internal/completion"
	"github.com/indigo-web/shim/native"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
)

// Response is a facade over the native response. Mutating methods return the response itself,
// so calls can be chained. Terminal methods send the response and continue the chain.
//
// The response can be sent only once. After that, every mutating or terminal method is a
// no-op; terminal ones return nil.
type Response struct {
	// Locals is a request-scoped storage, shared between handlers of a single request.
	Locals map[string]any
	native native.Response
	guard  *completion.Guard
	req    *Request
	cfg    *config.Config
}

func NewResponse(n native.Response, req *Request, guard *completion.Guard, cfg *config.Config) *Response {
	return &Response{
		Locals: make(map[string]any),
		native: n,
		guard:  guard,
		req:    req,
		cfg:    cfg,
	}
}

// Native exposes the underlying native response. Writing into it directly bypasses the
// sent-once protection.
func (r *Response) Native() native.Response {
	return r.native
}

// Sent reports whether the response was already sent.
func (r *Response) Sent() bool {
	return r.guard.Sent()
}

// HeadersSent is an alias for Sent, as headers are always sent together with the body.
func (r *Response) HeadersSent() bool {
	return r.Sent()
}

// StatusCode returns the currently set status code.
func (r *Response) StatusCode() status.Code {
	return r.native.StatusCode()
}

// Get returns the first value of the response header.
func (r *Response) Get(field string) string {
	return r.native.GetHeader(field)
}

// GetHeader is an alias for Get.
func (r *Response) GetHeader(field string) string {
	return r.Get(field)
}

func (r *Response) mutate(op string, fn func()) *Response {
	r.guard.Mutate(op, fn)
	return r
}

// Status sets the response code.
func (r *Response) Status(code status.Code) *Response {
	return r.mutate("status", func() {
		r.native.Status(code)
	})
}

// Set sets the header, replacing its previous values. Content-Type values are normalized
// the same way as Type does.
func (r *Response) Set(field, value string) *Response {
	return r.mutate("set", func() {
		r.set(field, value)
	})
}

// SetHeader is an alias for Set.
func (r *Response) SetHeader(field, value string) *Response {
	return r.Set(field, value)
}

func (r *Response) set(field, value string) {
	if strcomp.EqualFold(field, "content-type") {
		r.native.Type(mime.WithCharset(mime.Normalize(value)))
		return
	}

	r.native.Header(field, value)
}

// Type sets the Content-Type. Short notations like "json" or ".html" are resolved by the
// extension.
func (r *Response) Type(t string) *Response {
	return r.mutate("type", func() {
		r.native.Type(mime.WithCharset(mime.Normalize(t)))
	})
}

// Append adds one more value to the header.
func (r *Response) Append(field, value string) *Response {
	return r.mutate("append", func() {
		r.native.AddHeader(field, value)
	})
}

// Attachment sets the Content-Disposition to attachment. If the filename is passed, it's
// included, and the Content-Type is set by its extension.
func (r *Response) Attachment(filename ...string) *Response {
	return r.mutate("attachment", func() {
		if len(filename) == 0 || len(filename[0]) == 0 {
			r.native.Header("Content-Disposition", "attachment")
			return
		}

		r.native.Type(r.fileMIME(filename[0]))
		r.native.Header("Content-Disposition", contentDisposition(filename[0]))
	})
}

// Cookie adds a Set-Cookie header. Only the attributes set in opts are rendered. Cookies with
// malformed names are silently dropped.
func (r *Response) Cookie(name, value string, opts ...cookie.Options) *Response {
	return r.setCookie(cookie.New(name, value, opts...))
}

// ClearCookie instructs the user-agent to drop the cookie. Path and Domain must match the
// ones the cookie was set with.
func (r *Response) ClearCookie(name string, opts ...cookie.Options) *Response {
	var options cookie.Options
	if len(opts) > 0 {
		options = opts[0]
	}

	return r.setCookie(cookie.Expired(name, options))
}

func (r *Response) setCookie(c cookie.Cookie) *Response {
	return r.mutate("cookie", func() {
		value, err := cookie.Render(c)
		if err != nil {
			return
		}

		r.native.AddHeader("Set-Cookie", value)
	})
}

// Location sets the Location header. The special value "back" is resolved into the Referer,
// or "/" if there's none.
func (r *Response) Location(url string) *Response {
	return r.mutate("location", func() {
		r.native.Header("Location", r.resolveLocation(url))
	})
}

func (r *Response) resolveLocation(url string) string {
	if url != "back" {
		return url
	}

	if referer := r.req.Get("Referer"); len(referer) > 0 {
		return referer
	}

	return "/"
}

// Vary adds the field to the Vary header, unless it's already there.
func (r *Response) Vary(field string) *Response {
	return r.mutate("vary", func() {
		r.native.Header("Vary", appendVary(r.native.GetHeader("Vary"), field))
	})
}

func appendVary(header, field string) string {
	if header == "*" {
		return header
	}

	if field == "*" || len(strings.TrimSpace(header)) == 0 {
		return field
	}

	for _, present := range strings.Split(header, ",") {
		if strcomp.EqualFold(strings.TrimSpace(present), field) {
			return header
		}
	}

	return header + ", " + field
}

// RemoveHeader removes all the values of the header.
func (r *Response) RemoveHeader(field string) *Response {
	return r.mutate("remove-header", func() {
		r.native.RemoveHeader(field)
	})
}

// Send sends the body. Strings default to text/html, byte slices to application/octet-stream,
// unless a Content-Type is already set. Any other value is sent as JSON.
func (r *Response) Send(body any) error {
	var (
		data        []byte
		contentType mime.MIME
	)

	switch b := body.(type) {
	case nil:
	case string:
		data, contentType = uf.S2B(b), mime.HTML
	case []byte:
		data, contentType = b, mime.OctetStream
	default:
		return r.JSON(body)
	}

	return r.finalize("send", func() error {
		if len(contentType) > 0 && len(r.native.GetHeader("Content-Type")) == 0 {
			r.native.Type(mime.WithCharset(contentType))
		}

		return r.native.Send(data)
	})
}

// JSON sends the model serialized into JSON. If the model can't be serialized, nothing is
// sent and the error is handled as any other error raised by a handler.
func (r *Response) JSON(model any) error {
	data, err := json.ConfigCompatibleWithStandardLibrary.Marshal(model)
	if err != nil {
		if !r.guard.Sent() {
			r.guard.Fail(err)
		}

		return err
	}

	return r.finalize("json", func() error {
		if len(r.native.GetHeader("Content-Type")) == 0 {
			r.native.Type(mime.WithCharset(mime.JSON))
		}

		return r.native.Send(data)
	})
}

// JSONP sends the model as JSON wrapped into the callback, named by the query parameter
// (see config.JSONP). If there's no callback requested, it behaves exactly as JSON.
func (r *Response) JSONP(model any) error {
	callback := sanitizeCallback(r.req.Query.Get(r.cfg.JSONP.CallbackParam))
	if len(callback) == 0 {
		return r.JSON(model)
	}

	data, err := json.ConfigCompatibleWithStandardLibrary.Marshal(model)
	if err != nil {
		if !r.guard.Sent() {
			r.guard.Fail(err)
		}

		return err
	}

	body := make([]byte, 0, len(callback)+len(data)+3)
	body = append(body, callback...)
	body = append(body, '(')
	body = append(body, escapeLineTerminators(data)...)
	body = append(body, ");"...)

	return r.finalize("jsonp", func() error {
		r.native.Header("X-Content-Type-Options", "nosniff")
		r.native.Type(mime.WithCharset(mime.JavaScript))
		return r.native.Send(body)
	})
}

func sanitizeCallback(callback string) string {
	return strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '$', c == '.', c == '[', c == ']':
		default:
			return -1
		}

		return c
	}, callback)
}

// escapeLineTerminators replaces U+2028 and U+2029, which are valid in JSON strings, but
// terminate lines in JavaScript.
func escapeLineTerminators(data []byte) []byte {
	str := uf.B2S(data)
	if !strings.ContainsAny(str, "\u2028\u2029") {
		return data
	}

	return []byte(lineTerminators.Replace(str))
}

var lineTerminators = strings.NewReplacer("\u2028", `\u2028`, "\u2029", `\u2029`)

// End sends the data (if any) as is.
func (r *Response) End(data ...[]byte) error {
	var body []byte
	if len(data) > 0 {
		body = data[0]
	}

	return r.finalize("end", func() error {
		return r.native.Send(body)
	})
}

// SendStatus sets the code and sends its decimal representation as a body.
func (r *Response) SendStatus(code status.Code) error {
	return r.finalize("send-status", func() error {
		if len(r.native.GetHeader("Content-Type")) == 0 {
			r.native.Type(mime.WithCharset(mime.Plain))
		}

		return r.native.
			Status(code).
			Send(uf.S2B(status.StringCode(code)))
	})
}

// Redirect redirects to the url. The code defaults to status.Found; if there are more codes
// passed, only the first one is used.
func (r *Response) Redirect(url string, code ...status.Code) error {
	c := status.Found
	if len(code) > 0 {
		c = code[0]
	}

	return r.finalize("redirect", func() error {
		return r.native.
			Status(c).
			Header("Location", r.resolveLocation(url)).
			Send(nil)
	})
}

// Render renders the view by the native response, if it implements native.Renderer.
// Otherwise, ErrNoRenderer is reported as an error.
func (r *Response) Render(view string, data any) error {
	renderer, ok := r.native.(native.Renderer)
	if !ok {
		if !r.guard.Sent() {
			r.guard.Fail(ErrNoRenderer)
		}

		return ErrNoRenderer
	}

	return r.finalize("render", func() error {
		return renderer.Render(view, data)
	})
}

// Download transfers the file as an attachment. The filename defaults to the base name of
// the path. See SendFile for the error handling.
func (r *Response) Download(path, filename string, cb ...FileCallback) error {
	return r.DownloadWith(path, filename, FileOptions{}, cb...)
}

// DownloadWith is Download with the options applied.
func (r *Response) DownloadWith(path, filename string, opts FileOptions, cb ...FileCallback) error {
	if len(filename) == 0 {
		filename = filepath.Base(path)
	}

	return r.sendFile("download", path, contentDisposition(filename), opts, optional(cb))
}

// SendFile transfers the file. The Content-Type is decided by the extension. If the file
// can't be opened, the error is passed to the callback if there's one, otherwise it's handled
// as any other error raised by a handler. On success the chain is continued, as with any other
// terminal method, after notifying the callback. The error is also returned.
func (r *Response) SendFile(path string, cb ...FileCallback) error {
	return r.SendFileWith(path, FileOptions{}, cb...)
}

// SendFileWith is SendFile with the options applied.
func (r *Response) SendFileWith(path string, opts FileOptions, cb ...FileCallback) error {
	return r.sendFile("send-file", path, "", opts, optional(cb))
}

func (r *Response) sendFile(op, path, disposition string, opts FileOptions, cb FileCallback) error {
	if r.guard.Sent() {
		return nil
	}

	path, err := resolvePath(opts.Root, path)
	if err != nil {
		return r.fileFailed(err, cb)
	}

	file, size, err := openFile(path)
	if err != nil {
		return r.fileFailed(err, cb)
	}

	defer file.Close()

	ok, err := r.guard.Seal(op, func() error {
		for key, value := range opts.Headers {
			r.native.Header(key, value)
		}

		r.native.Type(r.fileMIME(path))
		if len(disposition) > 0 {
			r.native.Header("Content-Disposition", disposition)
		}

		r.native.Header("Content-Length", strconv.FormatInt(size, 10))

		return r.native.Stream(file, size)
	})
	if !ok {
		return nil
	}

	if err != nil {
		return r.fileFailed(err, cb)
	}

	if cb != nil {
		cb(nil)
	}

	r.guard.Continue(r.guard.Failure())
	return nil
}

func (r *Response) fileFailed(err error, cb FileCallback) error {
	if cb != nil {
		cb(err)
	} else {
		r.guard.Fail(err)
	}

	return err
}

func (r *Response) fileMIME(path string) string {
	if m := mime.Lookup(path); len(m) > 0 {
		return mime.WithCharset(m)
	}

	return r.cfg.Files.DefaultMIME
}

func (r *Response) finalize(op string, fn func() error) error {
	_, err := r.guard.Finalize(op, fn)
	return err
}

// resolvePath joins the path with the root, unless the root is empty. The result must stay
// within the root.
func resolvePath(root, path string) (string, error) {
	if len(root) == 0 {
		return path, nil
	}

	resolved := filepath.Join(root, filepath.FromSlash(path))
	rel, err := filepath.Rel(root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %w", status.ErrForbidden, ErrOutsideRoot)
	}

	return resolved, nil
}

func openFile(path string) (*os.File, int64, error) {
	fd, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, fmt.Errorf("%w: %w", status.ErrNotFound, err)
		}

		return nil, 0, err
	}

	stat, err := fd.Stat()
	if err != nil {
		_ = fd.Close()
		return nil, 0, err
	}

	if stat.IsDir() {
		_ = fd.Close()
		return nil, 0, fmt.Errorf("%w: %w", status.ErrNotFound, ErrIsDir)
	}

	return fd, stat.Size(), nil
}

func contentDisposition(filename string) string {
	return `attachment; filename="` + strings.ReplaceAll(filepath.Base(filename), `"`, `\"`) + `"`
}

func optional[T any](values []T) (value T) {
	if len(values) > 0 {
		return values[0]
	}

	return value
}

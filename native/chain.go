package native

import (
	"context"
	"fmt"

	"github.com/indigo-web/shim/http/status"
)

// ErrUnhandled is returned by Run when every handler passed the request on without
// responding. It is answered as status.ErrNotFound.
var ErrUnhandled = fmt.Errorf("%w: no handler responded", status.ErrNotFound)

// Run executes the handlers one after another. Each handler must call next in order for the
// following one to be invoked, which may happen asynchronously. The chain stops at the first
// error, as soon as the response is committed or when the ctx is done. If all the handlers
// passed without committing the response, ErrUnhandled is returned.
func Run(ctx context.Context, req Request, res Response, handlers ...Handler) error {
	for _, handler := range handlers {
		done := make(chan error, 1)
		handler(req, res, func(err error) {
			// handlers are guarded against calling next twice, but foreign ones might not be
			select {
			case done <- err:
			default:
			}
		})

		select {
		case err := <-done:
			if err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}

		if res.Committed() {
			return nil
		}
	}

	return ErrUnhandled
}

// Fallback answers the error returned by Run, unless the response is already committed.
func Fallback(res Response, err error) error {
	if err == nil || res.Committed() {
		return nil
	}

	code := status.CodeOf(err)
	return res.
		Status(code).
		Type("text/plain; charset=utf-8").
		Send([]byte(status.Text(code)))
}

// SetDefaults sets the headers on the response.
func SetDefaults(res Response, headers map[string]string) {
	for key, value := range headers {
		res.Header(key, value)
	}
}

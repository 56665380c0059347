package nethttp

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/indigo-web/shim/config"
	"github.com/indigo-web/shim/native"
)

// Handler runs the handlers as a chain per request. If none of them responded, or the chain
// was aborted by an error, the response is produced by native.Fallback. The request body is
// always retrieved before the response is written and before returning.
func Handler(cfg *config.Config, handlers ...native.Handler) http.Handler {
	if cfg == nil {
		cfg = config.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := NewRequest(w, r, cfg)
		res := NewResponse(w).Await(&req.Tracker)
		native.SetDefaults(res, cfg.Headers.Default)
		err := native.Run(r.Context(), req, res, handlers...)
		req.Wait()
		_ = native.Fallback(res, err)
	})
}

// Middleware runs the handlers in front of the wrapped http.Handler, which is called if
// all of them passed the request on without responding. The wrapped handler sees the same
// request body, as it was read by the handlers.
func Middleware(cfg *config.Config, handlers ...native.Handler) mux.MiddlewareFunc {
	if cfg == nil {
		cfg = config.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := NewRequest(w, r, cfg)
			res := NewResponse(w).Await(&req.Tracker)
			err := native.Run(r.Context(), req, res, handlers...)
			req.Wait()
			if errors.Is(err, native.ErrUnhandled) {
				req.Replay()
				next.ServeHTTP(w, r)
				return
			}

			_ = native.Fallback(res, err)
		})
	}
}

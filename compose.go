package shim

import "github.com/indigo-web/shim/http"

// Compose makes a single handler out of the chain, so they all share the same request and
// response. This is how middlewares setting req.Body or res.Locals must be mounted, as every
// adapted handler gets its own pair. Passing nil to next proceeds to the following handler,
// and after the last one to the outer next. An error skips the rest of the chain.
func Compose(handlers ...http.Handler) http.Handler {
	if len(handlers) == 0 {
		return func(_ *http.Request, _ *http.Response, next http.Next) error {
			next(nil)
			return nil
		}
	}

	return compose(handlers)
}

func compose(handlers []http.Handler) http.Handler {
	if len(handlers) == 1 {
		return handlers[0]
	}

	rest := compose(handlers[1:])

	return func(req *http.Request, res *http.Response, next http.Next) error {
		return handlers[0](req, res, func(err error) {
			if err != nil || res.Sent() {
				next(err)
				return
			}

			if err = invoke(rest, req, res, next); err != nil {
				next(err)
			}
		})
	}
}

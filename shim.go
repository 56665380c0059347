// Package shim runs handlers written against rich request/response objects (see package http)
// on top of narrower native ones (see package native).
package shim

import (
	"errors"
	"fmt"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/shim/config"
	"github.com/indigo-web/shim/http"
	"github.com/indigo-web/shim/http/status"
	"github.com/indigo-web/shim/http/stream"
	"github.com/indigo-web/shim/internal/completion"
	"github.com/indigo-web/shim/logging"
	"github.com/indigo-web/shim/metrics"
	"github.com/indigo-web/shim/native"
	"go.uber.org/zap"
)

// Options configure a single adapted handler. Zero values are replaced by defaults.
type Options struct {
	// Logger defaults to logging.Default().
	Logger logging.Logger
	// ErrorHandler defaults to DefaultErrorHandler.
	ErrorHandler http.ErrorHandler
	// Config defaults to config.Default().
	Config *config.Config
	// Metrics are disabled if nil.
	Metrics *metrics.Metrics
}

func (o Options) fill() Options {
	if o.Logger == nil {
		o.Logger = logging.Default()
	}

	if o.ErrorHandler == nil {
		o.ErrorHandler = DefaultErrorHandler
	}

	if o.Config == nil {
		o.Config = config.Default()
	}

	return o
}

// DefaultErrorHandler responds with the JSON object {"error": message}. The code is
// 500 Internal Server Error, unless the error wraps status.HTTPError.
func DefaultErrorHandler(err error, _ *http.Request, res *http.Response) {
	code, message := status.InternalServerError, err.Error()

	var httpErr status.HTTPError
	if errors.As(err, &httpErr) {
		code, message = httpErr.Code, httpErr.Message
	}

	_ = res.Status(code).JSON(map[string]string{"error": message})
}

// Adapt returns a native handler, presenting the handler with the request and response
// proxies. Only the first options are used, if passed more.
//
// The native continuation is called exactly once per request: after a terminal response
// method, after the handler has called next, or after an error was handled, whichever happens
// first. Errors include those returned by the handler, passed to next, panics and failures of
// the body retrieval. The latter bypass the error handler and continue the chain directly,
// dropping any response the handler attempts afterward.
//
// If the native request implements native.Tracked, the body retrieval is registered with it,
// so the binding can wait for it before releasing the request.
func Adapt(handler http.Handler, options ...Options) native.Handler {
	opts := optional(options).fill()

	return func(nreq native.Request, nres native.Response, next native.Next) {
		opts.Metrics.Request()

		var (
			guard = completion.New(next)
			body  = stream.Materialize(func() ([]byte, error) {
				data, err := nreq.Body()
				if err == nil {
					opts.Metrics.Body(len(data))
				}

				return data, err
			})
			req = http.NewRequest(nreq, body, uniuri.NewLen(opts.Config.Request.IDLength))
			res = http.NewResponse(nres, req, guard, opts.Config)
			log = opts.Logger
		)

		log.Debug("request",
			zap.String("id", req.ID),
			zap.String("method", req.Method),
			zap.String("path", req.Path),
		)

		if tracked, ok := nreq.(native.Tracked); ok {
			tracked.Track(body.Done())
		}

		body.Once(stream.Error, func(_ []byte, err error) {
			if guard.Continued() {
				log.Debug("request body failed after the chain was continued",
					zap.String("id", req.ID),
					zap.Error(err),
				)
				return
			}

			opts.Metrics.Failure(metrics.KindBody)
			log.Error("cannot retrieve request body", zap.String("id", req.ID), zap.Error(err))
			guard.Abandon()
			guard.Continue(err)
		})

		guard.OnSuppressed(func(op string) {
			opts.Metrics.Suppress(op)
			log.Debug("response already sent, operation dropped",
				zap.String("id", req.ID),
				zap.String("op", op),
			)
		})

		fail := func(kind string, err error) {
			if guard.Continued() {
				if reported := guard.Failure(); reported != nil && errors.Is(err, reported) {
					// e.g. SendFile reports its own failure and returns it as well
					return
				}

				opts.Metrics.Failure(kind)
				log.Error("error after the chain was continued", zap.String("id", req.ID), zap.Error(err))
				return
			}

			opts.Metrics.Failure(kind)

			log.Error("handler failed", zap.String("id", req.ID), zap.Error(err))
			guard.Report(err)
			handleError(opts.ErrorHandler, err, req, res, log)
			guard.Continue(err)
		}

		guard.OnFailure(func(err error) {
			fail(metrics.KindResponse, err)
		})

		continuation := func(err error) {
			if err != nil {
				fail(metrics.KindHandler, err)
				return
			}

			if !guard.Sent() {
				guard.Continue(nil)
			}
		}

		if err := body.Err(); err != nil {
			return
		}

		if err := invoke(handler, req, res, continuation); err != nil {
			continuation(err)
		}
	}
}

// AdaptAll adapts every handler with default options.
func AdaptAll(handlers ...http.Handler) []native.Handler {
	return AdaptAllWith(Options{}, handlers...)
}

// AdaptAllWith adapts every handler with the same options.
func AdaptAllWith(options Options, handlers ...http.Handler) []native.Handler {
	adapted := make([]native.Handler, len(handlers))
	for i, handler := range handlers {
		adapted[i] = Adapt(handler, options)
	}

	return adapted
}

// invoke calls the handler, converting a panic into an error.
func invoke(handler http.Handler, req *http.Request, res *http.Response, next http.Next) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()

	return handler(req, res, next)
}

func handleError(eh http.ErrorHandler, err error, req *http.Request, res *http.Response, log logging.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("error handler panicked", zap.String("id", req.ID), zap.Error(recovered(r)))
		}
	}()

	eh(err, req, res)
}

func recovered(r any) error {
	if err, ok := r.(error); ok {
		return err
	}

	return fmt.Errorf("%v", r)
}

func optional[T any](values []T) (value T) {
	if len(values) > 0 {
		return values[0]
	}

	return value
}

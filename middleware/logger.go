package middleware

import (
	"github.com/indigo-web/shim/http"
	"github.com/indigo-web/shim/logging"
	"go.uber.org/zap"
)

// LogRequests logs every request passing through.
func LogRequests(logger logging.Logger) http.Handler {
	return func(req *http.Request, _ *http.Response, next http.Next) error {
		logger.Debug("incoming request",
			zap.String("id", req.ID),
			zap.String("method", req.Method),
			zap.String("url", req.OriginalURL),
			zap.String("ip", req.IP),
		)

		next(nil)
		return nil
	}
}

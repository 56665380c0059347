package middleware

import (
	"math"
	"strconv"
	"time"

	"github.com/indigo-web/shim/http"
	"github.com/indigo-web/shim/http/status"
	"golang.org/x/time/rate"
)

// RateLimit answers 429 Too Many Requests when the limiter refuses the request. The limiter
// is shared across all the requests passing through.
func RateLimit(limiter *rate.Limiter) http.Handler {
	return func(_ *http.Request, res *http.Response, next http.Next) error {
		reservation := limiter.Reserve()
		if !reservation.OK() {
			return res.SendStatus(status.TooManyRequests)
		}

		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			return res.
				Set("Retry-After", retryAfter(delay)).
				SendStatus(status.TooManyRequests)
		}

		next(nil)
		return nil
	}
}

func retryAfter(delay time.Duration) string {
	return strconv.Itoa(int(math.Ceil(delay.Seconds())))
}

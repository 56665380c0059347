package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/indigo-web/shim/http"
	"github.com/indigo-web/shim/http/codec"
	"github.com/indigo-web/shim/http/status"
	"github.com/indigo-web/shim/http/stream"
)

// Decompress decodes bodies by their Content-Encoding, so the following handlers see the
// plain payload. Decoded bodies are limited to limit bytes. Unknown codings are rejected with
// status.ErrUnsupportedMediaType.
func Decompress(limit int64, registry codec.Registry) http.Handler {
	return func(req *http.Request, _ *http.Response, next http.Next) error {
		codings := req.Headers.Values("Content-Encoding")
		if len(codings) == 0 {
			next(nil)
			return nil
		}

		data, err := req.Stream.ReadAll()
		if err != nil {
			return err
		}

		// codings are listed in the order they were applied
		tokens := splitTokens(codings)
		for i := len(tokens) - 1; i >= 0; i-- {
			if tokens[i] == "identity" {
				continue
			}

			c, found := registry[tokens[i]]
			if !found {
				return status.ErrUnsupportedMediaType
			}

			if data, err = c.Decode(data, limit); err != nil {
				if errors.Is(err, codec.ErrTooLarge) {
					return status.ErrRequestEntityTooLarge
				}

				return fmt.Errorf("%w: %w", status.ErrBadRequest, err)
			}
		}

		req.Stream = stream.FromBytes(data)
		req.Headers.Delete("Content-Encoding")
		next(nil)
		return nil
	}
}

func splitTokens(values []string) (tokens []string) {
	for _, value := range values {
		for _, token := range strings.Split(value, ",") {
			if token = strings.ToLower(strings.TrimSpace(token)); len(token) > 0 {
				tokens = append(tokens, token)
			}
		}
	}

	return tokens
}

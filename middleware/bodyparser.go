// Package middleware provides common handlers, meant to be adapted and mounted in front of
// the user ones.
package middleware

import (
	"fmt"

	"github.com/indigo-web/shim/http"
	"github.com/indigo-web/shim/http/mime"
	"github.com/indigo-web/shim/http/status"
	json "github.com/json-iterator/go"
)

// JSON decodes application/json bodies into req.Body. Requests of other types are passed
// as is.
func JSON() http.Handler {
	return parser(mime.JSON, func(data []byte) (any, error) {
		var body any
		if err := json.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("%w: %w", status.ErrBadRequest, err)
		}

		return body, nil
	})
}

// Text sets text/plain bodies into req.Body as a string.
func Text() http.Handler {
	return parser(mime.Plain, func(data []byte) (any, error) {
		return string(data), nil
	})
}

// Raw sets application/octet-stream bodies into req.Body as a byte slice.
func Raw() http.Handler {
	return parser(mime.OctetStream, func(data []byte) (any, error) {
		return data, nil
	})
}

func parser(m mime.MIME, parse func([]byte) (any, error)) http.Handler {
	return func(req *http.Request, _ *http.Response, next http.Next) error {
		contentType := req.Get("Content-Type")
		if req.Body != nil || len(contentType) == 0 || !mime.Complies(m, contentType) {
			next(nil)
			return nil
		}

		data, err := req.Stream.ReadAll()
		if err != nil {
			return err
		}

		if len(data) > 0 {
			if req.Body, err = parse(data); err != nil {
				return err
			}
		}

		next(nil)
		return nil
	}
}

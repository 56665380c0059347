package shim

import (
	"errors"
	"testing"

	"github.com/indigo-web/shim/http"
	"github.com/indigo-web/shim/native/dummy"
	"github.com/stretchr/testify/require"
)

func TestCompose(t *testing.T) {
	setBody := func(req *http.Request, _ *http.Response, next http.Next) error {
		req.Body = "parsed"
		next(nil)
		return nil
	}

	t.Run("shared request", func(t *testing.T) {
		res := dummy.NewResponse()
		c := serve(Compose(setBody, func(req *http.Request, res *http.Response, _ http.Next) error {
			res.Locals["seen"] = true
			return res.Send(req.Body)
		}), get("/"), res)

		require.NoError(t, c.wait(t))
		require.Equal(t, "parsed", res.Body())
	})

	t.Run("passed through", func(t *testing.T) {
		res := dummy.NewResponse()
		c := serve(Compose(setBody, setBody), get("/"), res)

		require.NoError(t, c.wait(t))
		require.Zero(t, res.Sends())
	})

	t.Run("response stops the chain", func(t *testing.T) {
		var reached bool
		res := dummy.NewResponse()
		c := serve(Compose(
			func(_ *http.Request, res *http.Response, next http.Next) error {
				_ = res.Send("early")
				next(nil)
				return nil
			},
			func(*http.Request, *http.Response, http.Next) error {
				reached = true
				return nil
			},
		), get("/"), res)

		require.NoError(t, c.wait(t))
		require.False(t, reached)
		require.Equal(t, "early", res.Body())
	})

	t.Run("error in the middle", func(t *testing.T) {
		boom := errors.New("boom")
		res := dummy.NewResponse()
		c := serve(Compose(setBody, func(*http.Request, *http.Response, http.Next) error {
			return boom
		}, setBody), get("/"), res)

		require.ErrorIs(t, c.wait(t), boom)
		require.JSONEq(t, `{"error":"boom"}`, res.Body())
	})

	t.Run("panic in the middle", func(t *testing.T) {
		res := dummy.NewResponse()
		c := serve(Compose(setBody, func(*http.Request, *http.Response, http.Next) error {
			panic("oops")
		}), get("/"), res)

		require.EqualError(t, c.wait(t), "oops")
	})

	t.Run("empty", func(t *testing.T) {
		c := serve(Compose(), get("/"), dummy.NewResponse())
		require.NoError(t, c.wait(t))
	})
}

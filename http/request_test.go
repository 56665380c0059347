package http

import (
	"testing"

	"github.com/indigo-web/shim/http/stream"
	"github.com/indigo-web/shim/native/dummy"
	"github.com/stretchr/testify/require"
)

func TestRequest(t *testing.T) {
	t.Run("snapshot", func(t *testing.T) {
		native := dummy.NewRequest("POST", "/items/7").
			WithParam("id", "7").
			WithQuery("a=1").
			WithHeader("Content-Type", "application/json")

		req := NewRequest(native, stream.FromBytes(nil), "abc")
		req.Params["id"] = "8"
		req.Query.Set("a", "2")
		req.Headers.Set("Content-Type", "text/plain")

		require.Equal(t, "7", native.Params()["id"])
		require.Equal(t, "1", native.Query().Get("a"))
		require.Equal(t, "application/json", native.Header("content-type"))
	})

	t.Run("referrer aliases", func(t *testing.T) {
		for _, header := range []string{"Referer", "Referrer"} {
			native := dummy.NewRequest("GET", "/").WithHeader(header, "https://example.com")
			req := NewRequest(native, stream.FromBytes(nil), "")
			require.Equal(t, "https://example.com", req.Get("Referer"))
			require.Equal(t, "https://example.com", req.Header("referrer"))
		}
	})

	t.Run("nil params", func(t *testing.T) {
		req := NewRequest(dummy.NewRequest("GET", "/"), stream.FromBytes(nil), "")
		require.NotNil(t, req.Params)
		require.Empty(t, req.Param("missing"))
	})

	t.Run("negotiation is stubbed", func(t *testing.T) {
		req := NewRequest(dummy.NewRequest("GET", "/").WithHeader("Accept", "text/html"), stream.FromBytes(nil), "")
		require.Empty(t, req.Accepts("html"))
		require.Empty(t, req.AcceptsCharsets("utf-8"))
		require.Empty(t, req.AcceptsEncodings("gzip"))
		require.Empty(t, req.AcceptsLanguages("en"))
		require.Empty(t, req.Is("html"))
	})
}

package nethttp

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/indigo-web/shim"
	"github.com/indigo-web/shim/config"
	shimhttp "github.com/indigo-web/shim/http"
	"github.com/indigo-web/shim/http/status"
	"github.com/indigo-web/shim/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func adapt(handlers ...shimhttp.Handler) http.Handler {
	return Handler(nil, shim.AdaptAllWith(shim.Options{Logger: zap.NewNop()}, handlers...)...)
}

func serve(t *testing.T, h http.Handler, req *http.Request) (*http.Response, string) {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	resp := w.Result()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func TestHandler(t *testing.T) {
	t.Run("route params and query", func(t *testing.T) {
		router := mux.NewRouter()
		router.Handle("/users/{id}", adapt(func(req *shimhttp.Request, res *shimhttp.Response, _ shimhttp.Next) error {
			return res.JSON(map[string]string{
				"id":   req.Param("id"),
				"sort": req.QueryValue("sort"),
				"host": req.Hostname,
			})
		}))

		resp, body := serve(t, router, httptest.NewRequest(http.MethodGet, "http://example.com:8080/users/42?sort=asc", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"id":"42","sort":"asc","host":"example.com"}`, body)
		require.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	})

	t.Run("body", func(t *testing.T) {
		h := adapt(func(req *shimhttp.Request, res *shimhttp.Response, _ shimhttp.Next) error {
			data, err := req.Stream.ReadAll()
			if err != nil {
				return err
			}

			return res.Status(status.Created).Send(strings.ToUpper(string(data)))
		})

		resp, body := serve(t, h, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("hello")))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		require.Equal(t, "HELLO", body)
		require.Equal(t, "5", resp.Header.Get("Content-Length"))
	})

	t.Run("too large body", func(t *testing.T) {
		cfg := config.Default()
		cfg.Body.MaxSize = 4
		h := Handler(cfg, shim.Adapt(func(req *shimhttp.Request, res *shimhttp.Response, _ shimhttp.Next) error {
			return nil
		}, shim.Options{Logger: zap.NewNop()}))

		resp, body := serve(t, h, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too large")))
		require.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
		require.Equal(t, "Request Entity Too Large", body)
	})

	t.Run("unhandled", func(t *testing.T) {
		h := adapt(func(_ *shimhttp.Request, _ *shimhttp.Response, next shimhttp.Next) error {
			next(nil)
			return nil
		})

		resp, _ := serve(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("default headers", func(t *testing.T) {
		cfg := config.Default()
		cfg.Headers.Default["Server"] = "shim"
		h := Handler(cfg, shim.Adapt(func(_ *shimhttp.Request, res *shimhttp.Response, _ shimhttp.Next) error {
			return res.End()
		}, shim.Options{Logger: zap.NewNop()}))

		resp, _ := serve(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, "shim", resp.Header.Get("Server"))
	})

	t.Run("cookies and redirect", func(t *testing.T) {
		h := adapt(func(_ *shimhttp.Request, res *shimhttp.Response, _ shimhttp.Next) error {
			return res.Cookie("session", "abc").Redirect("/login")
		})

		resp, _ := serve(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusFound, resp.StatusCode)
		require.Equal(t, "/login", resp.Header.Get("Location"))
		require.Equal(t, "session=abc", resp.Header.Get("Set-Cookie"))
	})
}

func TestMiddleware(t *testing.T) {
	router := mux.NewRouter()
	router.Use(Middleware(nil, shim.AdaptAllWith(shim.Options{Logger: zap.NewNop()},
		func(req *shimhttp.Request, res *shimhttp.Response, next shimhttp.Next) error {
			if req.Get("Authorization") == "" {
				return res.SendStatus(status.Unauthorized)
			}

			res.Set("X-Authorized", "yes")
			next(nil)
			return nil
		},
	)...))
	router.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("protected"))
	})

	t.Run("passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer token")
		resp, body := serve(t, router, req)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "protected", body)
		require.Equal(t, "yes", resp.Header.Get("X-Authorized"))
	})

	t.Run("responds", func(t *testing.T) {
		resp, body := serve(t, router, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "401", body)
	})
}

func bodiesObserved(t *testing.T, reg *prometheus.Registry) uint64 {
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() == "shim_body_bytes" {
			return family.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}

	return 0
}

func TestUnreadBody(t *testing.T) {
	const requests = 20

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	server := httptest.NewServer(Handler(nil, shim.Adapt(func(_ *shimhttp.Request, res *shimhttp.Response, _ shimhttp.Next) error {
		return res.SendStatus(status.Created)
	}, shim.Options{Logger: zap.NewNop(), Metrics: m})))
	defer server.Close()

	payload := bytes.Repeat([]byte("a"), 1024*1024)

	for range requests {
		resp, err := http.Post(server.URL, "application/octet-stream", bytes.NewReader(payload))
		require.NoError(t, err)
		_, _ = io.Copy(io.Discard, resp.Body)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	require.Equal(t, float64(requests), testutil.ToFloat64(m.Requests))
	require.Zero(t, testutil.ToFloat64(m.Failures.WithLabelValues(metrics.KindBody)))
	require.EqualValues(t, requests, bodiesObserved(t, reg))
}

func TestMiddlewareReplaysBody(t *testing.T) {
	router := mux.NewRouter()
	router.Use(Middleware(nil, shim.Adapt(func(req *shimhttp.Request, res *shimhttp.Response, next shimhttp.Next) error {
		data, err := req.Stream.ReadAll()
		if err != nil {
			return err
		}

		res.Set("X-Body-Length", strconv.Itoa(len(data)))
		next(nil)
		return nil
	}, shim.Options{Logger: zap.NewNop()})))
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		_, _ = w.Write(data)
	})

	resp, body := serve(t, router, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("once more")))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "once more", body)
	require.Equal(t, "9", resp.Header.Get("X-Body-Length"))
}

func TestHostname(t *testing.T) {
	require.Equal(t, "localhost", hostname("localhost:8080"))
	require.Equal(t, "localhost", hostname("localhost"))
	require.Equal(t, "::1", hostname("[::1]:443"))
}

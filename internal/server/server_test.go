package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/georoute/internal/server"
)

func writeMap(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "traceroute_map.html")
	require.NoError(t, os.WriteFile(path, []byte("<html>map</html>"), 0o600))

	return path
}

func TestViewer_Handler(t *testing.T) {
	t.Parallel()

	t.Run("serves map with etag", func(t *testing.T) {
		t.Parallel()

		h := server.NewViewer(writeMap(t), "").Handler()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "<html>map</html>", rec.Body.String())
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

		etag := rec.Header().Get("ETag")
		require.NotEmpty(t, etag)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("If-None-Match", etag)
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotModified, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("unknown path", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		server.NewViewer(writeMap(t), "").Handler().
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other.html", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing map file", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		server.NewViewer(filepath.Join(t.TempDir(), "gone.html"), "").Handler().
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("geojson", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "path.geojson")
		require.NoError(t, os.WriteFile(path, []byte(`{"type":"FeatureCollection"}`), 0o600))

		rec := httptest.NewRecorder()
		server.NewViewer(writeMap(t), path).Handler().
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/path.geojson", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))

		rec = httptest.NewRecorder()
		server.NewViewer(writeMap(t), "").Handler().
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/path.geojson", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// Not parallel: swaps the global logger.
func TestRequestLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	prev := log.Logger
	log.Logger = zerolog.New(buf).Level(zerolog.DebugLevel)
	t.Cleanup(func() { log.Logger = prev })

	path := writeMap(t)
	h := server.NewViewer(path, "").Handler()

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Map request", entry["message"])
	assert.Equal(t, path, entry["file"])
	assert.EqualValues(t, len("<html>map</html>"), entry["bytes"])
	assert.EqualValues(t, http.StatusOK, entry["status"])
	assert.Equal(t, "debug", entry["level"])

	buf.Reset()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	var missing map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &missing))
	assert.Equal(t, "warn", missing["level"])
	assert.Empty(t, missing["file"])
}

func TestViewer_Serve(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	viewer := server.NewViewer(writeMap(t), "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- viewer.Serve(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("viewer did not stop")
	}
}

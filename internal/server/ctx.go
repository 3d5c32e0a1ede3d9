package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Viewer serves generated map files over HTTP for local preview.
type Viewer struct {
	// MapPath is the HTML map served at "/".
	MapPath string
	// GeoJSONPath is served at "/path.geojson" when set.
	GeoJSONPath string
}

// NewViewer returns a viewer for the given map file.
func NewViewer(mapPath, geojsonPath string) *Viewer {
	return &Viewer{MapPath: mapPath, GeoJSONPath: geojsonPath}
}

// Handler returns the routed and logged handler.
func (v *Viewer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/path.geojson", v.HandleGeoJSON)
	mux.HandleFunc("/", v.HandleIndex)

	return RequestLogger(mux)
}

// Serve listens on addr until ctx is cancelled.
func (v *Viewer) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           v.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("addr", addr).
		Str("map", v.MapPath).
		Msg("Map viewer started")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	log.Info().Msg("Map viewer stopped")
	return nil
}

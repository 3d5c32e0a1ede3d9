// Package server serves generated maps for local preview.
package server

import (
	"net/http"
	"os"
	"strconv"
)

const etagCap = 64

// HandleIndex serves the generated HTML map.
func (v *Viewer) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if !v.serveFile(w, r, v.MapPath, "text/html; charset=utf-8") {
		http.NotFound(w, r)
	}
}

// HandleGeoJSON serves the exported path when one was written.
func (v *Viewer) HandleGeoJSON(w http.ResponseWriter, r *http.Request) {
	if v.GeoJSONPath == "" || !v.serveFile(w, r, v.GeoJSONPath, "application/geo+json") {
		http.NotFound(w, r)
	}
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (v *Viewer) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)
	markServed(w, path)

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	_, _ = w.Write(data)

	return true
}

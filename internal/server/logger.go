package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// RequestLogger logs every viewer request with the map file it was answered
// from and the number of body bytes sent.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &servedRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		ev := log.Debug()
		if rec.statusCode == http.StatusNotFound {
			ev = log.Warn()
		}

		ev.Str("path", r.URL.Path).
			Str("file", rec.file).
			Int("status", rec.statusCode).
			Int("bytes", rec.bytes).
			Str("client", r.RemoteAddr).
			Dur("duration", time.Since(start)).
			Msg("Map request")
	})
}

// servedRecorder remembers which file answered a request.
type servedRecorder struct {
	http.ResponseWriter
	file       string
	statusCode int
	bytes      int
}

func (w *servedRecorder) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *servedRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// markServed records path as the file answering the request behind w.
func markServed(w http.ResponseWriter, path string) {
	if rec, ok := w.(*servedRecorder); ok {
		rec.file = path
	}
}

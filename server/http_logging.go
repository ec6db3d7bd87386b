// ABOUTME: HTTP logging middleware with consistent log.Printf style.
// ABOUTME: Replaces chi's default logger format to align request logs with the rest of the process.
package server

import (
	"log"
	"net/http"
	"time"
)

// responseMeta wraps a ResponseWriter and records what the handler wrote.
// A handler that never calls WriteHeader gets the implicit 200.
type responseMeta struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *responseMeta) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseMeta) Write(p []byte) (int, error) {
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

func (r *responseMeta) statusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		meta := &responseMeta{ResponseWriter: w}
		next.ServeHTTP(meta, r)

		target := r.URL.Path
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		log.Printf("http request method=%s path=%s status=%d bytes=%d duration=%s remote=%s",
			r.Method,
			target,
			meta.statusCode(),
			meta.bytes,
			time.Since(start).Round(time.Microsecond),
			r.RemoteAddr,
		)
	})
}

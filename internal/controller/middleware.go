package controller

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/vibesync/server/pkg/ctxlogger"
	"github.com/vibesync/server/pkg/rest"
)

func (c controller) requestIdMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxlogger.AppendCtx(r.Context(), slog.String("request_id", uuid.NewString()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (c controller) requestLoggingMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"url", r.URL.String(),
			"remote_addr", r.RemoteAddr,
		)
		next.ServeHTTP(w, r)
	})
}

type bufferedResponseWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *bufferedResponseWriter) WriteHeader(status int) {
	w.status = status
}

func (w *bufferedResponseWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

// encryptionMw wraps successful JSON bodies in the AES-256-CBC envelope. On
// encryption failure the plain body goes out unchanged, matching the
// fallback contract of the transform.
func (c controller) encryptionMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bw := &bufferedResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(bw, r)

		contentType := bw.Header().Get("Content-Type")
		if bw.status != http.StatusOK || !strings.HasPrefix(contentType, "application/json") {
			w.WriteHeader(bw.status)
			w.Write(bw.body.Bytes())
			return
		}

		data, iv, err := c.codec.Encrypt(bw.body.Bytes())
		if err != nil {
			c.logger.ErrorContext(r.Context(), "response encryption failed", "error", err)
			w.WriteHeader(bw.status)
			w.Write(bw.body.Bytes())
			return
		}

		rest.WriteJSON(w, http.StatusOK, rest.Envelope{
			"encrypted": true,
			"algorithm": "AES-256-CBC",
			"data":      data,
			"iv":        iv,
			"encoding":  "base64",
		})
	})
}

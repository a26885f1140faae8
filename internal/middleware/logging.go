// Package middleware 存放 chi 路由使用的中间件。
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger 记录每个请求的状态码、耗时和来源。
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}

		slog.Log(r.Context(), level, "http request",
			"statusCode", status,
			"latency", time.Since(start).String(),
			"clientIP", r.RemoteAddr,
			"method", r.Method,
			"path", r.URL.Path,
			"bytes", ww.BytesWritten(),
			"requestId", chimw.GetReqID(r.Context()),
		)
	})
}

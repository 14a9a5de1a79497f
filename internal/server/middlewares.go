package server

import (
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	loggerpkg "github.com/hitesh22rana/devconsole/internal/pkg/logger"
)

// withOtelMiddleware adds OpenTelemetry tracing and request logging to the HTTP handler.
func (s *Server) withOtelMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip tracing for health checks
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		startTime := time.Now()

		log := s.logger.With(
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("host", r.Host),
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("user_agent", r.UserAgent()),
		)

		// Start a new span for the request
		ctx, span := s.tp.Start(
			r.Context(),
			fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.url", r.URL.String()),
				attribute.String("http.host", r.Host),
				attribute.String("http.remote_addr", r.RemoteAddr),
				attribute.String("http.user_agent", r.UserAgent()),
			),
		)
		defer span.End()

		// Wrapped response writer to capture the status code
		wrw := &customResponseWriter{
			ResponseWriter: w,
			status:         http.StatusOK,
		}

		// Continue the request with the new context
		next.ServeHTTP(wrw, r.WithContext(loggerpkg.WithLogger(ctx, log)))

		duration := time.Since(startTime)

		// Set the status code in the span
		span.SetAttributes(attribute.Int("http.status_code", wrw.status))

		logFields := []zap.Field{
			zap.Int("status", wrw.status),
			zap.Duration("duration_ms", duration),
			zap.String("duration", duration.String()),
		}

		msg := fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		//nolint:gocritic // This if-else chain is better than a switch statement
		if wrw.status >= 500 {
			log.Error(msg, logFields...)
			span.SetAttributes(attribute.String("http.error", http.StatusText(wrw.status)))
			span.RecordError(fmt.Errorf("server error: %s", http.StatusText(wrw.status)))
		} else if wrw.status >= 400 {
			log.Warn(msg, logFields...)
			span.SetAttributes(attribute.String("http.error", http.StatusText(wrw.status)))
			span.RecordError(fmt.Errorf("client error: %s", http.StatusText(wrw.status)))
		} else {
			log.Info(msg, logFields...)
			span.SetAttributes(attribute.String("http.success", http.StatusText(wrw.status)))
		}
	})
}

// withCORSMiddleware adds CORS headers to all responses.
func (s *Server) withCORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AllowedOrigin == "" {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Access-Control-Allow-Origin", s.cfg.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withCompressionMiddleware adds HTTP gzip compression for responses.
func (s *Server) withCompressionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check if client accepts gzip compression
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		// Create gzip writer with best speed for better performance
		gz, err := gzip.NewWriterLevel(w, gzip.BestSpeed)
		if err != nil {
			s.logger.Error("failed to create gzip writer", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		defer gz.Close()

		// Set Vary header to indicate response varies based on Accept-Encoding
		w.Header().Set("Vary", "Accept-Encoding")

		// Serve the request with compressed response
		next.ServeHTTP(&gzipResponseWriter{
			ResponseWriter: w,
			gzipWriter:     gz,
		}, r)
	})
}

// withRequestBodyLimitMiddleware limits the request body size.
func (s *Server) withRequestBodyLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.RequestBodyLimit > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.cfg.RequestBodyLimit)
		}

		next.ServeHTTP(w, r)
	}
}

// withRequestTimeoutMiddleware bounds the request context by the configured timeout.
func (s *Server) withRequestTimeoutMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.RequestTimeout <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
		defer cancel()

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

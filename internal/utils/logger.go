package utils

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

const loggerContextKey = "logger"

// Logger is the logging surface HTTP handlers depend on
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	Slog() *slog.Logger
}

type slogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) Logger {
	return &slogLogger{l: l}
}

func (s *slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }
func (s *slogLogger) Slog() *slog.Logger            { return s.l }

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

// ContextLogger stores a request-scoped logger carrying request_id in the gin context
func ContextLogger(logger Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		scoped := logger
		if requestID, ok := c.Get("request_id"); ok {
			scoped = logger.With("request_id", requestID)
		}
		c.Set(loggerContextKey, scoped)
		c.Next()
	}
}

// FromContext returns the request-scoped logger, or fallback when none is set
func FromContext(c *gin.Context, fallback Logger) Logger {
	if v, ok := c.Get(loggerContextKey); ok {
		if l, ok := v.(Logger); ok {
			return l
		}
	}
	return fallback
}

// LoggerMiddleware logs one line per request after it completes
func LoggerMiddleware(logger Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if query != "" {
			attrs = append(attrs, "query", query)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		l := FromContext(c, logger)
		switch {
		case status >= 500:
			l.Error("Request completed", attrs...)
		case status >= 400:
			l.Warn("Request completed", attrs...)
		default:
			l.Info("Request completed", attrs...)
		}
	}
}

package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

type loggingTransport struct {
	next   http.RoundTripper
	logger *zap.Logger
}

// LoggingTransport logs every outgoing request with its status and duration.
func LoggingTransport(next http.RoundTripper, logger *zap.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, logger: logger}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.next.RoundTrip(req)

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Duration("duration", time.Since(start)),
	}

	if err != nil {
		fields = append(fields, zap.Error(err))
		t.logger.Warn("request failed", fields...)
		return nil, err
	}

	fields = append(fields, zap.Int("status", resp.StatusCode))
	t.logger.Debug("request handled", fields...)

	return resp, nil
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	client := &http.Client{Transport: LoggingTransport(nil, zap.New(core))}

	resp, err := client.Get(srv.URL + "/v1/collections/offers")
	require.NoError(t, err)
	resp.Body.Close()

	entries := logs.FilterMessage("request handled").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "/v1/collections/offers", fields["path"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
}

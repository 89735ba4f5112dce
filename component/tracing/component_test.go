package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent_Disabled(t *testing.T) {
	c := New(Config{})

	require.NoError(t, c.Start())
	assert.False(t, c.Enabled())
	assert.Equal(t, defaultServiceName, c.config.ServiceName)
	assert.NoError(t, c.Stop(context.Background()))
}

func TestComponent_Enabled(t *testing.T) {
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer collector.Close()
	c := New(Config{
		OTLPEndpoint: collector.Listener.Addr().String(),
		Insecure:     true,
	})

	require.NoError(t, c.Start())
	assert.True(t, c.Enabled())
	assert.NotNil(t, c.tracerProvider)
	assert.NoError(t, c.Stop(context.Background()))
	assert.Nil(t, c.tracerProvider)
}

func TestWrapHandler(t *testing.T) {
	var called bool
	handler := WrapHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusAccepted)
	}), "test")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/patients", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusAccepted, recorder.Code)
}

func TestWrapTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()
	client := &http.Client{Transport: WrapTransport(nil)}

	response, err := client.Get(server.URL)

	require.NoError(t, err)
	_ = response.Body.Close()
	assert.Equal(t, http.StatusNoContent, response.StatusCode)
}

package status

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComponent_RegisterHttpHandlers(t *testing.T) {
	publicMux := http.NewServeMux()
	internalMux := http.NewServeMux()
	New("https://hdsi.example.com").RegisterHttpHandlers(publicMux, internalMux)

	t.Run("status", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		internalMux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/status", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "OK", recorder.Body.String())
	})
	t.Run("build info", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		internalMux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/status/build", nil))

		assert.Contains(t, recorder.Body.String(), "Git version: development")
		assert.Contains(t, recorder.Body.String(), "OS/Arch: ")
		assert.Contains(t, recorder.Body.String(), "HDSI server: https://hdsi.example.com")
	})
	t.Run("not on the public interface", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		publicMux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/status", nil))

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestBuildInfo(t *testing.T) {
	t.Run("tagged release", func(t *testing.T) {
		original := GitVersion
		GitVersion = "v1.2.0"
		defer func() { GitVersion = original }()

		assert.Equal(t, "v1.2.0", Version())
		assert.Contains(t, BuildInfo(""), "Git version: v1.2.0\n")
	})
	t.Run("without HDSI server", func(t *testing.T) {
		assert.NotContains(t, BuildInfo(""), "HDSI server")
	})
}

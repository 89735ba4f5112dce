package cmd

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	libHTTPComponent "github.com/nuts-foundation/hdsi-querytool/component/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart(t *testing.T) {
	t.Run("serves until the context is cancelled", func(t *testing.T) {
		hdsi := httptest.NewServer(http.NotFoundHandler())
		defer hdsi.Close()
		httpConfig, err := libHTTPComponent.TestConfig()
		require.NoError(t, err)
		config := DefaultConfig()
		config.Core.StrictMode = false
		config.HTTP = httpConfig
		config.QueryTool.BaseURL = hdsi.URL
		ctx, cancel := context.WithCancel(context.Background())
		result := make(chan error, 1)

		go func() {
			result <- Start(ctx, config)
		}()

		require.Eventually(t, func() bool {
			response, err := http.Get(httpConfig.InternalInterface.BaseURL + "/status")
			if err != nil {
				return false
			}
			defer response.Body.Close()
			data, _ := io.ReadAll(response.Body)
			return response.StatusCode == http.StatusOK && string(data) == "OK"
		}, 5*time.Second, 50*time.Millisecond)
		response, err := http.Get(httpConfig.PublicInterface.BaseURL + "/config.json")
		require.NoError(t, err)
		_ = response.Body.Close()
		assert.Equal(t, http.StatusOK, response.StatusCode)

		cancel()
		select {
		case err := <-result:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("Start did not return after cancellation")
		}
	})
	t.Run("strict mode rejects plain HTTP", func(t *testing.T) {
		config := DefaultConfig()
		config.QueryTool.BaseURL = "http://hdsi.example.com"

		err := Start(context.Background(), config)

		assert.ErrorContains(t, err, "HDSI base URL must use https in strict mode")
	})
	t.Run("missing base URL", func(t *testing.T) {
		config := DefaultConfig()
		config.Core.StrictMode = false

		err := Start(context.Background(), config)

		assert.ErrorContains(t, err, "failed to create query tool component")
	})
}

package httpauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/nuts-foundation/hdsi-querytool/lib/hdsiapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// newAPIServer answers every request with the given status and records the Authorization headers it received.
func newAPIServer(t *testing.T, status int) (*httptest.Server, func() []string) {
	t.Helper()
	var mux sync.Mutex
	var received []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.Lock()
		received = append(received, r.Header.Get("Authorization"))
		mux.Unlock()
		w.Header().Set("Content-Type", hdsiapi.JSONMimeType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)
	return server, func() []string {
		mux.Lock()
		defer mux.Unlock()
		return append([]string{}, received...)
	}
}

func TestSessionInterceptor(t *testing.T) {
	ctx := context.Background()

	t.Run("no token, no Authorization header", func(t *testing.T) {
		server, received := newAPIServer(t, http.StatusOK)
		controller := New(nil, DefaultClientConfig(), nil)

		_, err := controller.Executor().Do(ctx, http.MethodGet, server.URL+"/hdsi/Patient", hdsiapi.Request{})

		require.NoError(t, err)
		assert.Equal(t, []string{""}, received())
	})
	t.Run("stored token is sent as Bearer", func(t *testing.T) {
		server, received := newAPIServer(t, http.StatusOK)
		controller := New(nil, DefaultClientConfig(), nil)
		controller.Session().Store(&oauth2.Token{AccessToken: "abc"})

		_, err := controller.Executor().Do(ctx, http.MethodGet, server.URL, hdsiapi.Request{})

		require.NoError(t, err)
		assert.Equal(t, []string{"Bearer abc"}, received())
	})
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(http.StatusText(status)+" clears the session and prompts once", func(t *testing.T) {
			server, _ := newAPIServer(t, status)
			prompter := &countingPrompter{}
			controller := New(nil, DefaultClientConfig(), prompter)
			controller.Session().Store(&oauth2.Token{AccessToken: "abc"})
			var errorCalled bool

			_, err := controller.Executor().Do(ctx, http.MethodGet, server.URL, hdsiapi.Request{
				OnError: func(*hdsiapi.ErrorRecord, any) { errorCalled = true },
			})

			require.Error(t, err)
			assert.True(t, errorCalled)
			assert.Equal(t, int32(1), prompter.count.Load())
			assert.Equal(t, Unauthenticated, controller.Session().State())
		})
	}
	t.Run("other error statuses leave the session intact", func(t *testing.T) {
		server, _ := newAPIServer(t, http.StatusInternalServerError)
		prompter := &countingPrompter{}
		controller := New(nil, DefaultClientConfig(), prompter)
		controller.Session().Store(&oauth2.Token{AccessToken: "abc"})

		_, err := controller.Executor().Do(ctx, http.MethodGet, server.URL, hdsiapi.Request{})

		require.Error(t, err)
		assert.Equal(t, int32(0), prompter.count.Load())
		assert.Equal(t, Authenticated, controller.Session().State())
	})
	t.Run("concurrent rejections each prompt", func(t *testing.T) {
		server, _ := newAPIServer(t, http.StatusUnauthorized)
		prompter := &countingPrompter{}
		controller := New(nil, DefaultClientConfig(), prompter)
		controller.Session().Store(&oauth2.Token{AccessToken: "abc"})

		var done []<-chan struct{}
		for i := 0; i < 3; i++ {
			done = append(done, controller.Executor().Go(ctx, http.MethodGet, server.URL, hdsiapi.Request{}))
		}
		for _, ch := range done {
			<-ch
		}

		assert.Equal(t, int32(3), prompter.count.Load())
	})
	t.Run("token request keeps its Basic header while a token is held", func(t *testing.T) {
		server, lastRequest := newTokenServer(t, http.StatusOK, `{"access_token":"new"}`)
		controller := New(nil, DefaultClientConfig(), nil)
		controller.Session().Store(&oauth2.Token{AccessToken: "old"})

		err := controller.Login(ctx, server.URL, Credentials{Username: "jane"}, Callbacks{})

		require.NoError(t, err)
		assert.Equal(t, "Basic ZmlkZGxlcjpmaWRkbGVy", lastRequest().Authorization)
		token, _ := controller.Session().Token()
		assert.Equal(t, "new", token.AccessToken)
	})
}

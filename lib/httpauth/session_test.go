package httpauth

import (
	"testing"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func signedToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	token := jwt.New()
	for key, value := range claims {
		require.NoError(t, token.Set(key, value))
	}
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, []byte("test-signing-key-of-sufficient-length")))
	require.NoError(t, err)
	return string(signed)
}

func TestSession(t *testing.T) {
	t.Run("empty session", func(t *testing.T) {
		session := NewSession()

		_, err := session.Token()

		assert.ErrorIs(t, err, ErrNoToken)
		assert.Equal(t, Unauthenticated, session.State())
		assert.False(t, session.Clear())
		assert.Empty(t, session.Subject())
	})
	t.Run("store and clear", func(t *testing.T) {
		session := NewSession()

		session.Store(&oauth2.Token{AccessToken: "abc", TokenType: "bearer"})

		assert.Equal(t, Authenticated, session.State())
		token, err := session.Token()
		require.NoError(t, err)
		assert.Equal(t, "abc", token.AccessToken)
		assert.Equal(t, "Bearer", token.TokenType)
		assert.True(t, session.Clear())
		assert.Equal(t, Unauthenticated, session.State())
	})
	t.Run("stored token is copied", func(t *testing.T) {
		session := NewSession()
		original := &oauth2.Token{AccessToken: "abc"}
		session.Store(original)

		original.AccessToken = "changed"
		token, _ := session.Token()
		token.AccessToken = "changed too"

		stored, _ := session.Token()
		assert.Equal(t, "abc", stored.AccessToken)
	})
	t.Run("subject from unique_name", func(t *testing.T) {
		session := NewSession()
		session.Store(&oauth2.Token{AccessToken: signedToken(t, map[string]any{"sub": "1234", "unique_name": "jane"})})

		assert.Equal(t, "jane", session.Subject())
	})
	t.Run("subject from sub", func(t *testing.T) {
		session := NewSession()
		session.Store(&oauth2.Token{AccessToken: signedToken(t, map[string]any{"sub": "1234"})})

		assert.Equal(t, "1234", session.Subject())
	})
	t.Run("opaque token has no subject", func(t *testing.T) {
		session := NewSession()
		session.Store(&oauth2.Token{AccessToken: "opaque"})

		assert.Empty(t, session.Subject())
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "unauthenticated", Unauthenticated.String())
}

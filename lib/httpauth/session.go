package httpauth

import (
	"errors"
	"sync"

	"github.com/lestrrat-go/jwx/v2/jwt"
	"golang.org/x/oauth2"
)

// State of a Session.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// ErrNoToken is returned by Session.Token when no token is held.
var ErrNoToken = errors.New("no session token")

// Session holds the bearer token of one authenticated user. It does not track expiry;
// a token is only dropped when the server rejects it.
// Session implements oauth2.TokenSource.
type Session struct {
	mux   sync.RWMutex
	token *oauth2.Token
}

var _ oauth2.TokenSource = (*Session)(nil)

func NewSession() *Session {
	return &Session{}
}

// Store replaces the held token. The token type is always treated as Bearer.
func (s *Session) Store(token *oauth2.Token) {
	stored := *token
	stored.TokenType = "Bearer"
	s.mux.Lock()
	defer s.mux.Unlock()
	s.token = &stored
}

// Clear drops the held token. It returns false if there was none.
func (s *Session) Clear() bool {
	s.mux.Lock()
	defer s.mux.Unlock()
	hadToken := s.token != nil
	s.token = nil
	return hadToken
}

// Token returns a copy of the held token, or ErrNoToken.
func (s *Session) Token() (*oauth2.Token, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	if s.token == nil {
		return nil, ErrNoToken
	}
	token := *s.token
	return &token, nil
}

func (s *Session) State() State {
	s.mux.RLock()
	defer s.mux.RUnlock()
	if s.token == nil {
		return Unauthenticated
	}
	return Authenticated
}

// Subject returns the user the held token was issued to, for display purposes.
// The token is parsed without verification: the HDSI server is the one validating it.
// It prefers the unique_name claim and falls back to sub. Opaque tokens yield an empty string.
func (s *Session) Subject() string {
	token, err := s.Token()
	if err != nil {
		return ""
	}
	parsed, err := jwt.ParseString(token.AccessToken, jwt.WithVerify(false), jwt.WithValidate(false))
	if err != nil {
		return ""
	}
	if value, ok := parsed.Get("unique_name"); ok {
		if name, ok := value.(string); ok && name != "" {
			return name
		}
	}
	return parsed.Subject()
}

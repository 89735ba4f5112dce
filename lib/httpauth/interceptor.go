package httpauth

import (
	"context"
	"net/http"

	"github.com/nuts-foundation/hdsi-querytool/lib/logging"
)

type authenticator interface {
	Authenticate(ctx context.Context, baseURL string, credentials Credentials, callbacks Callbacks) error
}

// SessionInterceptor attaches the session's bearer token to outbound requests.
// A 401 or 403 response drops the token and sends the user back to the credential prompt.
type SessionInterceptor struct {
	session       *Session
	authenticator authenticator
}

func (s *SessionInterceptor) InterceptRequest(httpRequest *http.Request) {
	token, err := s.session.Token()
	if err != nil {
		return
	}
	token.SetAuthHeader(httpRequest)
}

func (s *SessionInterceptor) InterceptResponse(httpRequest *http.Request, httpResponse *http.Response) {
	ctx := httpRequest.Context()
	switch {
	case httpResponse.StatusCode == http.StatusUnauthorized || httpResponse.StatusCode == http.StatusForbidden:
		logging.Ctx(ctx).Info().
			Int("status", httpResponse.StatusCode).
			Str("url", httpRequest.URL.Redacted()).
			Msg("HDSI server rejected the session, re-authentication required")
		s.session.Clear()
		_ = s.authenticator.Authenticate(ctx, "", Credentials{}, Callbacks{})
	case httpResponse.StatusCode >= 400:
		logging.Ctx(ctx).Warn().
			Int("status", httpResponse.StatusCode).
			Str("url", httpRequest.URL.Redacted()).
			Msg("HDSI request failed")
	}
}

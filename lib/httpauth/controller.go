package httpauth

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/nuts-foundation/hdsi-querytool/lib/hdsiapi"
	"github.com/nuts-foundation/hdsi-querytool/lib/logging"
	"golang.org/x/oauth2"
)

const (
	// TokenEndpointPath is appended to the HDSI base URL to form the OAuth2 token endpoint.
	TokenEndpointPath = "/auth/oauth2_token"
	// ScopeSuffix is appended to the HDSI base URL to form the requested scope.
	ScopeSuffix = "/hdsi"
)

// CredentialMode determines how the client credentials are presented to the token endpoint.
type CredentialMode string

const (
	// CredentialModeQueryString sends client_id and client_secret as form fields.
	CredentialModeQueryString CredentialMode = "query-string"
	// CredentialModeHeader sends the client credentials as Basic authorization header.
	CredentialModeHeader CredentialMode = "header"
)

// AuthStyle maps the mode onto the x/oauth2 equivalent. Any mode other than query-string uses the header.
func (m CredentialMode) AuthStyle() oauth2.AuthStyle {
	if m == CredentialModeQueryString {
		return oauth2.AuthStyleInParams
	}
	return oauth2.AuthStyleInHeader
}

// ClientConfig holds the OAuth2 client the tool authenticates as.
type ClientConfig struct {
	ClientID     string         `koanf:"clientid"`
	ClientSecret string         `koanf:"clientsecret"`
	Mode         CredentialMode `koanf:"mode"`
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ClientID:     "fiddler",
		ClientSecret: "fiddler",
		Mode:         CredentialModeHeader,
	}
}

// Credentials of the user, as entered at the prompt.
type Credentials struct {
	Username string
	Password string
}

// Callbacks are forwarded to the token request.
type Callbacks struct {
	OnSuccess func(response *hdsiapi.Response, state any)
	OnError   func(err *hdsiapi.ErrorRecord, state any)
	Finally   func(state any)
	State     any
}

// Prompter asks the user to enter credentials.
type Prompter interface {
	Prompt(ctx context.Context)
}

// PromptFunc adapts a function to the Prompter interface.
type PromptFunc func(ctx context.Context)

func (f PromptFunc) Prompt(ctx context.Context) {
	f(ctx)
}

// Controller acquires bearer tokens with the OAuth2 password grant and keeps them in its Session.
// All HDSI calls of the user should go through Executor(), so the token is attached and rejected
// tokens lead back to the prompt.
type Controller struct {
	config   ClientConfig
	session  *Session
	executor *hdsiapi.Executor
	prompter Prompter
}

// New creates a Controller with an empty Session. If httpClient is nil, http.DefaultClient is used.
func New(httpClient *http.Client, config ClientConfig, prompter Prompter) *Controller {
	if prompter == nil {
		prompter = PromptFunc(func(ctx context.Context) {
			logging.Ctx(ctx).Warn().Msg("HDSI credentials required, but no prompt is available")
		})
	}
	controller := &Controller{
		config:   config,
		session:  NewSession(),
		prompter: prompter,
	}
	controller.executor = hdsiapi.NewExecutor(httpClient, &SessionInterceptor{
		session:       controller.session,
		authenticator: controller,
	})
	return controller
}

func (c *Controller) Session() *Session {
	return c.session
}

// Executor returns the executor that attaches the session token to every request.
func (c *Controller) Executor() *hdsiapi.Executor {
	return c.executor
}

// Authenticate requests a token for the given credentials from the token endpoint of baseURL.
// The outcome is reported through the callbacks and the returned error; the token is not stored.
// Without a base URL the user is prompted for credentials instead, and nil is returned.
func (c *Controller) Authenticate(ctx context.Context, baseURL string, credentials Credentials, callbacks Callbacks) error {
	_, err := c.requestToken(ctx, baseURL, credentials, callbacks, callbacks.OnSuccess)
	return err
}

// Login is Authenticate that stores the acquired token in the Session before callbacks.OnSuccess runs.
func (c *Controller) Login(ctx context.Context, baseURL string, credentials Credentials, callbacks Callbacks) error {
	var loginErr error
	onSuccess := func(response *hdsiapi.Response, state any) {
		token, err := decodeToken(response)
		if err != nil {
			record := hdsiapi.NewGeneralError(response.StatusCode, "invalid token response", err)
			loginErr = record
			if callbacks.OnError != nil {
				callbacks.OnError(record, state)
			}
			return
		}
		c.session.Store(token)
		logging.Ctx(ctx).Info().Str("subject", c.session.Subject()).Msg("Logged in at HDSI server")
		if callbacks.OnSuccess != nil {
			callbacks.OnSuccess(response, state)
		}
	}
	if _, err := c.requestToken(ctx, baseURL, credentials, callbacks, onSuccess); err != nil {
		return err
	}
	return loginErr
}

// EnsureAuthenticated prompts for credentials if the session holds no token, and reports whether it does.
func (c *Controller) EnsureAuthenticated(ctx context.Context) bool {
	if c.session.State() == Authenticated {
		return true
	}
	c.prompter.Prompt(ctx)
	return false
}

func (c *Controller) requestToken(ctx context.Context, baseURL string, credentials Credentials, callbacks Callbacks,
	onSuccess func(*hdsiapi.Response, any)) (*hdsiapi.Response, error) {
	if baseURL == "" {
		c.prompter.Prompt(ctx)
		return nil, nil
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", credentials.Username)
	form.Set("password", credentials.Password)
	form.Set("scope", baseURL+ScopeSuffix)
	var headers map[string]string
	switch c.config.Mode.AuthStyle() {
	case oauth2.AuthStyleInParams:
		form.Set("client_id", c.config.ClientID)
		form.Set("client_secret", c.config.ClientSecret)
	default:
		headers = map[string]string{
			"Authorization": basicAuthorization(c.config.ClientID, c.config.ClientSecret),
		}
	}
	return c.executor.Do(ctx, http.MethodPost, baseURL+TokenEndpointPath, hdsiapi.Request{
		ContentType: hdsiapi.FormMimeType,
		Body:        form,
		Headers:     headers,
		OnSuccess:   onSuccess,
		OnError:     callbacks.OnError,
		Finally:     callbacks.Finally,
		State:       callbacks.State,
	})
}

func decodeToken(response *hdsiapi.Response) (*oauth2.Token, error) {
	var token oauth2.Token
	if err := response.Decode(&token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token response contains no access_token")
	}
	return &token, nil
}

// basicAuthorization URL-encodes the client credentials before base64, like x/oauth2 does for AuthStyleInHeader.
func basicAuthorization(clientID, clientSecret string) string {
	credentials := url.QueryEscape(clientID) + ":" + url.QueryEscape(clientSecret)
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials))
}

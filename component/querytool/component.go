package querytool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nuts-foundation/hdsi-querytool/component"
	tmpls "github.com/nuts-foundation/hdsi-querytool/component/querytool/templates"
	"github.com/nuts-foundation/hdsi-querytool/component/tracing"
	"github.com/nuts-foundation/hdsi-querytool/lib/from"
	"github.com/nuts-foundation/hdsi-querytool/lib/hdsiapi"
	"github.com/nuts-foundation/hdsi-querytool/lib/httpauth"
	"github.com/nuts-foundation/hdsi-querytool/lib/locale"
	"github.com/nuts-foundation/hdsi-querytool/lib/logging"
	"github.com/nuts-foundation/hdsi-querytool/lib/viewmodel"
	"github.com/rs/zerolog/log"
	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"
)

const fhirJSONMimeType = "application/fhir+json"

type Config struct {
	// BaseURL of the HDSI server, e.g. https://hdsi.example.com. The token endpoint and API live below it.
	BaseURL   string                   `koanf:"baseurl"`
	Client    httpauth.ClientConfig    `koanf:"client"`
	Transport httpauth.TransportConfig `koanf:"transport"`
	// PageSize is the maximum number of search results requested.
	PageSize int `koanf:"pagesize"`
	// SessionTimeout is how long an unused browser session is kept.
	SessionTimeout time.Duration `koanf:"sessiontimeout"`
	// UI is the static UI configuration, served as /config.json.
	UI map[string]any `koanf:"ui"`
}

func DefaultConfig() Config {
	return Config{
		Client:         httpauth.DefaultClientConfig(),
		Transport:      httpauth.DefaultTransportConfig(),
		PageSize:       25,
		SessionTimeout: 30 * time.Minute,
		UI:             map[string]any{},
	}
}

var _ component.Lifecycle = (*Component)(nil)

type Component struct {
	config     Config
	httpClient *http.Client
	sessions   sync.Map
	now        func() time.Time
}

func New(config Config) (*Component, error) {
	baseURL, err := url.Parse(config.BaseURL)
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("invalid HDSI base URL: %q", config.BaseURL)
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	if config.PageSize <= 0 {
		config.PageSize = DefaultConfig().PageSize
	}
	if config.SessionTimeout <= 0 {
		config.SessionTimeout = DefaultConfig().SessionTimeout
	}
	httpClient, err := httpauth.NewHTTPClient(config.Transport)
	if err != nil {
		return nil, err
	}
	httpClient.Transport = tracing.WrapTransport(httpClient.Transport)
	return &Component{
		config:     config,
		httpClient: httpClient,
		now:        time.Now,
	}, nil
}

func (c *Component) Start() error {
	log.Info().Str("hdsi", c.config.BaseURL).Str("mode", string(c.config.Client.Mode)).Msg("Query tool ready")
	return nil
}

func (c *Component) Stop(_ context.Context) error {
	c.sessions.Clear()
	return nil
}

// Route handling

func (c *Component) RegisterHttpHandlers(mux *http.ServeMux, _ *http.ServeMux) {
	mux.HandleFunc("GET /config.json", c.configJSON)
	mux.Handle("GET /login", withLanguage(c.loginPage))
	mux.Handle("POST /login", withLanguage(c.loginSubmit))
	mux.HandleFunc("GET /logout", c.logout)
	mux.Handle("GET /patients", withLanguage(c.searchPatients))
	mux.Handle("GET /patients/{id}/acts", withLanguage(c.listActs))
	mux.Handle("GET /materials", withLanguage(c.searchMaterials))
	mux.Handle("GET /fhir/patients", withLanguage(c.searchFHIRPatients))
	mux.Handle("GET /{$}", withLanguage(c.homePage))
}

// withLanguage puts the browser's UI language in the request context.
func withLanguage(handler http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := locale.WithLanguage(r.Context(), locale.FromRequest(r))
		handler(w, r.WithContext(ctx))
	})
}

func (c *Component) configJSON(w http.ResponseWriter, r *http.Request) {
	ui := c.config.UI
	if ui == nil {
		ui = map[string]any{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ui); err != nil {
		logging.Ctx(r.Context()).Err(err).Msg("Failed to write UI configuration")
	}
}

func (c *Component) homePage(w http.ResponseWriter, r *http.Request) {
	session := c.session(r)
	if !c.authenticated(w, r, session) {
		return
	}
	c.render(w, r, session, http.StatusOK, "search.html", "Search", tmpls.SearchProps{Server: c.config.BaseURL})
}

func (c *Component) loginPage(w http.ResponseWriter, r *http.Request) {
	session := c.session(r)
	c.render(w, r, session, http.StatusOK, "login.html", "Log in", tmpls.LoginProps{
		Server: c.config.BaseURL,
		Next:   safeNext(r.URL.Query().Get("next")),
	})
}

func (c *Component) loginSubmit(w http.ResponseWriter, r *http.Request) {
	session := c.session(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	credentials := httpauth.Credentials{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}
	next := safeNext(r.PostForm.Get("next"))
	err := session.controller.Login(r.Context(), c.config.BaseURL, credentials, httpauth.Callbacks{
		OnSuccess: func(*hdsiapi.Response, any) {
			session.loginRequired.Store(false)
		},
	})
	if err != nil {
		logging.Ctx(r.Context()).Info().Err(err).Str("username", credentials.Username).Msg("HDSI login failed")
		c.render(w, r, session, http.StatusUnauthorized, "login.html", "Log in", tmpls.LoginProps{
			Server:   c.config.BaseURL,
			Username: credentials.Username,
			Next:     next,
			Error:    errorMessage(err),
		})
		return
	}
	c.storeSession(w, session)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (c *Component) logout(w http.ResponseWriter, r *http.Request) {
	c.endSession(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (c *Component) searchPatients(w http.ResponseWriter, r *http.Request) {
	session := c.session(r)
	if !c.authenticated(w, r, session) {
		return
	}
	name := r.URL.Query().Get("name")
	query := c.searchQuery()
	if name != "" {
		query.Set("name.component.value", "~"+name)
	}
	bundle, ok := queryJSON[viewmodel.Bundle[viewmodel.Patient]](c, w, r, session, "/hdsi/Patient", query, hdsiapi.Request{ViewModel: true})
	if !ok {
		return
	}
	c.render(w, r, session, http.StatusOK, "patients.html", "Patients", tmpls.ResultProps[tmpls.PatientListProps]{
		Query: name,
		Total: bundle.TotalResults,
		Items: tmpls.MakePatientListXsProps(bundle.Items, locale.Language(r.Context())),
	})
}

func (c *Component) listActs(w http.ResponseWriter, r *http.Request) {
	session := c.session(r)
	if !c.authenticated(w, r, session) {
		return
	}
	patientID := r.PathValue("id")
	query := c.searchQuery()
	query.Set("participation[RecordTarget].player", patientID)
	query.Set("_orderBy", "actTime:desc")
	bundle, ok := queryJSON[viewmodel.Bundle[viewmodel.Act]](c, w, r, session, "/hdsi/Act", query, hdsiapi.Request{ViewModel: true})
	if !ok {
		return
	}
	c.render(w, r, session, http.StatusOK, "acts.html", "Acts", tmpls.ResultProps[tmpls.ActListProps]{
		Query: patientID,
		Total: bundle.TotalResults,
		Items: tmpls.MakeActListXsProps(bundle.Items, locale.Language(r.Context())),
	})
}

func (c *Component) searchMaterials(w http.ResponseWriter, r *http.Request) {
	session := c.session(r)
	if !c.authenticated(w, r, session) {
		return
	}
	name := r.URL.Query().Get("name")
	query := c.searchQuery()
	if name != "" {
		query.Set("name.component.value", "~"+name)
	}
	bundle, ok := queryJSON[viewmodel.Bundle[viewmodel.Material]](c, w, r, session, "/hdsi/ManufacturedMaterial", query, hdsiapi.Request{ViewModel: true})
	if !ok {
		return
	}
	c.render(w, r, session, http.StatusOK, "materials.html", "Materials", tmpls.ResultProps[tmpls.MaterialListProps]{
		Query: name,
		Total: bundle.TotalResults,
		Items: tmpls.MakeMaterialListXsProps(bundle.Items),
	})
}

func (c *Component) searchFHIRPatients(w http.ResponseWriter, r *http.Request) {
	session := c.session(r)
	if !c.authenticated(w, r, session) {
		return
	}
	name := r.URL.Query().Get("name")
	query := url.Values{}
	query.Set("_count", strconv.Itoa(c.config.PageSize))
	if name != "" {
		query.Set("name", name)
	}
	bundle, ok := queryJSON[fhir.Bundle](c, w, r, session, "/fhir/Patient", query, hdsiapi.Request{
		Headers: map[string]string{"Accept": fhirJSONMimeType},
	})
	if !ok {
		return
	}
	var patients []viewmodel.Patient
	for _, entry := range bundle.Entry {
		if entry.Resource == nil {
			continue
		}
		var patient fhir.Patient
		if err := json.Unmarshal(entry.Resource, &patient); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Skipping FHIR bundle entry that is not a Patient")
			continue
		}
		patients = append(patients, viewmodel.PatientFromFHIR(patient))
	}
	total := len(patients)
	if bundle.Total != nil {
		total = *bundle.Total
	}
	c.render(w, r, session, http.StatusOK, "patients.html", "Patients (FHIR)", tmpls.ResultProps[tmpls.PatientListProps]{
		Query: name,
		Total: total,
		Items: tmpls.MakePatientListXsProps(patients, locale.Language(r.Context())),
	})
}

func (c *Component) searchQuery() url.Values {
	query := url.Values{}
	query.Set("_count", strconv.Itoa(c.config.PageSize))
	return query
}

// authenticated redirects to the login page if the browser session holds no token.
func (c *Component) authenticated(w http.ResponseWriter, r *http.Request, session *browserSession) bool {
	if session.controller.EnsureAuthenticated(r.Context()) {
		return true
	}
	redirectToLogin(w, r)
	return false
}

// queryJSON performs a GET on the HDSI server and decodes the response.
// On failure it has responded to the browser already: rejected sessions are sent to the login page,
// other errors are rendered.
func queryJSON[T any](c *Component, w http.ResponseWriter, r *http.Request, session *browserSession,
	path string, query url.Values, request hdsiapi.Request) (T, bool) {
	var result T
	ctx := r.Context()
	start := time.Now()
	request.Query = query.Encode()
	request.Finally = func(any) {
		logging.Ctx(ctx).Debug().Str("path", path).Dur("duration", time.Since(start)).Msg("HDSI query completed")
	}
	response, err := session.controller.Executor().Do(ctx, http.MethodGet, c.config.BaseURL+path, request)
	if err != nil {
		if session.loginRequired.Load() {
			redirectToLogin(w, r)
			return result, false
		}
		c.renderError(w, r, session, err)
		return result, false
	}
	result, err = from.JSONResponse[T](response)
	if err != nil {
		c.renderError(w, r, session, hdsiapi.NewGeneralError(response.StatusCode, "invalid HDSI response", err))
		return result, false
	}
	return result, true
}

func (c *Component) render(w http.ResponseWriter, r *http.Request, session *browserSession, status int, name string, title string, body any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	tmpls.RenderWithBase(w, name, tmpls.Page{
		Title:         title,
		Language:      locale.Language(r.Context()),
		Authenticated: session.controller.Session().State() == httpauth.Authenticated,
		Subject:       session.controller.Session().Subject(),
		Body:          body,
	})
}

func (c *Component) renderError(w http.ResponseWriter, r *http.Request, session *browserSession, err error) {
	props := tmpls.ErrorProps{
		Status:  http.StatusBadGateway,
		Message: err.Error(),
	}
	var record *hdsiapi.ErrorRecord
	if errors.As(err, &record) {
		if record.StatusCode != 0 {
			props.Status = record.StatusCode
		}
		props.Code = record.Code
		props.Message = errorMessage(record)
	}
	c.render(w, r, session, http.StatusBadGateway, "error.html", "Error", props)
}

// errorMessage returns the most descriptive message of an error, preferring the server's description.
func errorMessage(err error) string {
	var record *hdsiapi.ErrorRecord
	if errors.As(err, &record) && record.Description != "" {
		return record.Description
	}
	return err.Error()
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
}

// safeNext only allows redirects to local paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") || strings.HasPrefix(next, "/login") {
		return "/"
	}
	return next
}

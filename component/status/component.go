package status

import (
	"context"
	"net/http"

	"github.com/nuts-foundation/hdsi-querytool/component"
)

var _ component.Lifecycle = (*Component)(nil)

type Component struct {
	hdsiBaseURL string
}

// New creates the status component, which serves the health check and build information on the internal interface.
func New(hdsiBaseURL string) *Component {
	return &Component{hdsiBaseURL: hdsiBaseURL}
}

func (c Component) Start() error {
	return nil
}

func (c Component) Stop(_ context.Context) error {
	return nil
}

func (c Component) RegisterHttpHandlers(_ *http.ServeMux, internalMux *http.ServeMux) {
	internalMux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		writeText(w, "OK")
	})
	internalMux.HandleFunc("GET /status/build", func(w http.ResponseWriter, r *http.Request) {
		writeText(w, BuildInfo(c.hdsiBaseURL))
	})
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

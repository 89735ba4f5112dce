package templates

import (
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/nuts-foundation/hdsi-querytool/lib/viewmodel"
	"github.com/rs/zerolog/log"
)

//go:embed *.html
var tmplFS embed.FS

// Page is the data passed to base.html. Body is passed on to the page's "content" template.
type Page struct {
	Title         string
	Language      string
	Authenticated bool
	Subject       string
	Body          any
}

func RenderWithBase(w io.Writer, name string, page Page) {
	files := []string{
		"base.html",
		name,
	}

	ts, err := template.ParseFS(tmplFS, files...)
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse template")
		return
	}

	err = ts.ExecuteTemplate(w, "base", page)
	if err != nil {
		log.Error().Err(err).Str("template", name).Msg("Failed to execute template")
		return
	}
}

const unknownStr = "N/A"

type LoginProps struct {
	Username string
	Next     string
	Error    string
	Server   string
}

type SearchProps struct {
	Server string
}

// ResultProps is a page of search results.
type ResultProps[T any] struct {
	Query string
	Total int
	Items []T
}

type PatientListProps struct {
	Id          string
	Name        string
	Address     string
	DateOfBirth string
	Gender      string
}

type ActListProps struct {
	Id          string
	Description string
	Time        string
}

type MaterialListProps struct {
	Id         string
	Display    string
	ExpiryDate string
}

type ErrorProps struct {
	Status  int
	Code    string
	Message string
}

func fmtOr(value string) string {
	if value == "" {
		return unknownStr
	}
	return value
}

// fmtDate shortens view-model timestamps to their date. Values that are not RFC 3339 are returned as-is.
func fmtDate(value string) string {
	if value == "" {
		return unknownStr
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.Format(time.DateOnly)
	}
	return value
}

func MakePatientListProps(patient viewmodel.Patient, lang string) (out PatientListProps) {
	out.Id = patient.ID
	out.Name = fmtOr(viewmodel.RenderName(patient.Name))
	out.Address = fmtOr(viewmodel.RenderEntityAddress(&patient.Entity))
	out.DateOfBirth = fmtDate(patient.DateOfBirth)
	out.Gender = fmtOr(viewmodel.RenderConcept(patient.GenderConcept, lang))
	return out
}

func MakePatientListXsProps(patients []viewmodel.Patient, lang string) []PatientListProps {
	out := make([]PatientListProps, 0, len(patients))
	for _, patient := range patients {
		out = append(out, MakePatientListProps(patient, lang))
	}
	return out
}

// MakeActListProps describes the act. Acts without a description show their type instead.
func MakeActListProps(act viewmodel.Act, lang string) (out ActListProps) {
	out.Id = act.ID
	out.Description = viewmodel.RenderAct(&act, lang)
	if out.Description == "" {
		out.Description = fmtOr(act.Type)
	}
	out.Time = fmtDate(act.ActTime)
	return out
}

func MakeActListXsProps(acts []viewmodel.Act, lang string) []ActListProps {
	out := make([]ActListProps, 0, len(acts))
	for _, act := range acts {
		out = append(out, MakeActListProps(act, lang))
	}
	return out
}

func MakeMaterialListProps(material viewmodel.Material) (out MaterialListProps) {
	out.Id = material.ID
	out.Display = fmtOr(viewmodel.RenderManufacturedMaterial(&material))
	out.ExpiryDate = fmtDate(material.ExpiryDate)
	return out
}

func MakeMaterialListXsProps(materials []viewmodel.Material) []MaterialListProps {
	out := make([]MaterialListProps, 0, len(materials))
	for _, material := range materials {
		out = append(out, MakeMaterialListProps(material))
	}
	return out
}

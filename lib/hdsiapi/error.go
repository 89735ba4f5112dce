package hdsiapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	// GeneralErrorType is the type tag of errors that could not be classified as an OAuth2/API error.
	GeneralErrorType = "GeneralException"
	// GeneralErrorCode is the error code of errors that could not be classified as an OAuth2/API error.
	GeneralErrorCode = "err_general"
)

// maxErrorBodyLength limits how much of an unstructured error body ends up in the description.
const maxErrorBodyLength = 512

// ErrorRecord is the uniform error returned for failed HDSI and token endpoint calls.
// It mirrors the OAuth2 error response, extended with the type and cause the HDSI server reports.
type ErrorRecord struct {
	// Type is the server-side exception type, or GeneralErrorType.
	Type string `json:"type,omitempty"`
	// Code is the OAuth2 error code, e.g. "invalid_grant".
	Code string `json:"error"`
	// Description is the human-readable error description.
	Description string `json:"error_description,omitempty"`
	// CausedBy is the error that caused this error, if the server reported one.
	CausedBy *ErrorRecord `json:"caused_by,omitempty"`
	// StatusCode is the HTTP status code of the response, or 0 if no response was received.
	StatusCode int `json:"-"`

	cause error
}

func (e *ErrorRecord) Error() string {
	var b strings.Builder
	b.WriteString(e.Code)
	if e.Type != "" && e.Type != GeneralErrorType {
		b.WriteString(" (")
		b.WriteString(e.Type)
		b.WriteString(")")
	}
	if e.Description != "" {
		b.WriteString(": ")
		b.WriteString(e.Description)
	}
	return b.String()
}

func (e *ErrorRecord) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	if e.CausedBy != nil {
		return e.CausedBy
	}
	return nil
}

// UnmarshalJSON accepts caused_by as either a nested error object or a plain message.
func (e *ErrorRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type        string          `json:"type"`
		Code        string          `json:"error"`
		Description string          `json:"error_description"`
		CausedBy    json.RawMessage `json:"caused_by"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Type = raw.Type
	e.Code = raw.Code
	e.Description = raw.Description
	e.CausedBy = nil
	causedBy := bytes.TrimSpace(raw.CausedBy)
	switch {
	case len(causedBy) == 0 || bytes.Equal(causedBy, []byte("null")):
	case causedBy[0] == '{':
		var cause ErrorRecord
		if err := json.Unmarshal(causedBy, &cause); err != nil {
			return err
		}
		e.CausedBy = &cause
	case causedBy[0] == '"':
		var message string
		if err := json.Unmarshal(causedBy, &message); err != nil {
			return err
		}
		e.CausedBy = &ErrorRecord{Type: GeneralErrorType, Code: GeneralErrorCode, Description: message}
	}
	return nil
}

// NewGeneralError creates an error record for failures that carry no OAuth2-style error object.
// The cause, if any, is available through errors.Unwrap.
func NewGeneralError(statusCode int, description string, cause error) *ErrorRecord {
	if cause != nil {
		if description == "" {
			description = cause.Error()
		} else {
			description = description + ": " + cause.Error()
		}
	}
	return &ErrorRecord{
		Type:        GeneralErrorType,
		Code:        GeneralErrorCode,
		Description: description,
		StatusCode:  statusCode,
		cause:       cause,
	}
}

// classifyError turns a non-2xx response into an ErrorRecord.
// Bodies that carry an OAuth2-style "error" field are returned verbatim, anything else becomes a general error.
func classifyError(statusCode int, body []byte) *ErrorRecord {
	var record ErrorRecord
	if err := json.Unmarshal(body, &record); err == nil && record.Code != "" {
		record.StatusCode = statusCode
		return &record
	}
	description := fmt.Sprintf("HTTP %d %s", statusCode, http.StatusText(statusCode))
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		if len(trimmed) > maxErrorBodyLength {
			trimmed = trimmed[:maxErrorBodyLength] + "..."
		}
		description += ": " + trimmed
	}
	return NewGeneralError(statusCode, description, nil)
}

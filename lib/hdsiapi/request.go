package hdsiapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

const (
	JSONMimeType      = "application/json"
	ViewModelMimeType = "application/json+sdb-viewmodel"
	FormMimeType      = "application/x-www-form-urlencoded"
)

// Request describes a single call made through the Executor. It is built per call and not retained.
type Request struct {
	// Query is appended to the URL as "?<Query>" when set.
	Query string
	// Body is JSON-encoded, unless ContentType is form-urlencoded.
	// Form bodies must be url.Values, map[string]string or an already encoded string.
	Body any
	// ContentType of the body. Defaults to JSON, or the view-model media type if ViewModel is set.
	ContentType string
	// Headers are set on the outbound request after the interceptors ran, so they take precedence.
	Headers map[string]string
	// ViewModel requests the view-model media type for both the request body and the response.
	ViewModel bool

	// OnSuccess is invoked with the response of a 2xx call.
	OnSuccess func(response *Response, state any)
	// OnError is invoked with the classified error of a failed call.
	OnError func(err *ErrorRecord, state any)
	// Finally is invoked after OnSuccess or OnError, also when one of them panics.
	Finally func(state any)
	// State is passed to the continuations unchanged.
	State any
}

func (r Request) contentType() string {
	if r.ContentType != "" {
		return r.ContentType
	}
	if r.ViewModel {
		return ViewModelMimeType
	}
	return JSONMimeType
}

func (r Request) accept() string {
	if r.ViewModel {
		return ViewModelMimeType
	}
	return JSONMimeType
}

func (r Request) newHTTPRequest(ctx context.Context, method string, targetURL string) (*http.Request, error) {
	if r.Query != "" {
		targetURL += "?" + strings.TrimPrefix(r.Query, "?")
	}
	contentType := r.contentType()
	var body io.Reader
	if r.Body != nil {
		data, err := encodeBody(contentType, r.Body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}
	httpRequest, err := http.NewRequestWithContext(ctx, method, targetURL, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		httpRequest.Header.Set("Content-Type", contentType)
	}
	httpRequest.Header.Set("Accept", r.accept())
	return httpRequest, nil
}

// IsForm reports whether the given content type is form-urlencoded, ignoring parameters such as charset.
func IsForm(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == FormMimeType
}

func encodeBody(contentType string, body any) ([]byte, error) {
	if !IsForm(contentType) {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode JSON body: %w", err)
		}
		return data, nil
	}
	switch form := body.(type) {
	case url.Values:
		return []byte(form.Encode()), nil
	case map[string]string:
		values := url.Values{}
		for key, value := range form {
			values.Set(key, value)
		}
		return []byte(values.Encode()), nil
	case string:
		return []byte(form), nil
	default:
		return nil, fmt.Errorf("form body must be url.Values or map[string]string, got %T", body)
	}
}

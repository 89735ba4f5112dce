package hdsiapi

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
)

// Response is a fully read HDSI response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsViewModel reports whether the server answered with the view-model media type.
func (r *Response) IsViewModel() bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == ViewModelMimeType
}

// Decode unmarshals the JSON response body into target.
func (r *Response) Decode(target any) error {
	if err := json.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

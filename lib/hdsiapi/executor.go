package hdsiapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/nuts-foundation/hdsi-querytool/lib/logging"
)

// maxResponseSize guards against servers sending responses that exhaust memory.
const maxResponseSize = 10 << 20

// Interceptor is invoked for every request made through an Executor.
type Interceptor interface {
	// InterceptRequest is called before the request is sent.
	InterceptRequest(httpRequest *http.Request)
	// InterceptResponse is called when a response was received, before its body is read.
	InterceptResponse(httpRequest *http.Request, httpResponse *http.Response)
}

// Executor issues HDSI calls and normalizes their outcome into continuations and errors.
type Executor struct {
	httpClient   *http.Client
	interceptors []Interceptor
}

// NewExecutor creates an Executor. Interceptors are invoked in the given order.
// If httpClient is nil, http.DefaultClient is used.
func NewExecutor(httpClient *http.Client, interceptors ...Interceptor) *Executor {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Executor{
		httpClient:   httpClient,
		interceptors: append([]Interceptor{}, interceptors...),
	}
}

// Use appends interceptors. It must not be called while requests are in flight.
func (e *Executor) Use(interceptors ...Interceptor) {
	e.interceptors = append(e.interceptors, interceptors...)
}

// Do issues exactly one HTTP call. On success request.OnSuccess is invoked, otherwise request.OnError
// with the classified error, which is also returned. request.Finally always runs last.
// For failed calls that did receive a response, the response is returned next to the error.
func (e *Executor) Do(ctx context.Context, method string, targetURL string, request Request) (*Response, error) {
	if request.Finally != nil {
		defer request.Finally(request.State)
	}
	logger := logging.Ctx(ctx).With().Str("method", method).Str("url", targetURL).Logger()

	httpRequest, err := request.newHTTPRequest(ctx, method, targetURL)
	if err != nil {
		return nil, request.fail(NewGeneralError(0, "failed to create request", err))
	}
	for _, interceptor := range e.interceptors {
		interceptor.InterceptRequest(httpRequest)
	}
	for key, value := range request.Headers {
		httpRequest.Header.Set(key, value)
	}

	logger.Debug().Msg("HDSI request")
	httpResponse, err := e.httpClient.Do(httpRequest)
	if err != nil {
		logger.Warn().Err(err).Msg("HDSI request failed")
		return nil, request.fail(NewGeneralError(0, "request failed", err))
	}
	defer httpResponse.Body.Close()
	for _, interceptor := range e.interceptors {
		interceptor.InterceptResponse(httpRequest, httpResponse)
	}

	body, err := io.ReadAll(io.LimitReader(httpResponse.Body, maxResponseSize+1))
	if err != nil {
		return nil, request.fail(NewGeneralError(httpResponse.StatusCode, "failed to read response body", err))
	}
	if len(body) > maxResponseSize {
		return nil, request.fail(NewGeneralError(httpResponse.StatusCode, fmt.Sprintf("response body exceeds %d bytes", maxResponseSize), nil))
	}
	response := &Response{
		StatusCode: httpResponse.StatusCode,
		Header:     httpResponse.Header,
		Body:       body,
	}
	logger.Debug().Int("status", response.StatusCode).Msg("HDSI response")

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return response, request.fail(classifyError(response.StatusCode, body))
	}
	if request.OnSuccess != nil {
		request.OnSuccess(response, request.State)
	}
	return response, nil
}

// Go runs Do on its own goroutine. The returned channel is closed after Finally has run.
func (e *Executor) Go(ctx context.Context, method string, targetURL string, request Request) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = e.Do(ctx, method, targetURL, request)
	}()
	return done
}

func (r Request) fail(record *ErrorRecord) *ErrorRecord {
	if r.OnError != nil {
		r.OnError(record, r.State)
	}
	return record
}

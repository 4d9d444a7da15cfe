package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"kitemate/src/utils"

	"github.com/sethvargo/go-retry"
)

// ExternalAPIService is a struct representing a configurable external service
type ExternalAPIService struct {
	client  *http.Client
	retries uint64
}

// NewExternalAPIService creates a new instance of ExternalAPIService. A nil
// client falls back to a default with a 30s timeout.
func NewExternalAPIService(client *http.Client) *ExternalAPIService {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &ExternalAPIService{client: client, retries: 2}
}

// makeRequest is a helper function to make HTTP requests, supporting optional query parameters.
// 5xx responses and transport errors are retried with exponential backoff.
func (s *ExternalAPIService) makeRequest(ctx context.Context, method, endpoint, token string, params url.Values, body interface{}, headers map[string]string) (*http.Response, error) {
	if params != nil {
		endpoint = endpoint + "?" + params.Encode()
	}

	var jsonBody []byte
	var err error
	if body != nil {
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}

	var resp *http.Response
	backoff := retry.WithMaxRetries(s.retries, retry.NewExponential(200*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewBuffer(jsonBody))
		if err != nil {
			return err
		}

		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		req.Header.Set("Content-Type", "application/json")
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		resp, err = s.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()
			return retry.RetryableError(utils.NewHTTPError(utils.CodeUnavailable, resp.Status))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Get makes a GET request to the external service, accepting optional query parameters
func (s *ExternalAPIService) Get(ctx context.Context, endpoint, token string, params url.Values) (*http.Response, error) {
	return s.makeRequest(ctx, http.MethodGet, endpoint, token, params, nil, nil)
}

// Post makes a POST request to the external service, accepting optional query parameters
func (s *ExternalAPIService) Post(ctx context.Context, endpoint, token string, params url.Values, body interface{}) (*http.Response, error) {
	return s.makeRequest(ctx, http.MethodPost, endpoint, token, params, body, nil)
}

// Put makes a PUT request to the external service, accepting optional query parameters
func (s *ExternalAPIService) Put(ctx context.Context, endpoint, token string, params url.Values, body interface{}) (*http.Response, error) {
	return s.makeRequest(ctx, http.MethodPut, endpoint, token, params, body, nil)
}

// Delete makes a DELETE request to the external service, accepting optional query parameters
func (s *ExternalAPIService) Delete(ctx context.Context, endpoint, token string, params url.Values) (*http.Response, error) {
	return s.makeRequest(ctx, http.MethodDelete, endpoint, token, params, nil, nil)
}

// PostWithHeaders makes a POST request with custom headers
func (s *ExternalAPIService) PostWithHeaders(ctx context.Context, endpoint, token string, body interface{}, headers map[string]string) (*http.Response, error) {
	resp, err := s.makeRequest(ctx, http.MethodPost, endpoint, token, nil, body, headers)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode > http.StatusCreated {
		resp.Body.Close()
		return nil, utils.NewHTTPError(utils.CodeUnavailable, resp.Status)
	}
	return resp, nil
}

// PostForm makes a POST request with form-encoded body instead of JSON.
func (s *ExternalAPIService) PostForm(ctx context.Context, endpoint string, form url.Values, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	return s.client.Do(req)
}

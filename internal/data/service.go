package data

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds a single call to the renewables service.
const DefaultTimeout = 30 * time.Second

// ServiceClient talks JSON to the renewables backend (calculation, catalog and subsidy
// endpoints).
type ServiceClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewServiceClient creates a client for baseURL. A zero timeout uses DefaultTimeout.
func NewServiceClient(baseURL string, timeout time.Duration) *ServiceClient {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ServiceClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// ServiceError represents a non-success response from the service.
type ServiceError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // For rate limit errors
}

func (e *ServiceError) Error() string {
	return e.Message
}

// IsUnavailable reports whether err means the service could not be reached or is down.
func IsUnavailable(err error) bool {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code == "UNAVAILABLE"
	}
	var ue *url.Error
	return errors.As(err, &ue)
}

// GetJSON issues GET path and decodes the body into out.
func (c *ServiceClient) GetJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// PostJSON encodes body, issues POST path and decodes the response into out.
func (c *ServiceClient) PostJSON(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *ServiceClient) do(ctx context.Context, method, path string, body, out any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	log.Printf("[Service] Request: %s %s", method, u.Path)

	startTime := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		log.Printf("[Service] Request failed: %v (duration: %v)", err, duration)
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[Service] Response: %s (duration: %v, path=%s)", resp.Status, duration, u.Path)

	if err := statusError(resp); err != nil {
		log.Printf("[Service] Error: %s (path=%s)", err.Message, u.Path)
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Printf("[Service] Error decoding response: %v (path=%s)", err, u.Path)
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) *ServiceError {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusBadRequest:
		return &ServiceError{
			StatusCode: resp.StatusCode,
			Code:       "BAD_REQUEST",
			Message:    "Service rejected the request: " + readMessage(resp.Body),
		}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &ServiceError{
			StatusCode: resp.StatusCode,
			Code:       "UNAUTHORIZED",
			Message:    "Unauthorized: invalid or missing API key",
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return &ServiceError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	case resp.StatusCode >= 500:
		return &ServiceError{
			StatusCode: resp.StatusCode,
			Code:       "UNAVAILABLE",
			Message:    fmt.Sprintf("Service unavailable: %s", resp.Status),
		}
	default:
		return &ServiceError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}
}

// readMessage pulls a short error description out of an error body.
func readMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return "no details"
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

// Package client holds the HTTP adapters for the three downstream
// platforms. Each adapter owns its base URL and authentication and surfaces
// non-2xx responses as *APIError with the platform's status and body text
// echoed for diagnosis.
package client

import (
	"fmt"
	"io"
	"net/http"
)

// APIError is a structured downstream platform failure
type APIError struct {
	Platform string
	Status   int
	Body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API returned status %d: %s", e.Platform, e.Status, e.Body)
}

// newAPIError drains the response body into an APIError
func newAPIError(platform string, resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	return &APIError{
		Platform: platform,
		Status:   resp.StatusCode,
		Body:     string(body),
	}
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}

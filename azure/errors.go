package azure

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNetwork      = errors.New("network error")
	ErrDecode       = errors.New("failed to decode response")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
	ErrBadRequest   = errors.New("bad request")
	ErrServer       = errors.New("server error")
	ErrNoImageData  = errors.New("no image data in API response")
)

// APIError is a non-2xx answer from the image API.
type APIError struct {
	Status  int
	Code    string
	Message string
	// Details holds the error body when it was JSON, Body the raw text.
	Details map[string]any
	Body    string
	Err     error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("image API returned %d (%s): %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("image API returned %d: %s", e.Status, msg)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		Status: status,
		Body:   string(body),
		Err:    mapStatusToError(status),
	}

	var details map[string]any
	if err := json.Unmarshal(body, &details); err != nil {
		return apiErr
	}
	apiErr.Details = details

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != nil {
		apiErr.Code = errResp.Error.Code
		apiErr.Message = errResp.Error.Message
	}

	return apiErr
}

func mapStatusToError(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		if status >= 500 {
			return ErrServer
		}
		return ErrBadRequest
	}
}

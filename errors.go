package universalis

import (
	"errors"
	"fmt"
)

// InvalidParametersError is returned when the API rejects a request
// argument (HTTP 400), for example an over-long item id list. The request
// must be corrected before retrying.
type InvalidParametersError struct {
	Body []byte
}

func (e *InvalidParametersError) Error() string {
	return "universalis: invalid request parameters"
}

// InvalidServerError is returned when the requested world, datacenter or
// region token is unknown to the API (HTTP 404). Not retryable.
type InvalidServerError struct {
	Scope string
}

func (e *InvalidServerError) Error() string {
	if e.Scope == "" {
		return "universalis: unknown world, datacenter or region"
	}
	return fmt.Sprintf("universalis: unknown world, datacenter or region %q", e.Scope)
}

// ServerError is returned for remote-side failures: 5xx responses, a 200
// response whose body is not valid JSON, or any status the client does
// not recognize. Safe to retry with backoff at the caller's discretion.
type ServerError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("universalis: server error %d: %s", e.StatusCode, e.Message)
}

// withScope records the scope token that produced an unknown-scope
// error, so callers can see which world or datacenter was rejected.
func withScope(err error, scope string) error {
	var ise *InvalidServerError
	if errors.As(err, &ise) {
		ise.Scope = scope
	}
	return err
}

// IsRetryable reports whether err is a transient server-side failure.
// InvalidParametersError and InvalidServerError are never retryable.
func IsRetryable(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

package services

import "errors"

var (
	// ErrNoFiles signals a search that matched zero rows, distinct from a
	// backend failure.
	ErrNoFiles = errors.New("no files found")

	// ErrStorage covers any query execution failure against the row store.
	ErrStorage = errors.New("storage failure")

	// ErrStorageTimeout is a store call that exceeded its deadline.
	ErrStorageTimeout = errors.New("storage timeout")

	// ErrUpstreamAuth is a failed or denied identity-provider handshake.
	ErrUpstreamAuth = errors.New("upstream auth failed")

	// ErrIdentityBackend is a row-store failure during login.
	ErrIdentityBackend = errors.New("identity backend unavailable")
)

// FieldError is one entry of a validation failure, shaped like the
// field-level messages the API has always returned.
type FieldError struct {
	Type     string `json:"type"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return "validation failed: " + e.Errors[0].Msg
}

func newFieldError(msg, path string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{
		Type:     "field",
		Msg:      msg,
		Path:     path,
		Location: "body",
	}}}
}

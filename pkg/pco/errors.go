package pco

import (
	"errors"
	"fmt"
)

// CredentialsError indicates an unusable combination of credential fields.
// It is raised when the Authorization header is computed, not at
// construction time.
type CredentialsError struct {
	Message string
}

// Error implements the error interface.
func (e *CredentialsError) Error() string {
	return fmt.Sprintf("invalid credentials: %s", e.Message)
}

// RequestTimeoutError indicates that a request timed out and all retries
// were exhausted.
type RequestTimeoutError struct {
	URL      string
	Attempts int
}

// Error implements the error interface.
func (e *RequestTimeoutError) Error() string {
	return fmt.Sprintf("the request to %q timed out after %d tries", e.URL, e.Attempts)
}

// UnexpectedRequestError indicates a non-HTTP transport failure such as a
// DNS, TLS, or connection error. It is never retried automatically.
type UnexpectedRequestError struct {
	Message string
}

// Error implements the error interface.
func (e *UnexpectedRequestError) Error() string {
	return fmt.Sprintf("unexpected error during request: %s", e.Message)
}

// RequestFailedError indicates an HTTP error status returned by the API.
// Body carries the raw response text for diagnostics.
type RequestFailedError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface.
func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// ModelStateError indicates an operation was invoked on a Resource whose
// state forbids it (e.g. updating a never-synced object, creating an
// already-synced one).
type ModelStateError struct {
	Operation string
	Reason    string
}

// Error implements the error interface.
func (e *ModelStateError) Error() string {
	return fmt.Sprintf("cannot %s resource: %s", e.Operation, e.Reason)
}

// InvalidModelError indicates a relationship operation received an
// argument that is not a properly identified Resource.
type InvalidModelError struct {
	Reason string
}

// Error implements the error interface.
func (e *InvalidModelError) Error() string {
	return fmt.Sprintf("invalid model: %s", e.Reason)
}

// RelationNotFoundError indicates a requested relationship name is absent
// from the resource's links, relationships, and local edits.
type RelationNotFoundError struct {
	Relation string
}

// Error implements the error interface.
func (e *RelationNotFoundError) Error() string {
	return fmt.Sprintf("relationship %q does not exist on this resource", e.Relation)
}

// AttributeNotAvailableError indicates a requested attribute name is
// absent from the resource's top-level fields and attributes map.
type AttributeNotAvailableError struct {
	Attribute string
}

// Error implements the error interface.
func (e *AttributeNotAvailableError) Error() string {
	return fmt.Sprintf("%q is not an available attribute on this resource", e.Attribute)
}

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrNoEndpoint          = errors.New("resource is not bound to an endpoint")
	ErrNoSelfLink          = errors.New("resource has no self link")
	ErrTypeRequired        = errors.New("resource type is required")
	ErrNoMoreItems         = errors.New("no more items")
	ErrUploadPathRequired  = errors.New("upload file path is required")
	ErrCollectionRequired  = errors.New("collection name is required")
	ErrSessionNameRequired = errors.New("session name is required")
	ErrMalformedTokenReply = errors.New("malformed session token response")
	ErrPerPageOutOfRange   = errors.New("per_page must be between 1 and 100")
	ErrRelationDataMissing = errors.New("relationship carries no data")
	ErrResponseBodyNotJSON = errors.New("response body is not valid JSON")
	ErrUnknownProduct      = errors.New("unknown product")
	ErrNotToManyRelation   = errors.New("relationship is not a list")
	ErrNotToOneRelation    = errors.New("relationship is not a single reference")
)

// IsNotFound reports whether err is a RequestFailedError with a 404 status.
func IsNotFound(err error) bool {
	reqErr := &RequestFailedError{}
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == 404
	}

	return false
}

// IsUnauthorized reports whether err is a RequestFailedError with a 401 status.
func IsUnauthorized(err error) bool {
	reqErr := &RequestFailedError{}
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == 401
	}

	return false
}

// IsForbidden reports whether err is a RequestFailedError with a 403 status.
func IsForbidden(err error) bool {
	reqErr := &RequestFailedError{}
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == 403
	}

	return false
}

// IsTimeout reports whether err is a RequestTimeoutError.
func IsTimeout(err error) bool {
	timeoutErr := &RequestTimeoutError{}

	return errors.As(err, &timeoutErr)
}

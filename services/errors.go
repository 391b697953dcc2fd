package services

import "errors"

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the requester does not own the entity.
	ErrForbidden = errors.New("forbidden")
	// ErrBadRequest is returned when a request breaks a business rule.
	ErrBadRequest = errors.New("bad request")
	// ErrStorageDisabled is returned when an upload is attempted without object storage.
	ErrStorageDisabled = errors.New("object storage is not configured")
)

// ServiceError carries a user-facing message alongside one of the sentinel kinds.
type ServiceError struct {
	Kind    error
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Kind
}

func notFound(msg string) error {
	return &ServiceError{Kind: ErrNotFound, Message: msg}
}

func forbidden(msg string) error {
	return &ServiceError{Kind: ErrForbidden, Message: msg}
}

func badRequest(msg string) error {
	return &ServiceError{Kind: ErrBadRequest, Message: msg}
}

// Package errors defines the service's error taxonomy: sentinel errors for
// classification via errors.Is, and typed wrappers that carry context.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the taxonomy described in the design: startup errors
// are fatal, per-request errors are surfaced to the HTTP layer, and
// per-ingest errors are contained within the worker that hit them.
var (
	// ErrAlreadyPresent is returned by Ingest when the filename was already
	// admitted. Treated as a successful no-op by callers.
	ErrAlreadyPresent = errors.New("document already present")

	// ErrNotFound is returned when a document id is unknown to the registry.
	ErrNotFound = errors.New("document not found")

	// ErrBadRequest is returned when an HTTP request parameter is malformed.
	ErrBadRequest = errors.New("bad request")

	// ErrConfig is returned for invalid or missing configuration at startup.
	ErrConfig = errors.New("configuration error")

	// ErrBind is returned when the HTTP server cannot bind its port.
	ErrBind = errors.New("bind error")

	// ErrIngest is returned when a file cannot be read during ingest.
	ErrIngest = errors.New("ingest error")
)

// AlreadyPresentError carries the filename that was already admitted.
type AlreadyPresentError struct {
	Filename string
}

func (e *AlreadyPresentError) Error() string {
	return fmt.Sprintf("document '%s' already present", e.Filename)
}

func (e *AlreadyPresentError) Is(target error) bool { return target == ErrAlreadyPresent }

// NewAlreadyPresentError creates an AlreadyPresentError.
func NewAlreadyPresentError(filename string) *AlreadyPresentError {
	return &AlreadyPresentError{Filename: filename}
}

// NotFoundError carries the document id that could not be found.
type NotFoundError struct {
	DocumentID uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("document with id %d not found", e.DocumentID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(documentID uint64) *NotFoundError {
	return &NotFoundError{DocumentID: documentID}
}

// BadRequestError carries the offending parameter and a human message.
type BadRequestError struct {
	Param   string
	Message string
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("bad request for '%s': %s", e.Param, e.Message)
}

func (e *BadRequestError) Is(target error) bool { return target == ErrBadRequest }

// NewBadRequestError creates a BadRequestError.
func NewBadRequestError(param, message string) *BadRequestError {
	return &BadRequestError{Param: param, Message: message}
}

// ConfigError carries the offending setting and a human message.
type ConfigError struct {
	Setting string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for '%s': %s", e.Setting, e.Message)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// NewConfigError creates a ConfigError.
func NewConfigError(setting, message string) *ConfigError {
	return &ConfigError{Setting: setting, Message: message}
}

// BindError carries the address the server failed to bind.
type BindError struct {
	Address string
	Cause   error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("failed to bind '%s': %v", e.Address, e.Cause)
}

func (e *BindError) Unwrap() error { return e.Cause }

func (e *BindError) Is(target error) bool { return target == ErrBind }

// NewBindError creates a BindError.
func NewBindError(address string, cause error) *BindError {
	return &BindError{Address: address, Cause: cause}
}

// IngestError carries the filename and underlying read failure. It is
// logged and dropped by the caller; it never propagates to the HTTP layer.
type IngestError struct {
	Filename string
	Cause    error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("failed to ingest '%s': %v", e.Filename, e.Cause)
}

func (e *IngestError) Unwrap() error { return e.Cause }

func (e *IngestError) Is(target error) bool { return target == ErrIngest }

// NewIngestError creates an IngestError.
func NewIngestError(filename string, cause error) *IngestError {
	return &IngestError{Filename: filename, Cause: cause}
}

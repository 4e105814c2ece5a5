package httpapi

import "errors"

var (
	// ErrStart indicates that the server failed to start.
	ErrStart = errors.New("failed to start HTTP server")
	// ErrShutdown indicates that graceful shutdown failed.
	ErrShutdown = errors.New("failed to shutdown HTTP server gracefully")
	// ErrUnknownField is returned for a field the served form does not declare.
	ErrUnknownField = errors.New("unknown field")
	// ErrNoFields is returned when a request declares no fields and the server serves no form.
	ErrNoFields = errors.New("no fields to validate")
	// ErrBadRequest is returned for a body that cannot be decoded.
	ErrBadRequest = errors.New("malformed request body")
)

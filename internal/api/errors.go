package api

import (
	"errors"
	"fmt"
)

// ErrEmptySelection is returned when a bulk export is attempted with no
// records selected. It is resolved locally; no request is issued.
var ErrEmptySelection = errors.New("no records selected")

// TransportError covers network failures, timeouts and unexpected HTTP
// statuses. Status is 0 when the request never completed.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AppError is a structured error payload produced by the backend, including
// payloads delivered with a success status inside a download response.
type AppError struct {
	Message string
}

func (e *AppError) Error() string { return e.Message }

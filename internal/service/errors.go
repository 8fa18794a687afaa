package service

import (
	"errors"
	"fmt"
)

// Paths the host shell navigates to after a load failure or a successful submission.
const (
	RootPath    = "/"
	productPath = "/products/"
)

var (
	// ErrProductIDRequired is returned when a session is opened without a product id
	ErrProductIDRequired = errors.New("service: product id is required")
	// ErrSessionNotFound is returned for unknown or torn down session ids
	ErrSessionNotFound = errors.New("service: session not found")
	// ErrSessionClosed is returned when a torn down session is used
	ErrSessionClosed = errors.New("service: session is closed")
	// ErrBusy is returned while a resolution or submission is outstanding
	ErrBusy = errors.New("service: another operation is in progress")
	// ErrLocationRequired is returned when submitting before coordinates are resolved
	ErrLocationRequired = errors.New("service: location must be resolved before submitting")
	// ErrSenderRequired is returned when submitting without a signing identity
	ErrSenderRequired = errors.New("service: sender is required")
	// ErrSlotNotFound is returned when editing an unknown entry
	ErrSlotNotFound = errors.New("service: entry not found")
	// ErrNotEditable is returned when editing an entry hidden from the transport view
	ErrNotEditable = errors.New("service: entry is not editable in this view")
	// ErrReadOnly is returned when editing a read-only entry
	ErrReadOnly = errors.New("service: entry is read-only")
	// ErrInvalidTransportType is returned for Transport Type values outside the accepted list
	ErrInvalidTransportType = errors.New("service: invalid transport type")
)

// LoadError reports that the custom data of a product could not be loaded.
// The view must not be shown; the host navigates to Redirect instead.
type LoadError struct {
	ProductID string
	VersionID string
	Err       error
}

// Error implements the error interface
func (e *LoadError) Error() string {
	return fmt.Sprintf("service: failed to load product %q version %q: %v", e.ProductID, e.VersionID, e.Err)
}

// Unwrap returns the underlying error
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Redirect returns the path to navigate to
func (e *LoadError) Redirect() string {
	return RootPath
}

// SubmissionError reports a rejected or failed registry write.
// The session stays usable and the write can be retried.
type SubmissionError struct {
	ProductID string
	Err       error
}

// Error implements the error interface
func (e *SubmissionError) Error() string {
	return fmt.Sprintf("service: submission for product %q failed: %v", e.ProductID, e.Err)
}

// Unwrap returns the underlying error
func (e *SubmissionError) Unwrap() error {
	return e.Err
}

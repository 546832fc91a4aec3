package domain

import "fmt"

// ConfigurationError marks a fatal setup problem such as a missing API
// key. It is detected before any network call and never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// ValidationError marks user-correctable bad input (no images, an
// unsupported request encoding, a missing rating).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// FetchError is returned when a remote image could not be downloaded.
// It carries the upstream HTTP status so the caller can point the user
// at the image source.
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch image %s: %s", e.URL, e.Status)
}

// InferenceError wraps any failure of the model call: transport errors,
// non-success statuses, or an unusable response body.
type InferenceError struct {
	Reason string
	Err    error
}

func (e *InferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("inference failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("inference failed: %s", e.Reason)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a storage failure that happened after a
// successful analysis. The computed report must still reach the caller.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist report: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

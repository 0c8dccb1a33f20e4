package loginflow

import (
	"errors"
	"fmt"
)

// Failure taxonomy. None of these are retried by the harness; they propagate
// to the scenario boundary.
var (
	// ErrElementNotFound means an element lookup timed out.
	ErrElementNotFound = errors.New("element not found")
	// ErrAssertion means an expectation did not hold.
	ErrAssertion = errors.New("assertion failed")
	// ErrNavigationTimeout means the page did not reach its target state in time.
	ErrNavigationTimeout = errors.New("navigation timeout")
	// ErrUnknownMessage means a caller asked for an error banner outside the fixed message set.
	ErrUnknownMessage = errors.New("unknown login error message")
)

// AssertionError describes a failed expectation.
type AssertionError struct {
	Expectation string
	Err         error
}

func (e *AssertionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("expected %s", e.Expectation)
	}
	return fmt.Sprintf("expected %s: %v", e.Expectation, e.Err)
}

// Is makes every AssertionError match ErrAssertion.
func (e *AssertionError) Is(target error) bool {
	return target == ErrAssertion
}

func (e *AssertionError) Unwrap() error {
	return e.Err
}

package loginflow

import (
	"fmt"

	"github.com/sauceqa/logincheck/internal/models"
)

// Credentials is a username/password pair; either value may be empty.
type Credentials = models.Credentials

// The fixed vocabulary of error banner messages.
const (
	MessageCredentialsMismatch = models.MessageCredentialsMismatch
	MessageLockedOut           = models.MessageLockedOut
	MessageUsernameRequired    = models.MessageUsernameRequired
	MessagePasswordRequired    = models.MessagePasswordRequired
)

// IsKnownMessage reports whether msg is one of the fixed banner messages.
func IsKnownMessage(msg string) bool {
	return models.IsKnownMessage(msg)
}

// OutcomeKind tags an Outcome.
type OutcomeKind int

const (
	// OutcomeSuccess: the browser navigated to the success destination.
	OutcomeSuccess OutcomeKind = iota + 1
	// OutcomeFailure: the error banner is showing a message.
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Outcome is the observable result of a login attempt. Destination is set for
// OutcomeSuccess, Message for OutcomeFailure.
type Outcome struct {
	Kind        OutcomeKind
	Destination string
	Message     string
}

// Success builds a successful outcome.
func Success(destination string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Destination: destination}
}

// Failure builds a failed outcome.
func Failure(message string) Outcome {
	return Outcome{Kind: OutcomeFailure, Message: message}
}

// IsSuccess reports whether the login succeeded.
func (o Outcome) IsSuccess() bool {
	return o.Kind == OutcomeSuccess
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeSuccess:
		return fmt.Sprintf("Success(%s)", o.Destination)
	case OutcomeFailure:
		return fmt.Sprintf("Failure(%q)", o.Message)
	default:
		return "Outcome(unknown)"
	}
}

// State is the login page state as observed through the browser.
type State string

// States of the login page. A fresh navigation to the base URL is always
// StateUnauthenticated; submitting moves to StateAuthenticated or
// StateErrorShown; dismissing the banner moves back to StateUnauthenticated.
const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
	StateErrorShown      State = "error-shown"
)

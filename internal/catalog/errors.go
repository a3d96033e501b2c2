package catalog

import (
	"context"
	"fmt"
	"net"

	"github.com/go-faster/errors"
)

// Fixed messages shown in the product table.
const (
	FetchErrorMessage = "Error loading products. Please try again later."
	NoProductsMessage = "No products found"
)

var (
	// ErrMalformedBody is returned when the upstream body is not a JSON product array.
	ErrMalformedBody = errors.New("malformed catalog body")

	// ErrInvalidCriteria is returned when view criteria fail validation.
	ErrInvalidCriteria = errors.New("invalid view criteria")

	// ErrRateLimited is returned when a client exceeds the request rate.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// StatusError reports a non-success HTTP status from the product API.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected upstream status %d", e.StatusCode)
}

// UserMessage is an error description safe to show to end users.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

var (
	msgUnreachable = UserMessage{
		Message: "Unable to reach the product service",
		Action:  "Please try again later",
		Code:    "FETCH001",
	}
	msgBadStatus = UserMessage{
		Message: "The product service returned an error",
		Action:  "Please try again later",
		Code:    "FETCH002",
	}
	msgMalformed = UserMessage{
		Message: "The product service returned an unreadable response",
		Action:  "Please try again later",
		Code:    "FETCH003",
	}
	msgTimeout = UserMessage{
		Message: "The product service did not respond in time",
		Action:  "Please try again later",
		Code:    "FETCH004",
	}
	msgInvalidCriteria = UserMessage{
		Message: "Search or filter value is not valid",
		Action:  "Shorten the search text and try again",
		Code:    "REQ001",
	}
	msgRateLimited = UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}
)

// defaultMessage is the fallback for unexpected errors (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It returns the zero UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var statusErr *StatusError
	var netErr net.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	case errors.As(err, &statusErr):
		return msgBadStatus
	case errors.Is(err, ErrMalformedBody):
		return msgMalformed
	case errors.Is(err, ErrInvalidCriteria):
		return msgInvalidCriteria
	case errors.Is(err, ErrRateLimited):
		return msgRateLimited
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return msgTimeout
		}
		return msgUnreachable
	}

	return defaultMessage
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

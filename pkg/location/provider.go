package location

import (
	"context"
	"errors"
)

// ErrorKind classifies failures reported by a location provider.
type ErrorKind string

const (
	KindPermissionDenied    ErrorKind = "PERMISSION_DENIED"
	KindPositionUnavailable ErrorKind = "POSITION_UNAVAILABLE"
	KindTimeout             ErrorKind = "TIMEOUT"
	KindUnsupported         ErrorKind = "UNSUPPORTED"
)

// Error is returned by providers. errors.Is matches it against the Err* sentinels by kind.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return DefaultMessage(e.Kind)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrPermissionDenied    = &Error{Kind: KindPermissionDenied}
	ErrPositionUnavailable = &Error{Kind: KindPositionUnavailable}
	ErrTimeout             = &Error{Kind: KindTimeout}
	ErrUnsupported         = &Error{Kind: KindUnsupported}
)

// ErrSubscriptionActive is returned by Watch when the consumer already holds a subscription.
var ErrSubscriptionActive = errors.New("location subscription already active")

// DefaultMessage returns the user-facing text for an error kind.
func DefaultMessage(kind ErrorKind) string {
	switch kind {
	case KindPermissionDenied:
		return "User denied the request for geolocation"
	case KindPositionUnavailable:
		return "Location information is unavailable"
	case KindTimeout:
		return "The request to get user location timed out"
	case KindUnsupported:
		return "Geolocation is not supported by your browser"
	default:
		return "An unknown error occurred"
	}
}

// ParseErrorKind maps a wire string to a known kind; unknown values map to PositionUnavailable.
func ParseErrorKind(s string) ErrorKind {
	switch k := ErrorKind(s); k {
	case KindPermissionDenied, KindPositionUnavailable, KindTimeout, KindUnsupported:
		return k
	default:
		return KindPositionUnavailable
	}
}

// NewError builds a provider error with the default message for kind.
func NewError(kind ErrorKind) *Error {
	return &Error{Kind: kind, Message: DefaultMessage(kind)}
}

// Subscription is an active location watch. Unsubscribe is safe to call more than once.
type Subscription interface {
	Unsubscribe()
}

// Provider supplies device coordinates, one-shot or continuously.
type Provider interface {
	Current(ctx context.Context) (Coordinate, error)
	Watch(onUpdate func(Coordinate), onError func(error)) (Subscription, error)
}

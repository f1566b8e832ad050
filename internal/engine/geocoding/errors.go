package geocoding

import (
	"errors"
	"fmt"
)

// Kind classifies why a geocoding call failed.
type Kind int

const (
	KindTransport Kind = iota // request never produced a readable response
	KindStatus                // service answered with a non-2xx or error status
	KindDecode                // body was not valid JSON or had a null first result
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by providers for every failed call.
type Error struct {
	Provider   string
	Kind       Kind
	StatusCode int // set for KindStatus
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("%s: geocoding returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: geocoding %s error: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the failure kind of err, or false when err is not a geocoding error.
func KindOf(err error) (Kind, bool) {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind, true
	}
	return 0, false
}

var (
	ErrUnsupportedProvider = errors.New("unsupported geocoding provider")
	ErrMissingAPIKey       = errors.New("geocoding provider requires an API key")
)

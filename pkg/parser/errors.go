package parser

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ErrMalformedLog is returned for logs that carry no topics, so there is no
// selector to look up.
var ErrMalformedLog = errors.New("malformed log: no selector topic")

// Error kinds used to label parse failures.
const (
	KindUnknownEvent  = "unknown_event"
	KindDecodingError = "decoding_error"
	KindMalformedLog  = "malformed_log"
	KindOther         = "other"
)

// UnknownEventError is returned when no event in the ABI has the log's
// selector. This usually means the wrong ABI was supplied or the log comes
// from an unrelated contract.
type UnknownEventError struct {
	Selector common.Hash
}

func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("event not found for given abi: selector %s", e.Selector.Hex())
}

// NewUnknownEventError creates a new UnknownEventError.
func NewUnknownEventError(selector common.Hash) error {
	return &UnknownEventError{Selector: selector}
}

// DecodingError is returned when the selector matched an event but its topics
// or data could not be decoded against the definition. This usually means the
// ABI is out of date.
type DecodingError struct {
	Event string
	Err   error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("could not decode %s, abi might mismatch data: %v", e.Event, e.Err)
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

// NewDecodingError creates a new DecodingError.
func NewDecodingError(event string, err error) error {
	return &DecodingError{Event: event, Err: err}
}

// ErrorKind classifies an error returned by Parse.
func ErrorKind(err error) string {
	var (
		unknownErr  *UnknownEventError
		decodingErr *DecodingError
	)

	switch {
	case errors.As(err, &unknownErr):
		return KindUnknownEvent
	case errors.As(err, &decodingErr):
		return KindDecodingError
	case errors.Is(err, ErrMalformedLog):
		return KindMalformedLog
	default:
		return KindOther
	}
}

package analysis

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
)

// Kind separates failures the caller reacts to differently.
type Kind int

const (
	KindUnknown Kind = iota
	KindInput
	KindConfiguration
	KindTransport
	KindContract
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindConfiguration:
		return "configuration"
	case KindTransport:
		return "transport"
	case KindContract:
		return "contract"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidImageFormat = errors.New("invalid image format")
	ErrMissingCredential  = errors.New("API_KEY is not defined")
	ErrEmptyResponse      = errors.New("empty response from model")
	ErrUnknownCategory    = errors.New("unknown defect category")
)

// Error is the failure type returned by Client.Analyze.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the Kind of err, or KindUnknown for errors not produced by this package.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

const (
	messageGeneric   = "Failed to analyze image."
	messageTransport = "Network error: The image might be too large or the API connection failed. Retrying with a different image might help."
)

// UserMessage converts an analysis failure into the single message shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return messageGeneric
	}

	kind := KindOf(err)
	if kind == KindTransport || (kind == KindUnknown && looksLikeTransport(err.Error())) {
		return messageTransport
	}

	if msg := err.Error(); msg != "" {
		return "Error: " + msg
	}
	return messageGeneric
}

// classifyCallError wraps a failed provider call. status is the HTTP status
// reported by the SDK, or 0 when unknown.
func classifyCallError(op string, err error, status int) *Error {
	kind := KindContract
	if isTransport(err, status) {
		kind = KindTransport
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func isTransport(err error, status int) bool {
	switch {
	case status == http.StatusRequestEntityTooLarge,
		status == http.StatusTooManyRequests,
		status >= http.StatusInternalServerError:
		return true
	case status != 0:
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return looksLikeTransport(err.Error())
}

// Message fragments emitted by transports that do not expose typed errors.
var transportMarkers = []string{
	"xhr error",
	"rpc failed",
	"connection reset",
	"connection refused",
	"request entity too large",
}

func looksLikeTransport(msg string) bool {
	msg = strings.ToLower(msg)
	for _, marker := range transportMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func inputError(op string, err error) *Error {
	return &Error{Kind: KindInput, Op: op, Err: err}
}

func contractError(op string, err error) *Error {
	return &Error{Kind: KindContract, Op: op, Err: err}
}

func missingCredential(op string) *Error {
	return &Error{Kind: KindConfiguration, Op: op, Err: ErrMissingCredential}
}

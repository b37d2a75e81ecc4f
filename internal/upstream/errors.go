package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ValidationError means a call was refused before anything went on the wire.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
}

// UpstreamError is a non-2xx answer from a remote service. Body holds the raw
// JSON payload so callers can relay it untouched.
type UpstreamError struct {
	Service string
	Status  int
	Body    json.RawMessage
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s responded with status %d", e.Service, e.Status)
}

// TransportError is a failure to get any answer at all: DNS, refused
// connection, timeout, truncated body.
type TransportError struct {
	Service string
	Cause   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s unreachable: %v", e.Service, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Kind names the variant an error belongs to.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUpstream
	KindTransport
)

// Classify returns the variant of err along with the typed value, if any.
func Classify(err error) (Kind, error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return KindValidation, verr
	}
	var uerr *UpstreamError
	if errors.As(err, &uerr) {
		return KindUpstream, uerr
	}
	var terr *TransportError
	if errors.As(err, &terr) {
		return KindTransport, terr
	}
	return KindUnknown, err
}

// rawBody turns whatever the remote sent into valid JSON. Non-JSON bodies are
// wrapped as a JSON string, empty bodies become null.
func rawBody(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(b) {
		return json.RawMessage(b)
	}
	quoted, _ := json.Marshal(string(b))
	return json.RawMessage(quoted)
}

package transcribe

import (
	"errors"
	"fmt"
)

// ErrorKind classifies transcription failures.
type ErrorKind string

const (
	// KindConfig means the client is missing configuration, such as the API credential.
	KindConfig ErrorKind = "config"
	// KindEncode means the request body could not be built from the chunk,
	// such as an unreadable recording file.
	KindEncode ErrorKind = "encode"
	// KindTransport covers request and network failures.
	KindTransport ErrorKind = "transport"
	// KindRemote means the service answered with a non-success status.
	KindRemote ErrorKind = "remote"
	// KindDecode means the response body was not valid JSON.
	KindDecode ErrorKind = "decode"
)

// Error is a kind-aware transcription failure with optional response context.
type Error struct {
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
	StatusCode int       `json:"statusCode,omitempty"`
	Body       string    `json:"body,omitempty"`
	Err        error     `json:"-"`
}

// Error formats transcription failures for logs and UI.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status=%d body=%s)", msg, e.StatusCode, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// KindOf returns the kind of a transcription error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var tErr *Error
	if errors.As(err, &tErr) {
		return tErr.Kind
	}
	return ""
}

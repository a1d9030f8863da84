package session

import "errors"

// ErrAlreadyRecording is returned when starting while a session is active.
var ErrAlreadyRecording = errors.New("already recording")

// ErrNotRecording is returned when stopping an idle session.
var ErrNotRecording = errors.New("not recording")

// ErrCaptureStartFailed wraps a capture bridge start failure.
var ErrCaptureStartFailed = errors.New("capture start failed")

// ErrCaptureStopFailed wraps a capture bridge stop failure.
var ErrCaptureStopFailed = errors.New("capture stop failed")

// ErrResetWhileRecording is returned when clearing the transcript of an active session.
var ErrResetWhileRecording = errors.New("cannot reset transcript while recording")

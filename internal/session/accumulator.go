package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"voice-journal/internal/domain"
)

// Accumulator is the process-wide recording state: lifecycle status plus the
// transcript built from appended segments. Its lock is only held for
// in-memory mutation.
type Accumulator struct {
	mu         sync.RWMutex
	status     domain.RecordingStatus
	transcript strings.Builder
	segments   int
	failures   int
	sessionID  string
	startedAt  time.Time
}

// NewAccumulator creates an idle accumulator with an empty transcript.
func NewAccumulator() *Accumulator {
	return &Accumulator{status: domain.RecordingStatusIdle}
}

// Append adds one segment followed by a separator. Blank text is skipped and
// reported as not appended.
func (a *Accumulator) Append(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.transcript.WriteString(text)
	a.transcript.WriteByte(' ')
	a.segments++
	return true
}

// Status returns the current lifecycle status.
func (a *Accumulator) Status() domain.RecordingStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// Transcript returns the accumulated transcript.
func (a *Accumulator) Transcript() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.transcript.String()
}

// Snapshot returns a copy of the session state for display.
func (a *Accumulator) Snapshot() domain.SessionSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return domain.SessionSnapshot{
		SessionID:  a.sessionID,
		Status:     a.status,
		Transcript: a.transcript.String(),
		Segments:   a.segments,
		Failures:   a.failures,
		StartedAt:  a.startedAt,
	}
}

// Reset clears the transcript and counters. It is only allowed while idle.
func (a *Accumulator) Reset() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status != domain.RecordingStatusIdle {
		return ErrResetWhileRecording
	}
	a.transcript.Reset()
	a.segments = 0
	a.failures = 0
	return nil
}

// begin moves an idle accumulator into recording for a new session.
func (a *Accumulator) begin(sessionID string, at time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.transitionLocked(domain.RecordingStatusRecording); err != nil {
		return err
	}
	a.sessionID = sessionID
	a.startedAt = at
	return nil
}

// transition applies one validated status change.
func (a *Accumulator) transition(to domain.RecordingStatus) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.transitionLocked(to)
}

func (a *Accumulator) transitionLocked(to domain.RecordingStatus) error {
	if a.status == to {
		return nil
	}
	if !isValidTransition(a.status, to) {
		return fmt.Errorf("invalid transition: %s -> %s", a.status, to)
	}
	a.status = to
	return nil
}

// forceIdle ends the session regardless of the current status.
func (a *Accumulator) forceIdle() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = domain.RecordingStatusIdle
}

func (a *Accumulator) recordFailure() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures++
}

func (a *Accumulator) currentSessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessionID
}

// isValidTransition enforces the recording state machine edges.
func isValidTransition(from, to domain.RecordingStatus) bool {
	switch from {
	case domain.RecordingStatusIdle:
		return to == domain.RecordingStatusRecording
	case domain.RecordingStatusRecording:
		return to == domain.RecordingStatusStopping
	case domain.RecordingStatusStopping:
		return to == domain.RecordingStatusIdle
	default:
		return false
	}
}

package domain

import "time"

// RecordingStatus tracks the lifecycle of the single recording session.
type RecordingStatus string

const (
	RecordingStatusIdle      RecordingStatus = "idle"
	RecordingStatusRecording RecordingStatus = "recording"
	RecordingStatusStopping  RecordingStatus = "stopping"
)

// Capture modes select which bridge implementation records audio.
const (
	CaptureModeStream = "stream"
	CaptureModeFile   = "file"
)

// Settings contains user-selectable runtime configuration.
type Settings struct {
	Endpoint              string `json:"endpoint" yaml:"endpoint"`
	Model                 string `json:"model" yaml:"model"`
	Language              string `json:"language" yaml:"language"`
	APIKeyEnv             string `json:"apiKeyEnv" yaml:"api_key_env"`
	CaptureMode           string `json:"captureMode" yaml:"capture_mode"`
	ChunkSeconds          int    `json:"chunkSeconds" yaml:"chunk_seconds"`
	SampleRate            int    `json:"sampleRate" yaml:"sample_rate"`
	Channels              int    `json:"channels" yaml:"channels"`
	BitDepth              int    `json:"bitDepth" yaml:"bit_depth"`
	RequestTimeoutSeconds int    `json:"requestTimeoutSeconds" yaml:"request_timeout_seconds"`
	Notify                bool   `json:"notify" yaml:"notify"`
	LogLevel              string `json:"logLevel" yaml:"log_level"`
	MetricsBind           string `json:"metricsBind" yaml:"metrics_bind"`
}

// RequestTimeout converts the configured per-request timeout to a duration.
func (s Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// SessionSnapshot is a point-in-time copy of the recording session for the UI.
type SessionSnapshot struct {
	SessionID  string          `json:"sessionId"`
	Status     RecordingStatus `json:"status"`
	Transcript string          `json:"transcript"`
	Segments   int             `json:"segments"`
	Failures   int             `json:"failures"`
	StartedAt  time.Time       `json:"startedAt,omitempty"`
}

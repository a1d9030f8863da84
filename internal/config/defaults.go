package config

import (
	"os"
	"path/filepath"

	"voice-journal/internal/domain"
)

const (
	DefaultEndpoint  = "https://api.openai.com/v1/audio/transcriptions"
	DefaultModel     = "whisper-1"
	DefaultAPIKeyEnv = "OPENAI_API_KEY"
)

// DefaultSettings returns baseline local configuration for first launch.
func DefaultSettings() domain.Settings {
	return domain.Settings{
		Endpoint:              DefaultEndpoint,
		Model:                 DefaultModel,
		Language:              "auto",
		APIKeyEnv:             DefaultAPIKeyEnv,
		CaptureMode:           domain.CaptureModeStream,
		ChunkSeconds:          5,
		SampleRate:            44100,
		Channels:              1,
		BitDepth:              16,
		RequestTimeoutSeconds: 60,
		LogLevel:              "info",
	}
}

// AppDir returns the per-user directory holding settings and the optional .env file.
func AppDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".voice-journal")
}

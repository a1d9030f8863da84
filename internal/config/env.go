package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"voice-journal/internal/domain"
)

// LoadEnvFiles loads dotenv files into the process environment. Missing files
// are skipped. Variables that already hold a non-blank value are never
// overridden, so it is safe to call again after a file was edited.
func LoadEnvFiles(paths ...string) error {
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		values, err := godotenv.Read(path)
		if err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
		for key, value := range values {
			if current, ok := os.LookupEnv(key); ok && strings.TrimSpace(current) != "" {
				continue
			}
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("set %s from %s: %w", key, path, err)
			}
		}
	}
	return nil
}

// ApplyEnvOverrides replaces settings with VOICE_JOURNAL_* variables when set.
func ApplyEnvOverrides(cfg *domain.Settings) {
	overrideString(&cfg.Endpoint, "VOICE_JOURNAL_ENDPOINT")
	overrideString(&cfg.Model, "VOICE_JOURNAL_MODEL")
	overrideString(&cfg.Language, "VOICE_JOURNAL_LANGUAGE")
	overrideString(&cfg.APIKeyEnv, "VOICE_JOURNAL_API_KEY_ENV")
	overrideString(&cfg.CaptureMode, "VOICE_JOURNAL_CAPTURE_MODE")
	overrideInt(&cfg.ChunkSeconds, "VOICE_JOURNAL_CHUNK_SECONDS")
	overrideInt(&cfg.SampleRate, "VOICE_JOURNAL_SAMPLE_RATE")
	overrideInt(&cfg.Channels, "VOICE_JOURNAL_CHANNELS")
	overrideInt(&cfg.BitDepth, "VOICE_JOURNAL_BIT_DEPTH")
	overrideInt(&cfg.RequestTimeoutSeconds, "VOICE_JOURNAL_REQUEST_TIMEOUT_SECONDS")
	overrideBool(&cfg.Notify, "VOICE_JOURNAL_NOTIFY")
	overrideString(&cfg.LogLevel, "VOICE_JOURNAL_LOG_LEVEL")
	overrideString(&cfg.MetricsBind, "VOICE_JOURNAL_METRICS_BIND")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			*target = parsed
		}
	}
}

// Normalize trims user input and fills empty fields with defaults. A zero
// request timeout is kept: it disables the per-request deadline.
func Normalize(cfg domain.Settings) domain.Settings {
	defaults := DefaultSettings()

	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.Language = strings.TrimSpace(cfg.Language)
	cfg.APIKeyEnv = strings.TrimSpace(cfg.APIKeyEnv)
	cfg.CaptureMode = strings.ToLower(strings.TrimSpace(cfg.CaptureMode))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.MetricsBind = strings.TrimSpace(cfg.MetricsBind)

	if cfg.Endpoint == "" {
		cfg.Endpoint = defaults.Endpoint
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.Language == "" {
		cfg.Language = defaults.Language
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = defaults.APIKeyEnv
	}
	if cfg.CaptureMode == "" {
		cfg.CaptureMode = defaults.CaptureMode
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if cfg.ChunkSeconds == 0 {
		cfg.ChunkSeconds = defaults.ChunkSeconds
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = defaults.SampleRate
	}
	if cfg.Channels == 0 {
		cfg.Channels = defaults.Channels
	}
	if cfg.BitDepth == 0 {
		cfg.BitDepth = defaults.BitDepth
	}
	return cfg
}

// Validate rejects settings the recorder cannot run with.
func Validate(cfg domain.Settings) error {
	switch cfg.CaptureMode {
	case domain.CaptureModeStream, domain.CaptureModeFile:
	default:
		return errors.New("capture_mode must be one of stream|file")
	}
	if cfg.SampleRate <= 0 {
		return errors.New("sample_rate must be positive")
	}
	if cfg.Channels <= 0 {
		return errors.New("channels must be positive")
	}
	switch cfg.BitDepth {
	case 16, 24, 32:
	default:
		return errors.New("bit_depth must be one of 16|24|32")
	}
	if cfg.ChunkSeconds <= 0 {
		return errors.New("chunk_seconds must be positive")
	}
	if cfg.RequestTimeoutSeconds < 0 {
		return errors.New("request_timeout_seconds must be >= 0")
	}
	if cfg.Model == "" {
		return errors.New("model must not be empty")
	}
	if cfg.APIKeyEnv == "" {
		return errors.New("api_key_env must not be empty")
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint must be an absolute http(s) URL: %q", cfg.Endpoint)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("log_level must be one of debug|info|warn|error")
	}
	return nil
}

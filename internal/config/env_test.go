package config

import (
	"os"
	"path/filepath"
	"testing"

	"voice-journal/internal/domain"
)

// TestApplyEnvOverrides checks VOICE_JOURNAL_* variables replace settings.
func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("VOICE_JOURNAL_ENDPOINT", "http://localhost:9000/v1/audio/transcriptions")
	t.Setenv("VOICE_JOURNAL_MODEL", "  local-whisper ")
	t.Setenv("VOICE_JOURNAL_CAPTURE_MODE", "file")
	t.Setenv("VOICE_JOURNAL_CHUNK_SECONDS", "8")
	t.Setenv("VOICE_JOURNAL_NOTIFY", "true")
	t.Setenv("VOICE_JOURNAL_SAMPLE_RATE", "not-a-number")

	cfg := DefaultSettings()
	ApplyEnvOverrides(&cfg)

	if cfg.Endpoint != "http://localhost:9000/v1/audio/transcriptions" {
		t.Fatalf("endpoint = %q", cfg.Endpoint)
	}
	if cfg.Model != "local-whisper" {
		t.Fatalf("model = %q, want local-whisper", cfg.Model)
	}
	if cfg.CaptureMode != domain.CaptureModeFile {
		t.Fatalf("capture mode = %q, want file", cfg.CaptureMode)
	}
	if cfg.ChunkSeconds != 8 {
		t.Fatalf("chunk seconds = %d, want 8", cfg.ChunkSeconds)
	}
	if !cfg.Notify {
		t.Fatal("expected notify override")
	}
	if cfg.SampleRate != 44100 {
		t.Fatalf("invalid int override should be ignored, sample rate = %d", cfg.SampleRate)
	}
}

// TestLoadEnvFilesDoesNotOverride checks dotenv loading keeps existing variables.
func TestLoadEnvFilesDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "VOICE_JOURNAL_TEST_KEY=from-file\nVOICE_JOURNAL_TEST_EXISTING=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("VOICE_JOURNAL_TEST_EXISTING", "from-env")
	t.Setenv("VOICE_JOURNAL_TEST_KEY", "")
	os.Unsetenv("VOICE_JOURNAL_TEST_KEY")

	if err := LoadEnvFiles(filepath.Join(t.TempDir(), "missing.env"), path); err != nil {
		t.Fatalf("LoadEnvFiles() error = %v", err)
	}

	if got := os.Getenv("VOICE_JOURNAL_TEST_KEY"); got != "from-file" {
		t.Fatalf("key = %q, want from-file", got)
	}
	if got := os.Getenv("VOICE_JOURNAL_TEST_EXISTING"); got != "from-env" {
		t.Fatalf("existing = %q, want from-env", got)
	}
}

// TestNormalizeFillsDefaults checks blank values are replaced.
func TestNormalizeFillsDefaults(t *testing.T) {
	got := Normalize(domain.Settings{Model: "  ", CaptureMode: " FILE ", Language: " en "})
	if got.Model != DefaultModel {
		t.Fatalf("model = %q", got.Model)
	}
	if got.CaptureMode != domain.CaptureModeFile {
		t.Fatalf("capture mode = %q", got.CaptureMode)
	}
	if got.Language != "en" {
		t.Fatalf("language = %q", got.Language)
	}
	if err := Validate(got); err != nil {
		t.Fatalf("normalized settings should validate: %v", err)
	}
}

// TestNormalizeKeepsZeroTimeout checks a zero timeout stays disabled.
func TestNormalizeKeepsZeroTimeout(t *testing.T) {
	cfg := DefaultSettings()
	cfg.RequestTimeoutSeconds = 0

	got := Normalize(cfg)
	if got.RequestTimeoutSeconds != 0 {
		t.Fatalf("timeout = %d, want 0", got.RequestTimeoutSeconds)
	}
	if err := Validate(got); err != nil {
		t.Fatalf("zero timeout should validate: %v", err)
	}
}

// TestLoadEnvFilesFillsBlankVariables checks a reload picks up a value added
// after the variable was loaded empty.
func TestLoadEnvFilesFillsBlankVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("VOICE_JOURNAL_TEST_KEY=\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("VOICE_JOURNAL_TEST_KEY", "")
	os.Unsetenv("VOICE_JOURNAL_TEST_KEY")

	if err := LoadEnvFiles(path); err != nil {
		t.Fatalf("LoadEnvFiles() error = %v", err)
	}
	if got, ok := os.LookupEnv("VOICE_JOURNAL_TEST_KEY"); !ok || got != "" {
		t.Fatalf("key = %q (set=%v), want empty and set", got, ok)
	}

	if err := os.WriteFile(path, []byte("VOICE_JOURNAL_TEST_KEY=sk-filled\n"), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := LoadEnvFiles(path); err != nil {
		t.Fatalf("second LoadEnvFiles() error = %v", err)
	}
	if got := os.Getenv("VOICE_JOURNAL_TEST_KEY"); got != "sk-filled" {
		t.Fatalf("key = %q, want sk-filled", got)
	}
}

// TestValidateRejectsBadSettings checks each guarded field.
func TestValidateRejectsBadSettings(t *testing.T) {
	cases := map[string]func(*domain.Settings){
		"capture mode": func(s *domain.Settings) { s.CaptureMode = "tape" },
		"sample rate":  func(s *domain.Settings) { s.SampleRate = -1 },
		"bit depth":    func(s *domain.Settings) { s.BitDepth = 8 },
		"chunk":        func(s *domain.Settings) { s.ChunkSeconds = 0 },
		"endpoint":     func(s *domain.Settings) { s.Endpoint = "api.openai.com" },
		"log level":    func(s *domain.Settings) { s.LogLevel = "loud" },
	}
	for name, mutate := range cases {
		cfg := DefaultSettings()
		mutate(&cfg)
		if err := Validate(cfg); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

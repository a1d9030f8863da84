package config

import (
	"os"
	"path/filepath"
	"testing"

	"voice-journal/internal/domain"
)

// TestDefaultSettings verifies baseline defaults are present and valid.
func TestDefaultSettings(t *testing.T) {
	cfg := DefaultSettings()
	if cfg.Language != "auto" {
		t.Fatalf("language = %q, want auto", cfg.Language)
	}
	if cfg.Model != DefaultModel {
		t.Fatalf("model = %q, want %q", cfg.Model, DefaultModel)
	}
	if cfg.CaptureMode != domain.CaptureModeStream {
		t.Fatalf("capture mode = %q, want stream", cfg.CaptureMode)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

// TestFileStoreLoadMissingReturnsDefaults checks first-run behavior.
func TestFileStoreLoadMissingReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "settings.yaml")
	store := NewFileStore(path)

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != DefaultSettings() {
		t.Fatalf("settings = %+v, want defaults", got)
	}
}

// TestFileStoreSaveAndLoadYAML checks persisted settings fidelity for YAML files.
func TestFileStoreSaveAndLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "settings.yaml")
	store := NewFileStore(path)
	want := DefaultSettings()
	want.Model = "gpt-4o-mini-transcribe"
	want.Language = "de"
	want.CaptureMode = domain.CaptureModeFile
	want.Notify = true

	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Fatalf("settings = %+v, want %+v", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("perm = %o, want 600", perm)
	}
}

// TestFileStoreSaveAndLoadJSON checks the JSON codec is picked by extension.
func TestFileStoreSaveAndLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store := NewFileStore(path)
	want := DefaultSettings()
	want.ChunkSeconds = 10

	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) == 0 || data[0] != '{' {
		t.Fatalf("expected JSON document, got %q", data)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Fatalf("settings = %+v, want %+v", got, want)
	}
}

// TestFileStoreLoadPartialKeepsDefaults checks omitted keys fall back to defaults.
func TestFileStoreLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("model: whisper-large\nchunk_seconds: 3\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Model != "whisper-large" || got.ChunkSeconds != 3 {
		t.Fatalf("settings = %+v", got)
	}
	if got.Endpoint != DefaultEndpoint {
		t.Fatalf("endpoint = %q, want default", got.Endpoint)
	}
}

// TestFileStoreLoadInvalidYAML checks parse error handling.
func TestFileStoreLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("model: [unterminated"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := NewFileStore(path).Load(); err == nil {
		t.Fatal("expected yaml parse error")
	}
}

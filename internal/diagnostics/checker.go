package diagnostics

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"voice-journal/internal/capture"
	"voice-journal/internal/domain"
)

// Checker validates the credential, endpoint, microphone and scratch space
// needed before recording.
type Checker struct {
	getenv      func(string) string
	inputDevice func() (string, error)
	tempDir     func() string
	createTemp  func(string, string) (*os.File, error)
	remove      func(string) error
}

// NewChecker builds a checker using real OS and audio dependencies.
func NewChecker() *Checker {
	return &Checker{
		getenv:      os.Getenv,
		inputDevice: capture.DefaultInputName,
		tempDir:     os.TempDir,
		createTemp:  os.CreateTemp,
		remove:      os.Remove,
	}
}

// Run executes all checks and returns a combined report.
func (c *Checker) Run(settings domain.Settings) domain.DiagnosticReport {
	items := []domain.DiagnosticItem{
		c.checkAPIKey(settings.APIKeyEnv),
		c.checkEndpoint(settings.Endpoint),
		c.checkInputDevice(),
		c.checkTempDir(),
	}

	hasFailures := false
	for _, item := range items {
		if item.Status == domain.DiagnosticStatusFail {
			hasFailures = true
			break
		}
	}

	return domain.DiagnosticReport{
		GeneratedAt: time.Now().UTC(),
		HasFailures: hasFailures,
		Items:       items,
	}
}

// checkAPIKey verifies the credential variable is present without revealing it.
func (c *Checker) checkAPIKey(envName string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   "api_key",
		Name: "API key",
	}

	envName = strings.TrimSpace(envName)
	if envName == "" {
		item.Status = domain.DiagnosticStatusFail
		item.Message = "No credential environment variable is configured."
		item.Hint = "Set the API key variable name in settings."
		return item
	}
	if strings.TrimSpace(c.getenv(envName)) == "" {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Environment variable %s is not set.", envName)
		item.Hint = fmt.Sprintf("Export %s or add it to ~/.voice-journal/.env.", envName)
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Credential found in %s", envName)
	return item
}

// checkEndpoint validates the transcription URL shape.
func (c *Checker) checkEndpoint(endpoint string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   "endpoint",
		Name: "Transcription endpoint",
	}

	parsed, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Invalid endpoint URL: %q", endpoint)
		item.Hint = "Use an absolute http(s) URL such as https://api.openai.com/v1/audio/transcriptions."
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Uploading to %s", parsed.Host)
	return item
}

// checkInputDevice verifies a default microphone is available.
func (c *Checker) checkInputDevice() domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   "input_device",
		Name: "Microphone",
	}

	name, err := c.inputDevice()
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("No default input device: %v", err)
		item.Hint = "Connect a microphone and grant the app microphone access."
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Using %s", name)
	return item
}

// checkTempDir verifies chunk files can be written to the OS temp dir.
func (c *Checker) checkTempDir() domain.DiagnosticItem {
	dir := c.tempDir()
	item := domain.DiagnosticItem{
		ID:   "temp_dir",
		Name: "Temporary directory",
	}

	tmpFile, err := c.createTemp(dir, ".voice-journal-check-*")
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Temporary directory is not writable: %s", dir)
		item.Hint = "Set TMPDIR to a writable location."
		return item
	}

	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()
	_ = c.remove(tmpPath)

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Writable directory: %s", dir)
	return item
}

// NewCheckerForTests creates checker with injectable dependencies.
func NewCheckerForTests(
	getenv func(string) string,
	inputDevice func() (string, error),
	tempDir func() string,
	createTemp func(string, string) (*os.File, error),
	remove func(string) error,
) *Checker {
	return &Checker{
		getenv:      getenv,
		inputDevice: inputDevice,
		tempDir:     tempDir,
		createTemp:  createTemp,
		remove:      remove,
	}
}

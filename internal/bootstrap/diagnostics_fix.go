package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"voice-journal/internal/config"
	"voice-journal/internal/domain"
)

// FixDiagnostic applies the automatic remedy for one failed check, if any,
// and returns the refreshed report.
func (a *App) FixDiagnostic(itemID string) (domain.DiagnosticReport, error) {
	switch strings.TrimSpace(itemID) {
	case "endpoint":
		settings := a.GetSettings()
		settings.Endpoint = config.DefaultEndpoint
		if _, err := a.SaveSettings(settings); err != nil {
			return domain.DiagnosticReport{}, err
		}
	case "api_key":
		settings := a.GetSettings()
		path, err := ensureEnvTemplate(config.AppDir(), settings.APIKeyEnv)
		if err != nil {
			return domain.DiagnosticReport{}, err
		}
		if a.openPath != nil {
			if err := a.openPath(filepath.Dir(path)); err != nil {
				return domain.DiagnosticReport{}, err
			}
		}
	case "input_device", "temp_dir":
		return domain.DiagnosticReport{}, fmt.Errorf("diagnostic %s cannot be fixed automatically", itemID)
	default:
		return domain.DiagnosticReport{}, fmt.Errorf("unknown diagnostic id: %s", itemID)
	}

	return a.RefreshDiagnostics(), nil
}

// ensureEnvTemplate creates dir/.env with an empty credential line for the
// user to fill in. An existing file is left untouched.
func ensureEnvTemplate(dir, keyName string) (string, error) {
	if strings.TrimSpace(keyName) == "" {
		return "", errors.New("api key variable name is empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create settings folder: %w", err)
	}

	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("check env file: %w", err)
	}

	content := fmt.Sprintf("# Refresh diagnostics after editing to load the key.\n%s=\n", keyName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("write env file: %w", err)
	}
	return path, nil
}

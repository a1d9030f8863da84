package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gen2brain/beeep"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"go.opentelemetry.io/otel"

	"voice-journal/internal/capture"
	"voice-journal/internal/config"
	"voice-journal/internal/diagnostics"
	"voice-journal/internal/domain"
	"voice-journal/internal/events"
	"voice-journal/internal/session"
	"voice-journal/internal/telemetry"
	"voice-journal/internal/transcribe"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

const appName = "voice-journal"

var transcriptDialogFilter = []wailsruntime.FileFilter{
	{
		DisplayName: "Text files",
		Pattern:     "*.txt;*.md",
	},
	{
		DisplayName: "All files",
		Pattern:     "*",
	},
}

// App wires configuration, the recording session, and UI runtime callbacks.
type App struct {
	Settings    domain.Settings
	Store       config.Store
	Session     *session.Controller
	Diagnostics domain.DiagnosticReport
	assets      fs.FS
	checker     *diagnostics.Checker
	logger      *slog.Logger
	envFiles    []string

	newBridge      func(domain.Settings) (capture.Bridge, error)
	newTranscriber func(domain.Settings) session.Transcriber
	copyText       func(string) error
	notify         func(title, message string) error
	openPath       func(string) error

	telemetryShutdown func(context.Context) error
	metricsServer     *telemetry.Server

	mu         sync.Mutex
	events     *events.Bus
	runtimeCtx context.Context
}

// New builds the application with persisted settings and startup diagnostics.
func New() (*App, error) {
	return NewWithAssets(nil)
}

// NewWithAssets builds the application and optionally configures embedded frontend assets.
func NewWithAssets(assets fs.FS) (*App, error) {
	appDir := config.AppDir()
	envFiles := []string{filepath.Join(appDir, ".env"), ".env"}
	if err := config.LoadEnvFiles(envFiles...); err != nil {
		return nil, err
	}

	store := config.NewFileStore(filepath.Join(appDir, "settings.yaml"))
	settings, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	config.ApplyEnvOverrides(&settings)
	settings = config.Normalize(settings)
	if err := config.Validate(settings); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	logger := NewLogger(os.Stderr, settings.LogLevel)
	logger.Info("settings loaded", slog.String("path", store.Path()), slog.String("capture_mode", settings.CaptureMode))

	shutdown, handler, err := telemetry.Setup(appName, logger)
	if err != nil {
		return nil, fmt.Errorf("setup telemetry: %w", err)
	}
	metrics, err := telemetry.NewMetrics(otel.Meter(appName))
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	a := &App{
		Settings:          settings,
		Store:             store,
		assets:            assets,
		checker:           diagnostics.NewChecker(),
		logger:            logger,
		envFiles:          envFiles,
		newBridge:         capture.New,
		newTranscriber:    newClient,
		copyText:          clipboard.WriteAll,
		notify:            desktopNotify,
		openPath:          openInFileManager,
		telemetryShutdown: shutdown,
		events:            events.NewBus(1000),
	}

	bridge, err := a.initBridge(settings)
	if err != nil {
		_ = shutdown(context.Background())
		return nil, err
	}
	a.Session = session.NewController(bridge, a.newTranscriber(settings), session.Options{
		Logger:  logger,
		Metrics: metrics,
		Hooks:   a.sessionHooks(),
	})
	a.Diagnostics = a.checker.Run(settings)

	if settings.MetricsBind != "" && handler != nil {
		server, err := telemetry.StartServer(settings.MetricsBind, handler, logger)
		if err != nil {
			logger.Warn("metrics server disabled", slog.String("bind", settings.MetricsBind), slog.String("error", err.Error()))
		} else {
			a.metricsServer = server
		}
	}

	return a, nil
}

// Run starts the Wails desktop application and binds backend methods.
func (a *App) Run() error {
	assetOptions := &assetserver.Options{}
	if a.assets != nil {
		assetOptions.Assets = a.assets
	} else {
		assetOptions.Handler = http.FileServer(http.Dir("./frontend"))
	}

	return wails.Run(&options.App{
		Title:       "Voice Journal",
		Width:       720,
		Height:      640,
		AssetServer: assetOptions,
		OnStartup:   a.Startup,
		OnShutdown:  a.Shutdown,
		Bind:        []interface{}{a},
	})
}

// Startup stores Wails runtime context for push events.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.runtimeCtx = ctx
}

// Shutdown ends any active recording and releases audio and telemetry resources.
func (a *App) Shutdown(ctx context.Context) {
	a.mu.Lock()
	a.runtimeCtx = nil
	a.mu.Unlock()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.Session != nil {
		if a.Session.IsRecording() {
			if err := a.Session.Stop(shutdownCtx); err != nil {
				a.logger.Warn("stop recording on shutdown", slog.String("error", err.Error()))
			}
		}
		a.Session.Close()
		if bridge := a.Session.Bridge(); bridge != nil {
			if err := bridge.Close(); err != nil {
				a.logger.Warn("close capture bridge", slog.String("error", err.Error()))
			}
		}
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("metrics server shutdown error", slog.String("error", err.Error()))
		}
	}
	if a.telemetryShutdown != nil {
		if err := a.telemetryShutdown(shutdownCtx); err != nil {
			a.logger.Error("telemetry shutdown error", slog.String("error", err.Error()))
		}
	}
}

// StartRecording begins a new recording session.
func (a *App) StartRecording() (bool, error) {
	if err := a.Session.Start(a.commandContext()); err != nil {
		return false, err
	}
	return true, nil
}

// StopRecording ends the session and returns the transcript accumulated so far.
func (a *App) StopRecording() (string, error) {
	if err := a.Session.Stop(a.commandContext()); err != nil {
		return a.Session.Transcript(), err
	}

	snapshot := a.Session.Snapshot()
	a.mu.Lock()
	notify := a.Settings.Notify
	a.mu.Unlock()
	if notify && a.notify != nil {
		message := fmt.Sprintf("%d segments transcribed", snapshot.Segments)
		if err := a.notify("Recording stopped", message); err != nil {
			a.logger.Warn("desktop notification failed", slog.String("error", err.Error()))
		}
	}
	return snapshot.Transcript, nil
}

// GetTranscription returns the accumulated transcript.
func (a *App) GetTranscription() string {
	return a.Session.Transcript()
}

// IsRecording reports whether a session is recording or stopping.
func (a *App) IsRecording() bool {
	return a.Session.IsRecording()
}

// GetSession returns the full session snapshot.
func (a *App) GetSession() domain.SessionSnapshot {
	return a.Session.Snapshot()
}

// SessionEvents returns all events with sequence greater than sinceSeq.
func (a *App) SessionEvents(sinceSeq int64) []events.Event {
	return a.events.Since(sinceSeq)
}

// ResetTranscription clears the transcript while idle.
func (a *App) ResetTranscription() error {
	return a.Session.ResetTranscript()
}

// CopyTranscription places the transcript on the system clipboard.
func (a *App) CopyTranscription() error {
	text := strings.TrimSpace(a.Session.Transcript())
	if text == "" {
		return fmt.Errorf("transcript is empty")
	}
	if err := a.copyText(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// ExportTranscription asks for a destination and writes the transcript there.
func (a *App) ExportTranscription() (string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return "", err
	}

	path, err := wailsruntime.SaveFileDialog(ctx, wailsruntime.SaveDialogOptions{
		Title:           "Export transcript",
		DefaultFilename: "journal-" + time.Now().Format("2006-01-02") + ".txt",
		Filters:         transcriptDialogFilter,
	})
	if err != nil {
		return "", err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}

	return path, a.writeTranscript(path)
}

// writeTranscript saves the transcript as a text file.
func (a *App) writeTranscript(path string) error {
	text := strings.TrimSpace(a.Session.Transcript())
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// GetDiagnostics returns the latest cached diagnostics report.
func (a *App) GetDiagnostics() domain.DiagnosticReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Diagnostics
}

// RefreshDiagnostics reloads the dotenv files and reruns the startup checks
// against the current settings. Credentials added to a .env file since the
// last run become visible to the checks and to transcription.
func (a *App) RefreshDiagnostics() domain.DiagnosticReport {
	if err := config.LoadEnvFiles(a.envFiles...); err != nil {
		a.logger.Warn("reload env files", slog.String("error", err.Error()))
	}

	a.mu.Lock()
	settings := a.Settings
	a.mu.Unlock()

	report := a.checker.Run(settings)

	a.mu.Lock()
	a.Diagnostics = report
	a.mu.Unlock()
	return report
}

// GetSettings returns the effective settings.
func (a *App) GetSettings() domain.Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Settings
}

// SaveSettings validates and persists settings, then rebuilds the capture
// bridge and transcription client. It is rejected while recording.
func (a *App) SaveSettings(settings domain.Settings) (domain.Settings, error) {
	normalized := config.Normalize(settings)
	if err := config.Validate(normalized); err != nil {
		return domain.Settings{}, err
	}
	if a.Session.IsRecording() {
		return domain.Settings{}, session.ErrAlreadyRecording
	}

	bridge, err := a.initBridge(normalized)
	if err != nil {
		return domain.Settings{}, err
	}
	prev, err := a.Session.Reconfigure(bridge, a.newTranscriber(normalized))
	if err != nil {
		_ = bridge.Close()
		return domain.Settings{}, err
	}
	if prev != nil {
		if err := prev.Close(); err != nil {
			a.logger.Warn("close previous capture bridge", slog.String("error", err.Error()))
		}
	}

	if err := a.Store.Save(normalized); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = normalized
	a.mu.Unlock()
	a.RefreshDiagnostics()
	return normalized, nil
}

// OpenSettingsFolder reveals the directory holding settings and the .env file.
func (a *App) OpenSettingsFolder() error {
	dir := config.AppDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings folder: %w", err)
	}
	return a.openPath(dir)
}

// initBridge builds and initializes the capture bridge for settings.
func (a *App) initBridge(settings domain.Settings) (capture.Bridge, error) {
	bridge, err := a.newBridge(settings)
	if err != nil {
		return nil, fmt.Errorf("build capture bridge: %w", err)
	}
	if err := bridge.Init(); err != nil {
		return nil, fmt.Errorf("initialize audio session: %w", err)
	}
	return bridge, nil
}

// sessionHooks maps session notifications to UI events.
func (a *App) sessionHooks() session.Hooks {
	return session.Hooks{
		OnStatus: func(sessionID string, status domain.RecordingStatus) {
			a.publishEvent(events.Event{
				SessionID: sessionID,
				Type:      events.TypeStatus,
				Status:    status,
			})
		},
		OnSegment: func(sessionID string, chunkSeq int64, text string) {
			a.publishEvent(events.Event{
				SessionID: sessionID,
				Type:      events.TypeSegment,
				ChunkSeq:  chunkSeq,
				Text:      text,
			})
		},
		OnError: func(sessionID string, chunkSeq int64, err error) {
			a.publishEvent(events.Event{
				SessionID: sessionID,
				Type:      events.TypeError,
				ChunkSeq:  chunkSeq,
				Kind:      string(transcribe.KindOf(err)),
				Message:   err.Error(),
			})
		},
	}
}

// publishEvent stores event history and emits runtime push notifications.
func (a *App) publishEvent(event events.Event) {
	published := a.events.Publish(event)

	a.mu.Lock()
	ctx := a.runtimeCtx
	a.mu.Unlock()
	if ctx != nil {
		wailsruntime.EventsEmit(ctx, "session:event", published)
	}
}

// commandContext returns the runtime context, or background before startup.
func (a *App) commandContext() context.Context {
	ctx, err := a.runtimeContext()
	if err != nil {
		return context.Background()
	}
	return ctx
}

// runtimeContext returns current Wails runtime context for dialog APIs.
func (a *App) runtimeContext() (context.Context, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.runtimeCtx == nil {
		return nil, errors.New("runtime context is not initialized")
	}
	return a.runtimeCtx, nil
}

func newClient(settings domain.Settings) session.Transcriber {
	return transcribe.NewClient(settings)
}

func desktopNotify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// openInFileManager launches the platform file explorer for the provided path.
func openInFileManager(path string) error {
	var cmd *exec.Cmd
	switch goruntime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", filepath.Clean(path))
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch file manager: %w", err)
	}
	return nil
}

package bootstrap

import (
	"strings"

	"voice-journal/internal/domain"
)

var transcriptionModelCatalog = []domain.TranscriptionModelOption{
	{
		ID:          "whisper-1",
		Name:        "Whisper",
		Description: "General-purpose speech recognition, widest language coverage.",
	},
	{
		ID:          "gpt-4o-transcribe",
		Name:        "GPT-4o Transcribe",
		Description: "Highest accuracy, slower and more expensive per minute.",
	},
	{
		ID:          "gpt-4o-mini-transcribe",
		Name:        "GPT-4o mini Transcribe",
		Description: "Faster and cheaper, good for short dictation chunks.",
	},
}

// GetTranscriptionModels returns the built-in model presets with the
// configured one marked. A custom model id is listed after the presets.
func (a *App) GetTranscriptionModels() []domain.TranscriptionModelOption {
	a.mu.Lock()
	current := strings.TrimSpace(a.Settings.Model)
	a.mu.Unlock()

	return markSelectedModel(current)
}

func markSelectedModel(current string) []domain.TranscriptionModelOption {
	models := make([]domain.TranscriptionModelOption, len(transcriptionModelCatalog), len(transcriptionModelCatalog)+1)
	copy(models, transcriptionModelCatalog)

	if current == "" {
		return models
	}
	if _, found := getTranscriptionModelByID(current); !found {
		models = append(models, domain.TranscriptionModelOption{
			ID:          current,
			Name:        current,
			Description: "Custom model configured in settings.",
		})
	}
	for i := range models {
		models[i].Selected = models[i].ID == current
	}
	return models
}

func getTranscriptionModelByID(id string) (domain.TranscriptionModelOption, bool) {
	for _, model := range transcriptionModelCatalog {
		if model.ID == id {
			return model, true
		}
	}
	return domain.TranscriptionModelOption{}, false
}

package bootstrap

import "testing"

// TestGetTranscriptionModelByID verifies known model lookup.
func TestGetTranscriptionModelByID(t *testing.T) {
	model, found := getTranscriptionModelByID("gpt-4o-mini-transcribe")
	if !found {
		t.Fatal("expected gpt-4o-mini-transcribe model to exist")
	}
	if model.Name != "GPT-4o mini Transcribe" {
		t.Fatalf("name = %s, want GPT-4o mini Transcribe", model.Name)
	}
	if _, found := getTranscriptionModelByID("ggml-base.bin"); found {
		t.Fatal("unexpected match for unknown model")
	}
}

// TestMarkSelectedModelPreset marks exactly the configured preset.
func TestMarkSelectedModelPreset(t *testing.T) {
	models := markSelectedModel("whisper-1")
	if len(models) != len(transcriptionModelCatalog) {
		t.Fatalf("len = %d, want %d", len(models), len(transcriptionModelCatalog))
	}
	selected := 0
	for _, model := range models {
		if model.Selected {
			selected++
			if model.ID != "whisper-1" {
				t.Fatalf("selected %s, want whisper-1", model.ID)
			}
		}
	}
	if selected != 1 {
		t.Fatalf("selected count = %d, want 1", selected)
	}
	if transcriptionModelCatalog[0].Selected {
		t.Fatal("catalog was mutated")
	}
}

// TestMarkSelectedModelCustom appends a custom configured model.
func TestMarkSelectedModelCustom(t *testing.T) {
	models := markSelectedModel("my-local-whisper")
	last := models[len(models)-1]
	if last.ID != "my-local-whisper" || !last.Selected {
		t.Fatalf("last model = %+v, want selected custom entry", last)
	}
}

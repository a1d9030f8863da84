package domain

// TranscriptionModelOption describes one remote speech-to-text model preset.
type TranscriptionModelOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Selected    bool   `json:"selected"`
}

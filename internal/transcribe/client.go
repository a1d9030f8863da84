package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"voice-journal/internal/audio"
	"voice-journal/internal/domain"
)

// maxErrorBody caps how much of a failed response body is kept on the error.
const maxErrorBody = 4096

// Client converts one audio chunk into text through a remote
// OpenAI-compatible transcription endpoint. It never retries.
type Client struct {
	endpoint   string
	model      string
	language   string
	apiKeyEnv  string
	timeout    time.Duration
	httpClient *http.Client
	getenv     func(string) string
	createTemp func(dir, pattern string) (*os.File, error)
}

// NewClient builds a client from settings using process environment lookups.
func NewClient(settings domain.Settings) *Client {
	return &Client{
		endpoint:   settings.Endpoint,
		model:      settings.Model,
		language:   settings.Language,
		apiKeyEnv:  settings.APIKeyEnv,
		timeout:    settings.RequestTimeout(),
		httpClient: &http.Client{},
		getenv:     os.Getenv,
		createTemp: os.CreateTemp,
	}
}

type transcriptionResponse struct {
	Text json.RawMessage `json:"text"`
}

// Transcribe uploads chunk and returns the recognized text. A response
// without a string "text" field yields "" rather than an error.
func (c *Client) Transcribe(ctx context.Context, chunk audio.Chunk) (string, error) {
	apiKey := strings.TrimSpace(c.getenv(c.apiKeyEnv))
	if apiKey == "" {
		return "", &Error{
			Kind:    KindConfig,
			Message: fmt.Sprintf("environment variable %s is not set", c.apiKeyEnv),
		}
	}
	if chunk.IsEmpty() {
		return "", nil
	}

	body, contentType, err := c.buildBody(chunk)
	if err != nil {
		return "", &Error{Kind: KindEncode, Message: "build multipart body", Err: err}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return "", &Error{Kind: KindTransport, Message: "create request", Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Kind: KindTransport, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Kind: KindTransport, Message: "read response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{
			Kind:       KindRemote,
			Message:    "transcription service returned an error",
			StatusCode: resp.StatusCode,
			Body:       truncate(string(respBody), maxErrorBody),
		}
	}

	var parsed transcriptionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &Error{Kind: KindDecode, Message: "parse response json", Err: err}
	}

	var text string
	if len(parsed.Text) > 0 {
		// Non-string values leave text empty.
		_ = json.Unmarshal(parsed.Text, &text)
	}
	return text, nil
}

// buildBody renders the multipart form: a file part plus model and optional language.
func (c *Client) buildBody(chunk audio.Chunk) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if chunk.IsFile() {
		if err := writeFilePart(writer, chunk.Path); err != nil {
			return nil, "", err
		}
	} else {
		if err := c.writeSamplePart(writer, chunk); err != nil {
			return nil, "", err
		}
	}

	if err := writer.WriteField("model", c.model); err != nil {
		return nil, "", err
	}
	if lang := normalizeLanguage(c.language); lang != "" {
		if err := writer.WriteField("language", lang); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}

// writeSamplePart encodes raw samples into a temporary WAV file and copies it
// into the form. The temporary file is always removed.
func (c *Client) writeSamplePart(writer *multipart.Writer, chunk audio.Chunk) error {
	file, err := c.createTemp("", "voice-journal-chunk-*.wav")
	if err != nil {
		return fmt.Errorf("temp file: %w", err)
	}
	defer os.Remove(file.Name())
	defer file.Close()

	if err := audio.EncodeWAV(file, chunk.Samples, chunk.Format); err != nil {
		return err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind wav: %w", err)
	}

	part, err := createFilePart(writer, "audio.wav", "audio/wav")
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy wav to form: %w", err)
	}
	return nil
}

// writeFilePart copies an already-encoded recording into the form unchanged.
func writeFilePart(writer *multipart.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	name := filepath.Base(path)
	part, err := createFilePart(writer, name, contentTypeFor(name))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy file to form: %w", err)
	}
	return nil
}

func createFilePart(writer *multipart.Writer, fileName, contentType string) (io.Writer, error) {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(fileName)))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	return part, nil
}

// contentTypeFor maps common recording extensions to MIME types.
func contentTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".wav":
		return "audio/wav"
	case ".m4a":
		return "audio/mp4"
	case ".mp3":
		return "audio/mpeg"
	case ".ogg", ".opus":
		return "audio/ogg"
	case ".webm":
		return "audio/webm"
	case ".flac":
		return "audio/flac"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// normalizeLanguage maps "auto" and empty language to no form field.
func normalizeLanguage(raw string) string {
	lang := strings.TrimSpace(raw)
	if lang == "" || strings.EqualFold(lang, "auto") {
		return ""
	}
	return lang
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// NewClientForTests constructs a client with injectable dependencies.
func NewClientForTests(
	settings domain.Settings,
	httpClient *http.Client,
	getenv func(string) string,
	createTemp func(dir, pattern string) (*os.File, error),
) *Client {
	c := NewClient(settings)
	if httpClient != nil {
		c.httpClient = httpClient
	}
	if getenv != nil {
		c.getenv = getenv
	}
	if createTemp != nil {
		c.createTemp = createTemp
	}
	return c
}

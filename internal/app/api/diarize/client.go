package diarize

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"meeting-whisper/internal/app/api"
	"meeting-whisper/internal/app/model"
)

const (
	// DefaultModel is the OpenAI diarizing transcription model.
	DefaultModel = "gpt-4o-transcribe-diarize"

	// MaxSpeakerReferences is the service's cap on voice references per request.
	MaxSpeakerReferences = 4

	defaultBaseURL = "https://api.openai.com"
	inferencePath  = "/v1/audio/transcriptions"
)

// Config holds settings for the diarizing transcription client.
type Config struct {
	BaseURL    string        // service base URL, defaults to the OpenAI API
	APIKey     string        // bearer token, required
	Model      string        // model ID, defaults to DefaultModel
	Timeout    time.Duration // per-attempt HTTP timeout
	MaxRetries uint64        // retry attempts after the first failure
}

// Client calls the diarizing transcription endpoint over multipart HTTP.
// Transient failures (network errors, 429, 5xx) are retried with bounded
// exponential backoff; other failures are returned immediately.
type Client struct {
	config Config
	client *http.Client
	logger *zap.Logger
}

// NewClient creates a diarizing transcription client.
func NewClient(config Config, logger *zap.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = 120 * time.Second
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

// Transcribe sends one audio chunk and returns its diarized segments in the
// chunk's local timeline. refs may be nil; at most MaxSpeakerReferences are
// accepted.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType string, refs []model.SpeakerReference) ([]model.DiarizedSegment, error) {
	if len(refs) > MaxSpeakerReferences {
		return nil, api.NewInvalidInputError("at most %d speaker references are allowed, got %d", MaxSpeakerReferences, len(refs))
	}

	var segments []model.DiarizedSegment

	operation := func() error {
		segs, err := c.doRequest(ctx, audio, mimeType, refs)
		if err != nil {
			var svcErr *api.TranscriptionServiceError
			if errors.As(err, &svcErr) && !svcErr.Retryable {
				return backoff.Permanent(err)
			}
			return err
		}
		segments = segs
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.config.MaxRetries), ctx)

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("transcription attempt failed, retrying",
			zap.Error(err),
			zap.Duration("backoff", wait))
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}
	return segments, nil
}

func (c *Client) doRequest(ctx context.Context, audio []byte, mimeType string, refs []model.SpeakerReference) ([]model.DiarizedSegment, error) {
	body, contentType, err := c.buildForm(audio, mimeType, refs)
	if err != nil {
		return nil, &api.TranscriptionServiceError{
			Code: "form_creation_failed", Message: "failed to build multipart form", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+inferencePath, body)
	if err != nil {
		return nil, &api.TranscriptionServiceError{
			Code: "request_creation_failed", Message: "failed to create HTTP request", Cause: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &api.TranscriptionServiceError{
			Code: "request_failed", Message: "HTTP request failed", Retryable: true, Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &api.TranscriptionServiceError{
			Code: "response_read_failed", Message: "failed to read response body", Retryable: true, Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &api.TranscriptionServiceError{
			Code:      "api_error",
			Message:   fmt.Sprintf("service returned status %d: %s", resp.StatusCode, truncate(data, 512)),
			Retryable: resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
		}
	}

	return parseSegments(data), nil
}

// buildForm assembles the multipart request: audio file, model parameters,
// and one name/reference field pair per speaker reference.
func (c *Client) buildForm(audio []byte, mimeType string, refs []model.SpeakerReference) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "chunk"+extensionFor(mimeType))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", fmt.Errorf("failed to write audio payload: %w", err)
	}

	fields := map[string]string{
		"model":             c.config.Model,
		"response_format":   "diarized_json",
		"chunking_strategy": "auto",
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	for _, ref := range refs {
		if err := writer.WriteField("known_speaker_names[]", ref.Label); err != nil {
			return nil, "", fmt.Errorf("failed to write speaker name: %w", err)
		}
		uri := fmt.Sprintf("data:%s;base64,%s", ref.MimeType, base64.StdEncoding.EncodeToString(ref.Audio))
		if err := writer.WriteField("known_speaker_references[]", uri); err != nil {
			return nil, "", fmt.Errorf("failed to write speaker reference: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}

// wireSegment mirrors the service's segment shape. Every field is optional;
// the service is allowed to omit any of them.
type wireSegment struct {
	Speaker *string  `json:"speaker"`
	Text    *string  `json:"text"`
	Start   *float64 `json:"start"`
	End     *float64 `json:"end"`
}

type wireResponse struct {
	Text     string        `json:"text"`
	Segments []wireSegment `json:"segments"`
}

// parseSegments normalizes the service response into canonical segments.
// Malformed or empty payloads yield an empty sequence, never an error:
// silence is a valid transcription result.
func parseSegments(data []byte) []model.DiarizedSegment {
	var resp wireResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil
	}

	segments := make([]model.DiarizedSegment, 0, len(resp.Segments))
	for _, ws := range resp.Segments {
		seg := model.DiarizedSegment{Speaker: "Speaker A"}
		if ws.Speaker != nil {
			seg.Speaker = *ws.Speaker
		}
		if ws.Text != nil {
			seg.Text = *ws.Text
		}
		if ws.Start != nil {
			seg.Start = *ws.Start
		}
		if ws.End != nil {
			seg.End = *ws.End
		}
		segments = append(segments, seg)
	}
	return segments
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "audio/mpeg":
		return ".mp3"
	case "audio/wav":
		return ".wav"
	case "audio/mp4":
		return ".m4a"
	case "audio/flac":
		return ".flac"
	case "audio/ogg":
		return ".ogg"
	case "audio/webm":
		return ".webm"
	default:
		return ".mp3"
	}
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}

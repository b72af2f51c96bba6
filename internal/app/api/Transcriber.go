package api

import (
	"context"

	"meeting-whisper/internal/app/model"
)

// DiarizedTranscriber defines the transcription interface for converting one
// audio chunk into speaker-attributed segments. References may be nil; when
// present they bias the service toward reusing the given speaker labels.
type DiarizedTranscriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string, refs []model.SpeakerReference) ([]model.DiarizedSegment, error)
}

package testutil

import (
	"context"
	"sync"

	"meeting-whisper/internal/app/model"
)

// TranscribeCall records one Transcribe invocation for assertions.
type TranscribeCall struct {
	Key      string
	MimeType string
	Refs     []model.SpeakerReference
}

// MockDiarizedTranscriber is a configurable in-memory implementation of the
// api.DiarizedTranscriber interface. Responses and errors are keyed by the
// audio payload so concurrent calls stay deterministic.
type MockDiarizedTranscriber struct {
	mu sync.Mutex

	ResponseMap map[string][]model.DiarizedSegment
	ErrorMap    map[string]error
	Calls       []TranscribeCall
}

func NewMockDiarizedTranscriber() *MockDiarizedTranscriber {
	return &MockDiarizedTranscriber{
		ResponseMap: make(map[string][]model.DiarizedSegment),
		ErrorMap:    make(map[string]error),
	}
}

// WithResponse registers the segments returned for an audio payload.
func (m *MockDiarizedTranscriber) WithResponse(key string, segs []model.DiarizedSegment) *MockDiarizedTranscriber {
	m.ResponseMap[key] = segs
	return m
}

// WithError registers a failure for an audio payload.
func (m *MockDiarizedTranscriber) WithError(key string, err error) *MockDiarizedTranscriber {
	m.ErrorMap[key] = err
	return m
}

// Transcribe implements api.DiarizedTranscriber.
func (m *MockDiarizedTranscriber) Transcribe(_ context.Context, audio []byte, mimeType string, refs []model.SpeakerReference) ([]model.DiarizedSegment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := string(audio)
	m.Calls = append(m.Calls, TranscribeCall{Key: key, MimeType: mimeType, Refs: refs})

	if err, ok := m.ErrorMap[key]; ok {
		return nil, err
	}
	return m.ResponseMap[key], nil
}

// CallsFor returns the recorded calls for one audio payload.
func (m *MockDiarizedTranscriber) CallsFor(key string) []TranscribeCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var calls []TranscribeCall
	for _, c := range m.Calls {
		if c.Key == key {
			calls = append(calls, c)
		}
	}
	return calls
}

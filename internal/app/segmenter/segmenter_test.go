package segmenter

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meeting-whisper/internal/app/api"
	"meeting-whisper/internal/app/audio"
)

func TestSegment_InvalidInput(t *testing.T) {
	tests := []struct {
		name            string
		asset           *audio.Asset
		maxChunkSeconds float64
	}{
		{
			name:            "nil_asset",
			asset:           nil,
			maxChunkSeconds: 1200,
		},
		{
			name:            "zero_duration",
			asset:           &audio.Asset{Path: "a.mp3", Duration: 0},
			maxChunkSeconds: 1200,
		},
		{
			name:            "negative_duration",
			asset:           &audio.Asset{Path: "a.mp3", Duration: -5},
			maxChunkSeconds: 1200,
		},
		{
			name:            "non_positive_chunk_duration",
			asset:           &audio.Asset{Path: "a.mp3", Duration: 100},
			maxChunkSeconds: 0,
		},
		{
			name:            "chunk_duration_at_service_limit",
			asset:           &audio.Asset{Path: "a.mp3", Duration: 100},
			maxChunkSeconds: 1400,
		},
		{
			name:            "chunk_duration_above_service_limit",
			asset:           &audio.Asset{Path: "a.mp3", Duration: 100},
			maxChunkSeconds: 2000,
		},
	}

	s := New(1400)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Segment(context.Background(), tt.asset, tt.maxChunkSeconds)
			require.Error(t, err)

			var invalidErr *api.InvalidInputError
			assert.True(t, errors.As(err, &invalidErr), "expected InvalidInputError, got %T", err)
		})
	}
}

func TestSegment_SingleChunk(t *testing.T) {
	s := New(1400)
	asset := &audio.Asset{Path: "short.mp3", Duration: 600}

	chunks, err := s.Segment(context.Background(), asset, 1200)
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 0.0, chunks[0].StartOffset)
	assert.Same(t, asset, chunks[0].Asset, "a fitting asset is returned whole, not re-encoded")
}

func TestSegment_SingleChunk_ExactFit(t *testing.T) {
	s := New(1400)
	asset := &audio.Asset{Path: "exact.mp3", Duration: 1200}

	chunks, err := s.Segment(context.Background(), asset, 1200)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 0.0, chunks[0].StartOffset)
}

func TestBoundaries_Tiling(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		max      float64
	}{
		{"even_split", 2400, 1200},
		{"short_tail", 2500, 1200},
		{"barely_over", 1200.5, 1200},
		{"many_chunks", 7201, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bounds := boundaries(tt.duration, tt.max)

			expected := int(math.Ceil(tt.duration / tt.max))
			require.Len(t, bounds, expected)

			// Intervals tile [0, duration) with no gap or overlap.
			assert.Equal(t, 0.0, bounds[0][0])
			assert.Equal(t, tt.duration, bounds[len(bounds)-1][1])
			for i := 1; i < len(bounds); i++ {
				assert.Equal(t, bounds[i-1][1], bounds[i][0])
				assert.Equal(t, tt.max, bounds[i][0]-bounds[i-1][0])
			}
			for _, b := range bounds {
				assert.Less(t, b[0], b[1])
				assert.LessOrEqual(t, b[1]-b[0], tt.max)
			}
		})
	}
}

func TestBoundaries_EndToEndScenario(t *testing.T) {
	// 2500s at 1200s per chunk gives 1200 + 1200 + 100.
	bounds := boundaries(2500, 1200)
	require.Len(t, bounds, 3)
	assert.Equal(t, [2]float64{0, 1200}, bounds[0])
	assert.Equal(t, [2]float64{1200, 2400}, bounds[1])
	assert.Equal(t, [2]float64{2400, 2500}, bounds[2])
}

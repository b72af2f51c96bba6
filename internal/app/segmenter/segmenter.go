package segmenter

import (
	"context"
	"fmt"
	"math"

	"meeting-whisper/internal/app/api"
	"meeting-whisper/internal/app/audio"
)

// Chunk is one bounded-duration slice of the source audio in original-timeline
// coordinates.
type Chunk struct {
	Index       int
	StartOffset float64
	Asset       *audio.Asset
}

// String returns a human-readable representation for logging.
func (c Chunk) String() string {
	return fmt.Sprintf("chunk %d: %.2fs - %.2fs", c.Index, c.StartOffset, c.StartOffset+c.Asset.Duration)
}

// Segmenter partitions audio assets into chunks the remote service accepts.
// serviceLimit is the hard per-request duration ceiling of the service;
// chunks never reach it.
type Segmenter struct {
	serviceLimit float64
}

func New(serviceLimitSeconds float64) *Segmenter {
	return &Segmenter{serviceLimit: serviceLimitSeconds}
}

// Segment partitions [0, asset.Duration) into consecutive non-overlapping
// intervals of maxChunkSeconds each, the last possibly shorter. An asset that
// already fits in one chunk is returned whole, without re-encoding.
// Multi-chunk slices are temp assets owned by the caller.
func (s *Segmenter) Segment(ctx context.Context, asset *audio.Asset, maxChunkSeconds float64) ([]Chunk, error) {
	if asset == nil || asset.Duration <= 0 {
		return nil, api.NewInvalidInputError("audio asset has zero or negative duration")
	}
	if maxChunkSeconds <= 0 {
		return nil, api.NewInvalidInputError("max chunk duration must be positive, got %.2fs", maxChunkSeconds)
	}
	if maxChunkSeconds >= s.serviceLimit {
		return nil, api.NewInvalidInputError(
			"max chunk duration %.2fs must stay strictly below the service limit of %.2fs",
			maxChunkSeconds, s.serviceLimit)
	}

	if asset.Duration <= maxChunkSeconds {
		return []Chunk{{Index: 0, StartOffset: 0, Asset: asset}}, nil
	}

	bounds := boundaries(asset.Duration, maxChunkSeconds)
	chunks := make([]Chunk, 0, len(bounds))

	for i, b := range bounds {
		slice, err := asset.Slice(ctx, b[0], b[1])
		if err != nil {
			Cleanup(chunks)
			return nil, fmt.Errorf("failed to slice chunk %d: %w", i, err)
		}

		chunks = append(chunks, Chunk{Index: i, StartOffset: b[0], Asset: slice})
	}

	return chunks, nil
}

// boundaries tiles [0, duration) with maxChunkSeconds-long intervals, the
// last one shorter when duration is not a multiple.
func boundaries(duration, maxChunkSeconds float64) [][2]float64 {
	count := int(math.Ceil(duration / maxChunkSeconds))
	bounds := make([][2]float64, 0, count)
	for i := 0; i < count; i++ {
		start := float64(i) * maxChunkSeconds
		end := math.Min(start+maxChunkSeconds, duration)
		bounds = append(bounds, [2]float64{start, end})
	}
	return bounds
}

// Cleanup removes the temp files behind sliced chunks. Whole-source chunks
// are untouched.
func Cleanup(chunks []Chunk) {
	for _, c := range chunks {
		c.Asset.Remove()
	}
}

package coordinator

import (
	"sort"
	"sync"

	"meeting-whisper/internal/app/model"
)

// RunStats accumulates per-chunk outcomes during a run. Residual chunks may
// report concurrently.
type RunStats struct {
	mu     sync.Mutex
	chunks map[int]*ChunkStats
}

// ChunkStats describes one chunk's outcome, including the per-speaker talk
// time used to spot label drift across chunk boundaries.
type ChunkStats struct {
	Index     int
	Failed    bool
	Segments  int
	LatencyMs int64
	TalkTime  map[string]float64
}

func NewRunStats() *RunStats {
	return &RunStats{chunks: make(map[int]*ChunkStats)}
}

// RecordSuccess registers a completed chunk and its speaker histogram.
func (rs *RunStats) RecordSuccess(index int, segments []model.DiarizedSegment, latencyMs int64) {
	talk := make(map[string]float64)
	for _, seg := range segments {
		talk[seg.Speaker] += seg.Duration()
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.chunks[index] = &ChunkStats{
		Index:     index,
		Segments:  len(segments),
		LatencyMs: latencyMs,
		TalkTime:  talk,
	}
}

// RecordFailure registers a chunk whose transcription failed after retries.
func (rs *RunStats) RecordFailure(index int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.chunks[index] = &ChunkStats{Index: index, Failed: true}
}

// Chunks returns per-chunk stats in index order.
func (rs *RunStats) Chunks() []ChunkStats {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	out := make([]ChunkStats, 0, len(rs.chunks))
	for _, cs := range rs.chunks {
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// FailedChunks returns the indices of failed chunks in ascending order.
func (rs *RunStats) FailedChunks() []int {
	var failed []int
	for _, cs := range rs.Chunks() {
		if cs.Failed {
			failed = append(failed, cs.Index)
		}
	}
	return failed
}

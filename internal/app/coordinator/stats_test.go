package coordinator

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meeting-whisper/internal/app/model"
)

func TestRunStats_TalkTimeHistogram(t *testing.T) {
	rs := NewRunStats()

	rs.RecordSuccess(0, []model.DiarizedSegment{
		{Speaker: "Speaker A", Start: 0, End: 4},
		{Speaker: "Speaker B", Start: 4, End: 6},
		{Speaker: "Speaker A", Start: 6, End: 9},
	}, 1500)

	chunks := rs.Chunks()
	require.Len(t, chunks, 1)
	assert.Equal(t, 3, chunks[0].Segments)
	assert.Equal(t, int64(1500), chunks[0].LatencyMs)
	assert.Equal(t, 7.0, chunks[0].TalkTime["Speaker A"])
	assert.Equal(t, 2.0, chunks[0].TalkTime["Speaker B"])
}

func TestRunStats_FailedChunksSorted(t *testing.T) {
	rs := NewRunStats()
	rs.RecordSuccess(0, nil, 10)
	rs.RecordFailure(3)
	rs.RecordSuccess(2, nil, 10)
	rs.RecordFailure(1)

	assert.Equal(t, []int{1, 3}, rs.FailedChunks())

	chunks := rs.Chunks()
	require.Len(t, chunks, 4)
	for i, cs := range chunks {
		assert.Equal(t, i, cs.Index)
	}
}

func TestRunStats_ConcurrentRecording(t *testing.T) {
	rs := NewRunStats()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			if index%4 == 0 {
				rs.RecordFailure(index)
				return
			}
			rs.RecordSuccess(index, []model.DiarizedSegment{
				{Speaker: "Speaker A", Start: 0, End: 1},
			}, int64(index))
		}(i)
	}
	wg.Wait()

	assert.Len(t, rs.Chunks(), 32)
	assert.Len(t, rs.FailedChunks(), 8)
}

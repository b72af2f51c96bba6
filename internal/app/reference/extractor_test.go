package reference

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meeting-whisper/internal/app/audio"
	"meeting-whisper/internal/app/model"
)

func seg(speaker string, start, end float64) model.DiarizedSegment {
	return model.DiarizedSegment{Speaker: speaker, Text: "t", Start: start, End: end}
}

func TestCandidates_RanksByTalkTime(t *testing.T) {
	e := NewExtractor(2, 10, nil)

	// Bob talks 15s total, Alice 8s, Carol 3s.
	segments := []model.DiarizedSegment{
		seg("Alice", 0, 5),
		seg("Bob", 5, 12),
		seg("Carol", 12, 15),
		seg("Bob", 15, 23),
		seg("Alice", 23, 26),
	}

	cands := e.candidates(segments, 4)
	require.Len(t, cands, 3)
	assert.Equal(t, "Bob", cands[0].label)
	assert.Equal(t, "Alice", cands[1].label)
	assert.Equal(t, "Carol", cands[2].label)
}

func TestCandidates_TieBrokenByFirstAppearance(t *testing.T) {
	e := NewExtractor(2, 10, nil)

	segments := []model.DiarizedSegment{
		seg("Second", 0, 5),
		seg("First", 5, 10),
	}
	// Equal talk time: order of first appearance wins.
	cands := e.candidates(segments, 2)
	require.Len(t, cands, 2)
	assert.Equal(t, "Second", cands[0].label)
	assert.Equal(t, "First", cands[1].label)
}

func TestCandidates_CapsSpeakerCount(t *testing.T) {
	e := NewExtractor(2, 10, nil)

	segments := []model.DiarizedSegment{
		seg("A", 0, 9),
		seg("B", 9, 17),
		seg("C", 17, 24),
		seg("D", 24, 30),
		seg("E", 30, 35),
	}

	cands := e.candidates(segments, 4)
	require.Len(t, cands, 4)
	for _, c := range cands {
		assert.NotEqual(t, "E", c.label, "lowest talk time speaker must be dropped")
	}
}

func TestCandidates_PicksFirstQualifyingSegment(t *testing.T) {
	e := NewExtractor(2, 10, nil)

	segments := []model.DiarizedSegment{
		seg("Alice", 0, 0.5),  // too short
		seg("Alice", 1, 14),   // too long
		seg("Alice", 20, 25),  // first fit
		seg("Alice", 30, 33),  // also fits, but later
	}

	cands := e.candidates(segments, 1)
	require.Len(t, cands, 1)
	assert.Equal(t, 20.0, cands[0].segment.Start)
	assert.Equal(t, 25.0, cands[0].segment.End)
}

func TestCandidates_SkipsSpeakerWithoutQualifyingSegment(t *testing.T) {
	e := NewExtractor(2, 10, nil)

	// Mumbler dominates talk time but only in one 30s block.
	segments := []model.DiarizedSegment{
		seg("Mumbler", 0, 30),
		seg("Alice", 30, 34),
	}

	cands := e.candidates(segments, 4)
	require.Len(t, cands, 1)
	assert.Equal(t, "Alice", cands[0].label)
}

func TestBuild_EmptyInputs(t *testing.T) {
	e := NewExtractor(2, 10, nil)
	asset := &audio.Asset{Path: "a.mp3", Duration: 60}

	assert.Nil(t, e.Build(context.Background(), nil, asset, 4))
	assert.Nil(t, e.Build(context.Background(), []model.DiarizedSegment{seg("A", 0, 5)}, nil, 4))
	assert.Nil(t, e.Build(context.Background(), []model.DiarizedSegment{seg("A", 0, 5)}, asset, 0))
}

func TestNewExtractor_Defaults(t *testing.T) {
	e := NewExtractor(0, -1, nil)
	assert.Equal(t, float64(DefaultMinSeconds), e.minSeconds)
	assert.Equal(t, float64(DefaultMaxSeconds), e.maxSeconds)
}

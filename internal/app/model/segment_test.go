package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge_AddsOffset(t *testing.T) {
	seg := DiarizedSegment{Speaker: "Speaker A", Text: "there", Start: 3, End: 5}

	merged := Merge(seg, 1200)
	assert.Equal(t, MergedSegment{Speaker: "Speaker A", Text: "there", Start: 1203, End: 1205}, merged)
}

func TestMerge_ZeroOffsetPreservesTimestamps(t *testing.T) {
	seg := DiarizedSegment{Speaker: "Speaker B", Text: "hi", Start: 0.25, End: 1.75}

	merged := Merge(seg, 0)
	assert.Equal(t, 0.25, merged.Start)
	assert.Equal(t, 1.75, merged.End)
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 2.5, DiarizedSegment{Start: 1.5, End: 4}.Duration())
	assert.Equal(t, 0.0, DiarizedSegment{}.Duration())
}

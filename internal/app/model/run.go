package model

import "time"

// Run is one recorded transcription run.
type Run struct {
	ID            string
	Source        string
	AudioDuration float64
	ChunkCount    int
	FailedChunks  string // comma-separated chunk indices, empty when none failed
	Transcript    string
	FinishedAt    time.Time
	HasError      int
	ErrorMessage  string
}

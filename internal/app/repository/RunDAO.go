package repository

import "meeting-whisper/internal/app/model"

// RunDAO persists the run ledger: one row per transcription run, successful
// or failed.
type RunDAO interface {
	Close() error

	RecordRun(run model.Run) error

	GetAllBySource(source string) ([]model.Run, error)
}

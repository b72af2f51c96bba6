package pg

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meeting-whisper/internal/app/model"
)

func TestRecordRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	pdb := NewPostgresDBFromConn(db)

	finished := time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)
	run := model.Run{
		ID:            "run-1",
		Source:        "meeting.mp3",
		AudioDuration: 2500,
		ChunkCount:    3,
		FailedChunks:  "1,2",
		Transcript:    "transcript text",
		FinishedAt:    finished,
	}

	mock.ExpectExec("INSERT INTO runs").
		WithArgs("run-1", "meeting.mp3", 2500.0, 3, "1,2", "transcript text", finished, 0, "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, pdb.RecordRun(run))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRun_InsertFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	pdb := NewPostgresDBFromConn(db)

	mock.ExpectExec("INSERT INTO runs").WillReturnError(assert.AnError)

	err = pdb.RecordRun(model.Run{ID: "run-1", FinishedAt: time.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert run")
}

func TestGetAllBySource(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	pdb := NewPostgresDBFromConn(db)

	finished := time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "source", "audio_duration", "chunk_count", "failed_chunks",
		"transcript", "finished_at", "has_error", "error_message",
	}).AddRow("run-1", "meeting.mp3", 2500.0, 3, "", "text", finished, 0, "")

	mock.ExpectQuery("SELECT (.+) FROM runs").
		WithArgs("meeting.mp3").
		WillReturnRows(rows)

	runs, err := pdb.GetAllBySource("meeting.mp3")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, 2500.0, runs[0].AudioDuration)
	assert.True(t, runs[0].FinishedAt.Equal(finished))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllBySource_QueryFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	pdb := NewPostgresDBFromConn(db)

	mock.ExpectQuery("SELECT (.+) FROM runs").WillReturnError(assert.AnError)

	_, err = pdb.GetAllBySource("meeting.mp3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query failed")
}

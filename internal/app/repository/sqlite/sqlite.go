package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"meeting-whisper/internal/app/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	audio_duration REAL NOT NULL,
	chunk_count INTEGER NOT NULL,
	failed_chunks TEXT NOT NULL DEFAULT '',
	transcript TEXT NOT NULL DEFAULT '',
	finished_at TIMESTAMP NOT NULL,
	has_error INTEGER NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT ''
);`

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(dbFilePath string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc", dbFilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create runs table: %w", err)
	}
	return &SQLiteDB{db: db}, nil
}

func (sdb *SQLiteDB) Close() error {
	return sdb.db.Close()
}

func (sdb *SQLiteDB) RecordRun(run model.Run) error {
	insertSQL := `INSERT INTO runs (id, source, audio_duration, chunk_count, failed_chunks, transcript, finished_at, has_error, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`
	_, err := sdb.db.Exec(insertSQL, run.ID, run.Source, run.AudioDuration, run.ChunkCount,
		run.FailedChunks, run.Transcript, run.FinishedAt, run.HasError, run.ErrorMessage)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

func (sdb *SQLiteDB) GetAllBySource(source string) ([]model.Run, error) {
	query := `
		SELECT id, source, audio_duration, chunk_count, failed_chunks, transcript, finished_at, has_error, error_message
		FROM runs
		WHERE source = ?
		ORDER BY finished_at DESC;`
	rows, err := sdb.db.Query(query, source)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	runs := make([]model.Run, 0)
	for rows.Next() {
		var r model.Run
		err = rows.Scan(&r.ID, &r.Source, &r.AudioDuration, &r.ChunkCount, &r.FailedChunks,
			&r.Transcript, &r.FinishedAt, &r.HasError, &r.ErrorMessage)
		if err != nil {
			return nil, fmt.Errorf("db scan failed: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

package app

import (
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"meeting-whisper/internal/app/api"
	"meeting-whisper/internal/app/api/diarize"
	"meeting-whisper/internal/app/logging"
	"meeting-whisper/internal/app/reference"
	"meeting-whisper/internal/app/repository"
	"meeting-whisper/internal/app/repository/pg"
	"meeting-whisper/internal/app/repository/sqlite"
	"meeting-whisper/internal/app/segmenter"
	"meeting-whisper/internal/app/util/files"
	"meeting-whisper/internal/config"
)

func provideSettings() config.Settings {
	settings, err := config.LoadSettings(os.Getenv("M2T_SETTINGS"))
	if err != nil {
		log.Fatalf("Failed to load settings: %v\n", err)
	}
	return settings
}

func provideLogger() *zap.Logger {
	return logging.MustNewLogger(os.Getenv("M2T_DEV") != "")
}

// provideTranscriber builds the OpenAI diarizing client. OPENAI_API_KEY must
// be set; this fails before any network call is attempted.
func provideTranscriber(settings config.Settings, logger *zap.Logger) api.DiarizedTranscriber {
	key, err := config.RequireAPIKey()
	if err != nil {
		log.Fatalf("Configuration error: %v\n", err)
	}

	return diarize.NewClient(diarize.Config{
		APIKey:     key,
		Model:      settings.Model,
		MaxRetries: settings.MaxRetries,
	}, logger)
}

func provideSegmenter(settings config.Settings) *segmenter.Segmenter {
	return segmenter.New(settings.ServiceLimitSeconds)
}

func provideExtractor(settings config.Settings, logger *zap.Logger) *reference.Extractor {
	return reference.NewExtractor(settings.RefMinSeconds, settings.RefMaxSeconds, logger)
}

func provideRunDAO(settings config.Settings) repository.RunDAO {
	if settings.DBType == "postgres" {
		connStr := os.Getenv("DATABASE_URL")
		if connStr == "" {
			log.Fatal("DB_TYPE=postgres requires DATABASE_URL to be set")
		}
		db, err := pg.NewPostgresDB(connStr)
		if err != nil {
			log.Fatalf("Failed to open postgres run ledger: %v\n", err)
		}
		return db
	}

	projectRoot, err := files.GetProjectRoot()
	if err != nil {
		log.Fatalf("Failed to get project root: %v\n", err)
	}
	dataDir, err := files.EnsureDataDir(projectRoot)
	if err != nil {
		log.Fatalf("Failed to prepare data directory: %v\n", err)
	}

	db, err := sqlite.NewSQLiteDB(filepath.Join(dataDir, "m2t.db"))
	if err != nil {
		log.Fatalf("Failed to open sqlite run ledger: %v\n", err)
	}
	return db
}

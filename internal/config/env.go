package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from a .env file if one exists. Missing
// files are not an error; keys may be set system-wide.
func LoadEnv() error {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	return nil
}

// RequireAPIKey retrieves and validates the OpenAI API key. It fails fast:
// the transcription service is useless without credentials, so this is
// checked before any network call is attempted.
func RequireAPIKey() (string, error) {
	key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if key == "" {
		return "", fmt.Errorf("OPENAI_API_KEY is not set - add it to your environment or a .env file")
	}
	if !strings.HasPrefix(key, "sk-") {
		return "", fmt.Errorf("invalid OPENAI_API_KEY format: must start with 'sk-'")
	}
	if len(key) < 20 {
		return "", fmt.Errorf("invalid OPENAI_API_KEY format: too short")
	}
	return key, nil
}

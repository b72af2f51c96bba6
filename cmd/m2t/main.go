package main

import (
	"fmt"
	"os"

	"meeting-whisper/cmd/m2t/cmd"
	"meeting-whisper/internal/config"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration warning: %v\n", err)
	}

	cmd.Execute()
}

package transcribe

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"meeting-whisper/internal/app"
	"meeting-whisper/internal/app/coordinator"
	"meeting-whisper/internal/app/transcript"
	"meeting-whisper/internal/config"
)

var inputFile string
var outputFile string
var parallel int
var showAll bool

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "",
		"input audio file (mp3, m4a, wav, flac, ogg, webm)")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "transcription_output.txt",
		"output transcript file, overwritten on each run")
	Cmd.Flags().IntVarP(&parallel, "parallel", "p", 0,
		"number of chunks transcribed concurrently (0 uses the configured default)")
	Cmd.Flags().BoolVar(&showAll, "show-all", false,
		"print every segment to the console instead of eliding long transcripts")

	Cmd.MarkFlagRequired("input")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Transcribe an audio file with speaker diarization",
	Long: `Transcribe an audio file with speaker diarization

- Splits audio longer than the service limit into chunks
- Anchors the most-heard speakers of the first chunk with voice references
- Merges all chunk results into one speaker-attributed timeline`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings(os.Getenv("M2T_SETTINGS"))
		if err != nil {
			return err
		}
		if parallel > 0 {
			settings.Parallel = parallel
		}

		coord := app.InitializeCoordinator()
		defer coord.Close()

		opts := coordinator.Options{
			MaxChunkSeconds: settings.MaxChunkSeconds,
			MaxSpeakers:     settings.MaxSpeakerRefs,
			Parallel:        settings.Parallel,
			Progress:        coordinator.ProgressConfig{Enabled: coordinator.ShouldShowProgress(false)},
		}

		result, err := coord.Run(cmd.Context(), inputFile, outputFile, opts)
		if err != nil {
			return err
		}

		transcript.Print(os.Stdout, result.Lines, showAll)

		fmt.Printf("\nTranscription finished: %.2fs of audio, %d chunk(s), %d speaker reference(s)\n",
			result.AudioDuration, result.ChunkCount, result.References)
		if len(result.FailedChunks) > 0 {
			fmt.Printf("WARNING: chunks %v failed and are missing from the transcript\n", result.FailedChunks)
		}
		fmt.Printf("Transcript saved to: %s\n", outputFile)
		return nil
	},
}

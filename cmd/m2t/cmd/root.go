package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"meeting-whisper/cmd/m2t/cmd/export"
	"meeting-whisper/cmd/m2t/cmd/transcribe"
	"meeting-whisper/cmd/m2t/cmd/version"
)

var Verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "m2t",
	Short: "Transcribe long recordings into speaker-attributed, time-stamped text",
	Long: `Transcribe long recordings into speaker-attributed, time-stamped text.

- Splits audio into chunks the diarizing service accepts
- Keeps speaker labels consistent across chunks via voice references
- Records every run to a local ledger for later export`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
}

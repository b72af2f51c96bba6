package export

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"meeting-whisper/internal/app/export"
	"meeting-whisper/internal/app/repository/sqlite"
	"meeting-whisper/internal/app/util/files"
)

var source string
var outputFilePath string

func init() {
	Cmd.Flags().StringVarP(&source, "source", "s", "", "source audio file the runs were recorded for")
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")

	Cmd.MarkFlagRequired("source")
	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs for a source file to excel",
	RunE: func(cmd *cobra.Command, args []string) error {
		projectRoot, err := files.GetProjectRoot()
		if err != nil {
			log.Fatalf("Failed to get project root: %v\n", err)
		}

		db, err := sqlite.NewSQLiteDB(filepath.Join(projectRoot, "data/m2t.db"))
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.GetAllBySource(source)
		if err != nil {
			return err
		}

		if err := export.ToExcel(runs, outputFilePath); err != nil {
			return err
		}
		fmt.Printf("export finished, exported file path: %v\n", outputFilePath)
		return nil
	},
}

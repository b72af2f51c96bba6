package export

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx"

	"meeting-whisper/internal/app/model"
)

// ToExcel writes the given runs to an xlsx workbook, one row per run.
func ToExcel(runs []model.Run, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Runs")
	if err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "ID"
	headerRow.AddCell().Value = "Source"
	headerRow.AddCell().Value = "Finished At"
	headerRow.AddCell().Value = "Audio Duration"
	headerRow.AddCell().Value = "Chunks"
	headerRow.AddCell().Value = "Failed Chunks"
	headerRow.AddCell().Value = "Transcript"
	headerRow.AddCell().Value = "Error Message"

	for _, r := range runs {
		row := sheet.AddRow()
		row.AddCell().Value = r.ID
		row.AddCell().Value = r.Source
		row.AddCell().Value = r.FinishedAt.Format(time.RFC3339)
		row.AddCell().Value = fmt.Sprintf("%.2f", r.AudioDuration)
		row.AddCell().Value = fmt.Sprint(r.ChunkCount)
		row.AddCell().Value = r.FailedChunks
		row.AddCell().Value = r.Transcript
		row.AddCell().Value = r.ErrorMessage
	}

	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("failed to save %s: %w", outputFilePath, err)
	}
	return nil
}

package transcript

import (
	"fmt"
	"io"
	"os"
	"strings"

	"meeting-whisper/internal/app/model"
)

// Format renders merged segments as display lines, one per segment, in the
// order given. Callers are responsible for ordering; formatting never
// re-sorts.
func Format(segments []model.MergedSegment) []string {
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		lines = append(lines, fmt.Sprintf("[%.2fs - %.2fs] %s: %s", seg.Start, seg.End, seg.Speaker, seg.Text))
	}
	return lines
}

// Write persists the lines as UTF-8 text with a trailing newline, fully
// overwriting any prior content.
func Write(path string, lines []string) error {
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write transcript to %s: %w", path, err)
	}
	return nil
}

// Print writes the lines to w. Long transcripts are elided to the first and
// last ten lines unless showAll is set; the persisted file always carries
// every line.
func Print(w io.Writer, lines []string, showAll bool) {
	if showAll || len(lines) <= 20 {
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
		return
	}

	fmt.Fprintf(w, "Showing first 10 and last 10 of %d segments...\n\n", len(lines))
	for _, line := range lines[:10] {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "\n... [%d segments omitted] ...\n\n", len(lines)-20)
	for _, line := range lines[len(lines)-10:] {
		fmt.Fprintln(w, line)
	}
}

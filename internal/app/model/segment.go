package model

// DiarizedSegment is one speaker-attributed piece of speech as returned by the
// transcription service. Start and End are seconds in the local timeline of
// the chunk that produced it.
type DiarizedSegment struct {
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// Duration returns the segment length in seconds.
func (s DiarizedSegment) Duration() float64 {
	return s.End - s.Start
}

// MergedSegment has the same shape as DiarizedSegment but its timestamps are
// expressed in the global timeline of the source recording.
type MergedSegment struct {
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// Merge lifts a local-timeline segment into the global timeline by adding the
// chunk's start offset. Speaker and text are unchanged.
func Merge(seg DiarizedSegment, offset float64) MergedSegment {
	return MergedSegment{
		Speaker: seg.Speaker,
		Text:    seg.Text,
		Start:   seg.Start + offset,
		End:     seg.End + offset,
	}
}

// SpeakerReference is a short voice clip for one speaker, sent along with
// residual chunks to keep that speaker's label stable across chunks.
// Built once from chunk 0 and read-only afterwards.
type SpeakerReference struct {
	Label    string
	Audio    []byte
	MimeType string
}

package reference

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"meeting-whisper/internal/app/audio"
	"meeting-whisper/internal/app/model"
)

const (
	// Reference clips must be long enough to carry a voiceprint and short
	// enough for the service to accept them.
	DefaultMinSeconds = 2
	DefaultMaxSeconds = 10
)

// Extractor selects short voice clips for the most-heard speakers of a chunk.
// The clips anchor those speakers' labels across all later chunks.
type Extractor struct {
	minSeconds float64
	maxSeconds float64
	logger     *zap.Logger
}

func NewExtractor(minSeconds, maxSeconds float64, logger *zap.Logger) *Extractor {
	if minSeconds <= 0 {
		minSeconds = DefaultMinSeconds
	}
	if maxSeconds <= 0 {
		maxSeconds = DefaultMaxSeconds
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{minSeconds: minSeconds, maxSeconds: maxSeconds, logger: logger}
}

// Build ranks speakers by aggregate talk time, keeps the top maxSpeakers, and
// extracts for each the first segment whose own duration fits the clip
// bounds. Speakers with no qualifying segment are skipped. Build never fails:
// partial or empty results are valid, and slicing errors only cost the
// affected speaker its reference.
func (e *Extractor) Build(ctx context.Context, segments []model.DiarizedSegment, source *audio.Asset, maxSpeakers int) []model.SpeakerReference {
	if len(segments) == 0 || source == nil || maxSpeakers <= 0 {
		return nil
	}

	refs := make([]model.SpeakerReference, 0, maxSpeakers)
	for _, cand := range e.candidates(segments, maxSpeakers) {
		label, seg := cand.label, cand.segment

		clip, err := source.Slice(ctx, seg.Start, seg.End)
		if err != nil {
			e.logger.Warn("failed to slice reference clip, leaving speaker unanchored",
				zap.String("speaker", label), zap.Error(err))
			continue
		}

		data, mime, err := clip.Export()
		clip.Remove()
		if err != nil {
			e.logger.Warn("failed to export reference clip, leaving speaker unanchored",
				zap.String("speaker", label), zap.Error(err))
			continue
		}

		e.logger.Info("built speaker reference",
			zap.String("speaker", label),
			zap.Float64("start", seg.Start),
			zap.Float64("end", seg.End))

		refs = append(refs, model.SpeakerReference{Label: label, Audio: data, MimeType: mime})
	}

	return refs
}

type candidate struct {
	label   string
	segment model.DiarizedSegment
}

// candidates ranks speakers descending by aggregate talk time (ties broken by
// first appearance) and pairs each of the top maxSpeakers with its first
// segment whose duration fits the clip bounds. Speakers with no qualifying
// segment are dropped here and stay unanchored.
func (e *Extractor) candidates(segments []model.DiarizedSegment, maxSpeakers int) []candidate {
	grouped := lo.GroupBy(segments, func(s model.DiarizedSegment) string { return s.Speaker })

	labels := lo.Uniq(lo.Map(segments, func(s model.DiarizedSegment, _ int) string { return s.Speaker }))
	totals := make(map[string]float64, len(labels))
	for label, segs := range grouped {
		totals[label] = lo.SumBy(segs, func(s model.DiarizedSegment) float64 { return s.Duration() })
	}

	sort.SliceStable(labels, func(i, j int) bool {
		return totals[labels[i]] > totals[labels[j]]
	})
	if len(labels) > maxSpeakers {
		labels = labels[:maxSpeakers]
	}

	cands := make([]candidate, 0, len(labels))
	for _, label := range labels {
		seg, found := lo.Find(grouped[label], func(s model.DiarizedSegment) bool {
			d := s.Duration()
			return d >= e.minSeconds && d <= e.maxSeconds
		})
		if !found {
			e.logger.Info("speaker has no qualifying reference segment, leaving unanchored",
				zap.String("speaker", label),
				zap.Float64("talkTime", totals[label]))
			continue
		}
		cands = append(cands, candidate{label: label, segment: seg})
	}
	return cands
}

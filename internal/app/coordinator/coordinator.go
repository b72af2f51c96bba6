package coordinator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"meeting-whisper/internal/app/api"
	"meeting-whisper/internal/app/audio"
	"meeting-whisper/internal/app/model"
	"meeting-whisper/internal/app/reference"
	"meeting-whisper/internal/app/repository"
	"meeting-whisper/internal/app/segmenter"
	"meeting-whisper/internal/app/transcript"
)

// Options controls a single transcription run.
type Options struct {
	MaxChunkSeconds float64
	MaxSpeakers     int
	Parallel        int
	Progress        ProgressConfig
}

// Result is the outcome of a run. FailedChunks lists residual chunks that
// contributed no segments; the transcript still covers every chunk that
// completed.
type Result struct {
	RunID         string
	Segments      []model.MergedSegment
	Lines         []string
	AudioDuration float64
	ChunkCount    int
	References    int
	FailedChunks  []int
	Stats         *RunStats
}

// ChunkSegmenter partitions an asset into service-sized chunks.
// *segmenter.Segmenter is the production implementation.
type ChunkSegmenter interface {
	Segment(ctx context.Context, asset *audio.Asset, maxChunkSeconds float64) ([]segmenter.Chunk, error)
}

// ReferenceBuilder derives speaker references from chunk 0's segments.
// *reference.Extractor is the production implementation.
type ReferenceBuilder interface {
	Build(ctx context.Context, segments []model.DiarizedSegment, source *audio.Asset, maxSpeakers int) []model.SpeakerReference
}

// Coordinator drives the whole pipeline: segmentation, first-chunk
// transcription, reference extraction, concurrent residual transcription,
// and offset-additive merging into one timeline.
//
// Chunk 0 always completes (including reference extraction) before any
// residual chunk starts: the reference set is a hard input of every residual
// call. After that the reference set is immutable, so residual chunks share
// nothing but read-only data and their own result slot.
type Coordinator struct {
	transcriber api.DiarizedTranscriber
	segmenter   ChunkSegmenter
	extractor   ReferenceBuilder
	db          repository.RunDAO
	logger      *zap.Logger

	loadAsset func(ctx context.Context, path string) (*audio.Asset, error)
}

func New(transcriber api.DiarizedTranscriber, seg *segmenter.Segmenter, ext *reference.Extractor,
	db repository.RunDAO, logger *zap.Logger) *Coordinator {
	return newCoordinator(transcriber, seg, ext, db, logger)
}

func newCoordinator(transcriber api.DiarizedTranscriber, seg ChunkSegmenter, ext ReferenceBuilder,
	db repository.RunDAO, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		transcriber: transcriber,
		segmenter:   seg,
		extractor:   ext,
		db:          db,
		logger:      logger,
		loadAsset:   audio.LoadAsset,
	}
}

func (c *Coordinator) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Run transcribes inputPath and, when outputPath is non-empty, persists the
// formatted transcript there. Residual chunk failures do not abort the run;
// chunk 0 failures and input validation errors do, before any output is
// written.
func (c *Coordinator) Run(ctx context.Context, inputPath, outputPath string, opts Options) (*Result, error) {
	if opts.Parallel <= 0 {
		opts.Parallel = 1
	}

	asset, err := c.loadAsset(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	c.logger.Info("loaded audio asset",
		zap.String("path", asset.Path),
		zap.Float64("durationSeconds", asset.Duration))

	chunks, err := c.segmenter.Segment(ctx, asset, opts.MaxChunkSeconds)
	if err != nil {
		return nil, err
	}
	defer segmenter.Cleanup(chunks)

	runID := uuid.NewString()
	stats := NewRunStats()

	// FIRST_CHUNK: transcribed without references; everything downstream
	// depends on it.
	firstSegs, err := c.transcribeChunk(ctx, chunks[0], nil, stats)
	if err != nil {
		c.recordRun(runID, inputPath, asset.Duration, len(chunks), nil, "", err)
		return nil, fmt.Errorf("chunk 0 transcription failed: %w", err)
	}

	var refs []model.SpeakerReference
	if len(chunks) > 1 {
		refs = c.extractor.Build(ctx, firstSegs, chunks[0].Asset, opts.MaxSpeakers)
		c.logger.Info("built speaker references",
			zap.Int("references", len(refs)),
			zap.Int("maxSpeakers", opts.MaxSpeakers))
	}

	// One slot per chunk keeps assembly in chunk-index order no matter in
	// which order residual transcriptions finish.
	slots := make([][]model.MergedSegment, len(chunks))
	slots[0] = mergeAll(firstSegs, chunks[0].StartOffset)

	if len(chunks) > 1 {
		c.runResidual(ctx, chunks[1:], refs, slots, stats, opts)
	}

	merged := make([]model.MergedSegment, 0)
	for _, slot := range slots {
		merged = append(merged, slot...)
	}
	// Chunk-order concatenation is already close to timeline order; the
	// stable sort settles boundary overlaps without disturbing within-chunk
	// service order.
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Start < merged[j].Start })

	lines := transcript.Format(merged)
	failed := stats.FailedChunks()

	if outputPath != "" {
		if err := transcript.Write(outputPath, lines); err != nil {
			return nil, err
		}
	}

	c.recordRun(runID, inputPath, asset.Duration, len(chunks), failed, strings.Join(lines, "\n"), nil)
	c.logConsistency(stats)

	if len(failed) > 0 {
		c.logger.Warn("run finished with failed chunks",
			zap.Ints("failedChunks", failed),
			zap.Int("chunkCount", len(chunks)))
	}

	return &Result{
		RunID:         runID,
		Segments:      merged,
		Lines:         lines,
		AudioDuration: asset.Duration,
		ChunkCount:    len(chunks),
		References:    len(refs),
		FailedChunks:  failed,
		Stats:         stats,
	}, nil
}

// runResidual transcribes all chunks after the first with the fixed reference
// set, bounded by opts.Parallel. A failed chunk only loses its own segments.
func (c *Coordinator) runResidual(ctx context.Context, residual []segmenter.Chunk,
	refs []model.SpeakerReference, slots [][]model.MergedSegment, stats *RunStats, opts Options) {

	bar := newProgressBar(opts.Progress, len(residual), "Transcribing chunks")

	var wg sync.WaitGroup
	sem := make(chan bool, opts.Parallel)

	for _, chunk := range residual {
		wg.Add(1)
		go func(chunk segmenter.Chunk) {
			defer wg.Done()
			defer bar.Increment()

			sem <- true
			defer func() { <-sem }()

			segs, err := c.transcribeChunk(ctx, chunk, refs, stats)
			if err != nil {
				c.logger.Error("chunk transcription failed, continuing without it",
					zap.Int("chunk", chunk.Index),
					zap.Error(err))
				return
			}

			slots[chunk.Index] = mergeAll(segs, chunk.StartOffset)
		}(chunk)
	}

	wg.Wait()
	bar.Wait()
}

func (c *Coordinator) transcribeChunk(ctx context.Context, chunk segmenter.Chunk,
	refs []model.SpeakerReference, stats *RunStats) ([]model.DiarizedSegment, error) {

	data, mime, err := chunk.Asset.Export()
	if err != nil {
		stats.RecordFailure(chunk.Index)
		return nil, fmt.Errorf("failed to export %s: %w", chunk, err)
	}

	start := time.Now()
	segs, err := c.transcriber.Transcribe(ctx, data, mime, refs)
	if err != nil {
		stats.RecordFailure(chunk.Index)
		return nil, err
	}

	latency := time.Since(start).Milliseconds()
	stats.RecordSuccess(chunk.Index, segs, latency)

	c.logger.Info("chunk transcribed",
		zap.Int("chunk", chunk.Index),
		zap.Int("segments", len(segs)),
		zap.Int64("latencyMs", latency))

	return segs, nil
}

func mergeAll(segs []model.DiarizedSegment, offset float64) []model.MergedSegment {
	merged := make([]model.MergedSegment, 0, len(segs))
	for _, seg := range segs {
		merged = append(merged, model.Merge(seg, offset))
	}
	return merged
}

// logConsistency logs the per-chunk speaker histogram so label drift across
// chunk boundaries shows up in the run log.
func (c *Coordinator) logConsistency(stats *RunStats) {
	chunks := stats.Chunks()
	if len(chunks) <= 1 {
		return
	}
	for _, cs := range chunks {
		if cs.Failed {
			continue
		}
		c.logger.Info("chunk speaker talk time",
			zap.Int("chunk", cs.Index),
			zap.Int("segments", cs.Segments),
			zap.Any("talkTimeSeconds", cs.TalkTime))
	}
}

func (c *Coordinator) recordRun(runID, source string, duration float64, chunkCount int,
	failed []int, transcriptText string, runErr error) {

	if c.db == nil {
		return
	}

	run := model.Run{
		ID:            runID,
		Source:        source,
		AudioDuration: duration,
		ChunkCount:    chunkCount,
		FailedChunks:  joinInts(failed),
		Transcript:    transcriptText,
		FinishedAt:    time.Now(),
	}
	if runErr != nil {
		run.HasError = 1
		run.ErrorMessage = runErr.Error()
	}

	if err := c.db.RecordRun(run); err != nil {
		c.logger.Warn("failed to record run", zap.String("runID", runID), zap.Error(err))
	}
}

func joinInts(values []int) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprint(v))
	}
	return strings.Join(parts, ",")
}

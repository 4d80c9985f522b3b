package shrink

import (
	"fmt"
	"slices"
	"strings"

	"github.com/acm19/imageshrink/internal/logger"
)

// BatchProcessor defines the interface for shrinking a list of files
type BatchProcessor interface {
	// Run shrinks every regular file in paths in case-insensitive order.
	// It returns ErrNoFiles, ErrNoFactor or ErrInvalidFactor before touching any file;
	// per-file failures are recorded in the Report instead.
	Run(paths []string, factor Factor) (Report, error)
	// Process is Run for paths already filtered by RegularFiles.
	Process(files []string, factor Factor) (Report, error)
}

// batchProcessor implements the BatchProcessor interface
type batchProcessor struct {
	downscaler Downscaler
	tagger     ExifTagger
	opts       Options
}

// NewBatchProcessor creates a new BatchProcessor. tagger may be nil.
func NewBatchProcessor(downscaler Downscaler, tagger ExifTagger, opts Options) BatchProcessor {
	return &batchProcessor{
		downscaler: downscaler,
		tagger:     tagger,
		opts:       opts,
	}
}

func (b *batchProcessor) Run(paths []string, factor Factor) (Report, error) {
	return b.Process(RegularFiles(paths), factor)
}

func (b *batchProcessor) Process(files []string, factor Factor) (Report, error) {
	report := Report{Factor: factor}

	if len(files) == 0 {
		return report, ErrNoFiles
	}
	if err := factor.Validate(); err != nil {
		return report, err
	}

	files = slices.Clone(files)
	SortPaths(files)
	logger.Info("Shrinking files", "count", len(files), "factor", factor)

	for i, path := range files {
		b.emit("shrinking", i+1, len(files), path)

		outcome := b.downscaler.Shrink(path, factor)
		if outcome.OK() {
			logger.Info("Shrunk file", "file", outcome.Name, "output", outcome.Output)
			b.tag(outcome, i+1, len(files))
		} else {
			logger.Warn("Unable to shrink file", "file", outcome.Name, "error", outcome.Err)
		}
		report.add(outcome)
	}

	logger.Info("Batch complete", "succeeded", report.SuccessCount, "failed", report.FailCount)
	return report, nil
}

func (b *batchProcessor) tag(outcome Outcome, current, total int) {
	if b.tagger == nil || !b.opts.TagOriginalName {
		return
	}
	b.emit("tagging", current, total, outcome.Output)
	if _, err := b.tagger.TagOriginalName(outcome.Output, outcome.Name); err != nil {
		logger.Warn("Failed to tag output", "file", outcome.Output, "error", err)
	}
}

// emit sends a progress event without blocking the batch
func (b *batchProcessor) emit(stage string, current, total int, file string) {
	if b.opts.ProgressChan == nil {
		return
	}
	select {
	case b.opts.ProgressChan <- ProgressEvent{
		Stage:   stage,
		Current: current,
		Total:   total,
		Message: fmt.Sprintf("%s file %d of %d", strings.ToUpper(stage[:1])+stage[1:], current, total),
		File:    file,
	}:
	default:
		logger.Debug("Progress event dropped (channel full)", "stage", stage)
	}
}

// RegularFiles keeps the paths that exist and are regular files, in their original order
func RegularFiles(paths []string) []string {
	var files []string
	for _, path := range paths {
		if err := isRegularFile(path); err != nil {
			logger.Debug("Ignoring path", "path", path, "reason", err)
			continue
		}
		files = append(files, path)
	}
	return files
}

// SortPaths sorts paths case-insensitively in place. Paths equal ignoring case keep their order.
func SortPaths(paths []string) {
	slices.SortStableFunc(paths, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
}

package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/specialist-portraits/internal/domain"
	"github.com/phrazzld/specialist-portraits/internal/generation"
	"github.com/phrazzld/specialist-portraits/internal/redact"
	"github.com/phrazzld/specialist-portraits/internal/store"
)

// Default pacing values.
const (
	DefaultBatchSize = 5
	DefaultDelay     = 2 * time.Second
)

// Config holds configuration for the orchestrator
type Config struct {
	// BatchSize is the number of records between pauses
	BatchSize int

	// Delay is the pause taken after every BatchSize records
	Delay time.Duration
}

// DefaultConfig returns a Config with the stock pacing
func DefaultConfig() Config {
	return Config{
		BatchSize: DefaultBatchSize,
		Delay:     DefaultDelay,
	}
}

// ImageStore is the subset of store.ImageStore the orchestrator needs.
type ImageStore interface {
	Exists(filename string) (bool, error)
	Write(filename string, data []byte) error
	RelPath(filename string) string
}

// PromptBuilder renders the prompt for one record.
type PromptBuilder interface {
	Build(r domain.Record) string
}

// Orchestrator runs one pass over the specialist collection.
type Orchestrator struct {
	records   store.RecordStore
	images    ImageStore
	generator generation.ImageGenerator
	prompts   PromptBuilder
	sleeper   Sleeper
	config    Config
	logger    *slog.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithSleeper replaces the timer-based sleeper.
func WithSleeper(s Sleeper) Option {
	return func(o *Orchestrator) {
		if s != nil {
			o.sleeper = s
		}
	}
}

// NewOrchestrator creates an Orchestrator with the provided dependencies.
// A non-positive BatchSize falls back to DefaultBatchSize and a negative
// Delay to zero.
func NewOrchestrator(
	records store.RecordStore,
	images ImageStore,
	generator generation.ImageGenerator,
	prompts PromptBuilder,
	config Config,
	logger *slog.Logger,
	opts ...Option,
) (*Orchestrator, error) {
	if records == nil {
		return nil, errors.New("record store cannot be nil")
	}
	if images == nil {
		return nil, errors.New("image store cannot be nil")
	}
	if generator == nil {
		return nil, errors.New("image generator cannot be nil")
	}
	if prompts == nil {
		return nil, errors.New("prompt builder cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.Delay < 0 {
		config.Delay = 0
	}

	o := &Orchestrator{
		records:   records,
		images:    images,
		generator: generator,
		prompts:   prompts,
		sleeper:   TimerSleeper{},
		config:    config,
		logger:    logger.With("component", "batch_orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Run processes every record and saves the collection once. It never
// returns an error: load, per-record and save failures are all reported on
// the returned Report.
func (o *Orchestrator) Run(ctx context.Context) *Report {
	report := &Report{RunID: uuid.New()}
	log := o.logger.With("run_id", report.RunID.String())

	records, err := o.records.Load(ctx)
	if err != nil {
		report.LoadErr = err
		log.ErrorContext(ctx, "Failed to load specialist records",
			"error", redact.Error(err))
	}
	report.Total = len(records)
	report.Results = make([]RecordResult, len(records))
	for i, r := range records {
		name, _ := r.String(domain.FieldName)
		report.Results[i] = RecordResult{Index: i, Name: name, Status: StatusPending}
	}

	if len(records) == 0 {
		log.WarnContext(ctx, "No specialist records found, nothing to do")
		return report
	}

	log.InfoContext(ctx, "Starting image generation",
		"total", report.Total,
		"batch_size", o.config.BatchSize,
		"delay", o.config.Delay.String())

	for i := range records {
		if ctx.Err() != nil {
			report.Interrupted = true
			break
		}

		called := o.processRecord(ctx, log, records, i, &report.Results[i])
		report.count(report.Results[i].Status)

		if called && (i+1)%o.config.BatchSize == 0 && i+1 < len(records) {
			log.InfoContext(ctx, "Rate limiting between batches",
				"processed", i+1,
				"delay", o.config.Delay.String())
			if err := o.sleeper.Sleep(ctx, o.config.Delay); err != nil {
				report.Interrupted = true
				break
			}
		}
	}

	if report.Interrupted {
		for i := range report.Results {
			if report.Results[i].Status == StatusPending {
				report.Results[i].Err = ErrInterrupted
			}
		}
		log.WarnContext(ctx, "Batch interrupted, saving progress",
			"pending", report.Pending())
	}

	// The save must still happen after an interrupt, so it does not inherit
	// the cancellation.
	if err := o.records.Save(context.WithoutCancel(ctx), records); err != nil {
		report.SaveErr = err
		log.ErrorContext(ctx, "Failed to save specialist records",
			"error", redact.Error(err))
	}

	log.InfoContext(ctx, fmt.Sprintf("Generated %d new images out of %d specialists",
		report.Generated, report.Total),
		"generated", report.Generated,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"pending", report.Pending())

	return report
}

// processRecord handles records[i] and fills res. It reports whether the
// image service was called, which is what the pacing counts.
func (o *Orchestrator) processRecord(
	ctx context.Context,
	log *slog.Logger,
	records []domain.Record,
	i int,
	res *RecordResult,
) (called bool) {
	original := records[i].Clone()
	log = log.With("index", i, "name", res.Name)

	defer func() {
		if p := recover(); p != nil {
			records[i] = original
			res.Status = StatusFailed
			res.ImagePath = ""
			res.Err = fmt.Errorf("%w: %v", ErrRecordPanic, p)
			log.ErrorContext(ctx, "Recovered from panic while processing record",
				"error", redact.Error(res.Err))
		}
	}()

	log.DebugContext(ctx, "Processing record", "position", fmt.Sprintf("%d/%d", i+1, len(records)))

	if _, ok := records[i].String(domain.FieldName); !ok {
		if records[i].Has(domain.FieldName) {
			o.fail(ctx, log, res, fmt.Errorf("%w: name must be a string", ErrInvalidName))
			return false
		}
		log.WarnContext(ctx, "Record has no name, using the default filename")
	}

	filename := domain.Filename(records[i])
	res.Filename = filename
	log = log.With("filename", filename)

	exists, err := o.images.Exists(filename)
	if err != nil {
		o.fail(ctx, log, res, fmt.Errorf("%w: %v", ErrImageLookup, err))
		return false
	}
	if exists {
		rel := o.images.RelPath(filename)
		records[i].SetString(domain.FieldImage, rel)
		res.Status = StatusSkipped
		res.ImagePath = rel
		log.InfoContext(ctx, "Image already exists, skipping")
		return false
	}

	prompt := o.prompts.Build(records[i])

	called = true
	data, err := o.generator.Generate(ctx, prompt)
	if err != nil {
		o.fail(ctx, log, res, err)
		return called
	}

	if err := o.images.Write(filename, data); err != nil {
		o.fail(ctx, log, res, fmt.Errorf("%w: %v", ErrImageWrite, err))
		return called
	}

	rel := o.images.RelPath(filename)
	records[i].SetString(domain.FieldImage, rel)
	res.Status = StatusGenerated
	res.ImagePath = rel
	log.InfoContext(ctx, "Generated image", "bytes", len(data), "image", rel)
	return called
}

func (o *Orchestrator) fail(ctx context.Context, log *slog.Logger, res *RecordResult, err error) {
	res.Status = StatusFailed
	res.Err = err
	log.WarnContext(ctx, "Failed to generate image, keeping original record",
		"error", redact.Error(err))
}

package job

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/matsen/doifind/internal/citation"
	"github.com/matsen/doifind/internal/extract"
	"github.com/matsen/doifind/internal/resolve"
)

// DefaultJobTimeout is the overall time budget for a job's lookups.
// Citations not started when it expires are forced to not_found so the
// job always terminates.
const DefaultJobTimeout = 10 * time.Minute

// Progress checkpoints. Extraction owns the first 30%, lookups the
// next 65%, completion the rest.
const (
	progressStarted   = 10
	progressExtracted = 30
	progressLookupMax = 95
	progressDone      = 100
)

// Runner drives a job through the pipeline: locate the references
// section, segment and parse it, then resolve citations one at a time
// in ascending id order. One Runner call owns the job record; status
// pollers read through the store and tolerate slightly stale views.
type Runner struct {
	store      Store
	resolver   *resolve.Resolver
	jobTimeout time.Duration
	logger     *zap.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithJobTimeout sets the overall job time budget.
func WithJobTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.jobTimeout = d
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner.
func NewRunner(store Store, resolver *resolve.Resolver, opts ...RunnerOption) *Runner {
	r := &Runner{
		store:      store,
		resolver:   resolver,
		jobTimeout: DefaultJobTimeout,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ExtractCitations runs the extraction half of the pipeline on document
// text: locate the references section, segment it, parse each entry.
// IDs are assigned in original-text order starting at 1.
func ExtractCitations(text string) ([]citation.Citation, extract.SectionStrategy, extract.SplitStrategy) {
	section, sectionStrategy := extract.FindReferencesSection(text)
	entries, splitStrategy := extract.SplitCitations(section)

	citations := make([]citation.Citation, 0, len(entries))
	for i, entry := range entries {
		citations = append(citations, citation.Parse(entry, i+1))
	}
	return citations, sectionStrategy, splitStrategy
}

// Run processes document text under the given job record and persists
// progress as it goes. A panic anywhere in the pipeline lands the job
// in the error state rather than leaving it stuck processing.
func (r *Runner) Run(ctx context.Context, job *Job, text string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("pipeline panic: %v", p)
		}
		if err != nil {
			job.Status = StatusError
			job.Error = err.Error()
			job.Progress = 0
			if updateErr := r.store.Update(job); updateErr != nil {
				r.logger.Error("recording job error", zap.Error(updateErr))
			}
		}
	}()

	job.Status = StatusProcessing
	job.Progress = progressStarted
	if err := r.store.Update(job); err != nil {
		return err
	}

	citations, sectionStrategy, splitStrategy := ExtractCitations(text)
	job.Citations = citations
	job.SectionStrategy = sectionStrategy
	job.SplitStrategy = splitStrategy
	job.Progress = progressExtracted
	job.Stats = citation.Summarize(job.Citations)
	if err := r.store.Update(job); err != nil {
		return err
	}

	r.logger.Info("extracted citations",
		zap.String("job", job.ID),
		zap.Int("count", len(citations)),
		zap.String("section_strategy", string(sectionStrategy)),
		zap.String("split_strategy", string(splitStrategy)))

	start := time.Now()
	total := len(job.Citations)

	for i := range job.Citations {
		if time.Since(start) > r.jobTimeout {
			r.logger.Warn("job time budget exhausted",
				zap.String("job", job.ID),
				zap.Int("remaining", total-i))
			for j := i; j < total; j++ {
				c := &job.Citations[j]
				if c.Status == citation.StatusPending {
					c.Status = citation.StatusNotFound
					c.Confidence = 0.0
					c.Message = "Processing timeout"
				}
			}
			break
		}

		r.resolver.Resolve(ctx, &job.Citations[i])

		processed := i + 1
		progress := progressExtracted + (processed*65)/total
		if progress > progressLookupMax {
			progress = progressLookupMax
		}
		job.Progress = progress
		job.Stats = citation.Summarize(job.Citations)
		if err := r.store.Update(job); err != nil {
			return err
		}
	}

	job.Status = StatusCompleted
	job.Progress = progressDone
	job.CompletedAt = time.Now().UTC()
	job.Stats = citation.Summarize(job.Citations)
	if err := r.store.Update(job); err != nil {
		return err
	}

	r.logger.Info("job completed",
		zap.String("job", job.ID),
		zap.Int("total", job.Stats.Total),
		zap.Int("dois_found", job.Stats.DOIsFound),
		zap.Duration("elapsed", time.Since(start)))

	return nil
}

// Package resolve looks up DOIs for pending citations against an
// ordered list of external metadata sources.
package resolve

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/matsen/doifind/internal/citation"
	"github.com/matsen/doifind/internal/source"
)

const (
	// DefaultDelay is the politeness pause between consecutive
	// external calls, regardless of outcome.
	DefaultDelay = 500 * time.Millisecond

	// DefaultTimeout bounds a single citation's lookup.
	DefaultTimeout = 45 * time.Second
)

// Resolver resolves pending citations against its sources in order:
// every query is tried against the first source before any query
// reaches the second. The first result carrying a DOI wins.
type Resolver struct {
	sources []source.Source
	delay   time.Duration
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithDelay sets the politeness delay between external calls.
func WithDelay(d time.Duration) Option {
	return func(r *Resolver) {
		r.delay = d
	}
}

// WithTimeout sets the per-citation lookup timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.timeout = d
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a Resolver that tries sources in the given order.
func New(sources []source.Source, opts ...Option) *Resolver {
	r := &Resolver{
		sources: sources,
		delay:   DefaultDelay,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve looks up a DOI for the citation and mutates it to a terminal
// state. Citations that are already terminal are left untouched.
// Source failures never propagate: each is logged and the next
// query/source pair is tried. The only error-shaped outcome is the
// citation itself reaching not_found.
func (r *Resolver) Resolve(ctx context.Context, c *citation.Citation) {
	if c.Status != citation.StatusPending {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	queries := BuildQueries(c.Original)

	for _, src := range r.sources {
		for _, query := range queries {
			if strings.TrimSpace(query) == "" {
				continue
			}

			result, err := src.Search(ctx, query)
			if err != nil {
				if ctx.Err() != nil {
					r.markTimeout(c)
					return
				}
				r.logger.Warn("source search failed",
					zap.Int("citation", c.ID),
					zap.String("source", string(src.Name())),
					zap.Error(err))
			} else if result != nil && result.DOI != "" {
				r.markFound(c, src, result)
				return
			}

			if err := sleep(ctx, r.delay); err != nil {
				r.markTimeout(c)
				return
			}
		}
	}

	c.Status = citation.StatusNotFound
	c.Confidence = 0.0
	c.Message = "No DOI found in " + r.sourceNames()
	r.logger.Warn("no DOI found", zap.Int("citation", c.ID))
}

// markFound records a successful lookup. The returned metadata replaces
// whatever the parser extracted; the source's record is authoritative.
func (r *Resolver) markFound(c *citation.Citation, src source.Source, result *source.Result) {
	c.Status = citation.StatusFound
	c.DOI = result.DOI
	c.Confidence = src.Confidence()
	c.Source = src.Name()
	c.Metadata = citation.Metadata{
		Year:    result.Year,
		Title:   result.Title,
		Authors: result.Authors,
		Journal: result.Journal,
		DOI:     result.DOI,
	}
	r.logger.Info("found DOI",
		zap.Int("citation", c.ID),
		zap.String("doi", c.DOI),
		zap.String("source", string(c.Source)))
}

// markTimeout forces a citation whose lookup exceeded the per-citation
// timeout to not_found rather than leaving it pending.
func (r *Resolver) markTimeout(c *citation.Citation) {
	c.Status = citation.StatusNotFound
	c.Confidence = 0.0
	c.Message = "DOI lookup timed out"
	r.logger.Warn("lookup timed out", zap.Int("citation", c.ID))
}

// sourceNames joins the source names for the not-found message.
func (r *Resolver) sourceNames() string {
	names := make([]string, len(r.sources))
	for i, src := range r.sources {
		names[i] = string(src.Name())
	}
	return strings.Join(names, " or ")
}

// sleep pauses for d or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

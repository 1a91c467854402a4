// Package job tracks document-processing jobs and runs the citation
// pipeline. A job owns its citation list; only the single runner task
// that owns a job ever mutates it.
package job

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matsen/doifind/internal/citation"
	"github.com/matsen/doifind/internal/extract"
	"github.com/matsen/doifind/internal/style"
)

// Status tracks a job through its lifetime.
type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Job is the per-document processing record.
type Job struct {
	ID       string      `json:"id"`
	Filename string      `json:"filename,omitempty"`
	Status   Status      `json:"status"`
	Progress int         `json:"progress"` // 0-100
	Style    style.Style `json:"style,omitempty"`

	Citations []citation.Citation `json:"citations"`

	// Which heuristics produced the citation list. Fallback strategies
	// (tail, lines) mean the list deserves less trust.
	SectionStrategy extract.SectionStrategy `json:"section_strategy,omitempty"`
	SplitStrategy   extract.SplitStrategy   `json:"split_strategy,omitempty"`

	CreatedAt   time.Time `json:"created_at"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
	Error       string    `json:"error,omitempty"`

	Stats citation.Stats `json:"stats"`
}

// New creates a job in the uploaded state with a fresh ID.
func New(filename string, st style.Style) *Job {
	return &Job{
		ID:        uuid.NewString(),
		Filename:  filename,
		Status:    StatusUploaded,
		Style:     st,
		CreatedAt: time.Now().UTC(),
	}
}

// ErrNotFound is returned by stores when a job ID is unknown.
var ErrNotFound = errors.New("job not found")

// Store persists jobs. Backings are swappable without touching the
// pipeline: an in-memory map for single-shot CLI runs, SQLite for
// anything that must survive the process.
type Store interface {
	Create(job *Job) error
	Get(id string) (*Job, error)
	Update(job *Job) error
	List() ([]*Job, error)
}

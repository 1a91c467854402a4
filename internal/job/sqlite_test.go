package job

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/matsen/doifind/internal/citation"
	"github.com/matsen/doifind/internal/style"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	j := New("paper.docx", style.AMA)
	j.Citations = []citation.Citation{
		{
			ID:         1,
			Original:   "Smith, J. (2020). A study. Journal.",
			Status:     citation.StatusFound,
			DOI:        "10.1234/example",
			Confidence: 0.9,
			Source:     citation.SourcePubMed,
		},
		{
			ID:       2,
			Original: "Doe, A. (2019). Unfindable.",
			Status:   citation.StatusNotFound,
			Message:  "No DOI found in PubMed or CrossRef",
		},
	}
	j.Status = StatusCompleted
	j.Progress = 100
	j.CompletedAt = time.Now().UTC().Truncate(time.Second)

	if err := store.Create(j); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	got, err := store.Get(j.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	if got.Filename != "paper.docx" || got.Style != style.AMA {
		t.Errorf("Get() = %+v", got)
	}
	if len(got.Citations) != 2 {
		t.Fatalf("got %d citations, want 2", len(got.Citations))
	}
	if got.Citations[0].DOI != "10.1234/example" {
		t.Errorf("Citations[0].DOI = %q", got.Citations[0].DOI)
	}
	if !got.CompletedAt.Equal(j.CompletedAt) {
		t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, j.CompletedAt)
	}

	// Stats are recomputed on load, not stored.
	if got.Stats.Total != 2 || got.Stats.Found != 1 || got.Stats.NotFound != 1 {
		t.Errorf("Stats = %+v", got.Stats)
	}
}

func TestSQLiteStoreUpdate(t *testing.T) {
	store := newTestStore(t)

	j := New("paper.txt", style.APA)
	if err := store.Create(j); err != nil {
		t.Fatal(err)
	}

	j.Status = StatusProcessing
	j.Progress = 30
	if err := store.Update(j); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	got, err := store.Get(j.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusProcessing || got.Progress != 30 {
		t.Errorf("after update: status=%s progress=%d", got.Status, got.Progress)
	}
}

func TestSQLiteStoreNotFound(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if err := store.Update(New("x", style.APA)); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStoreListNewestFirst(t *testing.T) {
	store := newTestStore(t)

	older := New("old.txt", style.APA)
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := New("new.txt", style.APA)

	if err := store.Create(older); err != nil {
		t.Fatal(err)
	}
	if err := store.Create(newer); err != nil {
		t.Fatal(err)
	}

	jobs, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	if jobs[0].Filename != "new.txt" {
		t.Errorf("jobs[0] = %s, want new.txt", jobs[0].Filename)
	}
}

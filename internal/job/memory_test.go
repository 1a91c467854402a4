package job

import (
	"errors"
	"testing"

	"github.com/matsen/doifind/internal/citation"
	"github.com/matsen/doifind/internal/style"
)

func TestMemoryStoreCRUD(t *testing.T) {
	store := NewMemoryStore()
	j := New("paper.txt", style.APA)

	if err := store.Create(j); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	got, err := store.Get(j.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Filename != "paper.txt" || got.Status != StatusUploaded {
		t.Errorf("Get() = %+v", got)
	}

	j.Status = StatusCompleted
	j.Progress = 100
	if err := store.Update(j); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	got, err = store.Get(j.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusCompleted || got.Progress != 100 {
		t.Errorf("after update: %+v", got)
	}

	jobs, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(jobs) != 1 {
		t.Errorf("List() returned %d jobs, want 1", len(jobs))
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if err := store.Update(New("x", style.APA)); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	store := NewMemoryStore()
	j := New("paper.txt", style.APA)
	j.Citations = []citation.Citation{{ID: 1, Original: "original", Status: citation.StatusPending}}
	if err := store.Create(j); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's copy after Create must not leak into the store.
	j.Citations[0].Status = citation.StatusFound

	got, err := store.Get(j.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Citations[0].Status != citation.StatusPending {
		t.Error("store shares citation slice with caller")
	}

	// Mutating a Get result must not leak either.
	got.Citations[0].Original = "tampered"
	again, err := store.Get(j.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Citations[0].Original != "original" {
		t.Error("Get() results share citation slice")
	}
}

package document

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/matsen/doifind/internal/citation"
	"github.com/matsen/doifind/internal/style"
)

func acceptedCitations() []citation.Citation {
	return []citation.Citation{
		{
			ID:         1,
			Status:     citation.StatusFound,
			DOI:        "10.1234/example",
			Confidence: 0.9,
			Accepted:   true,
			Metadata: citation.Metadata{
				Authors: "Smith, John",
				Year:    "2020",
				Title:   "An example: a study",
				Journal: "Journal",
				Volume:  "15",
				Issue:   "3",
				Pages:   "123-145",
			},
		},
		{
			ID:       2,
			Status:   citation.StatusNotFound,
			Accepted: true, // no DOI, must be skipped
		},
	}
}

func TestApplyCitationsAppend(t *testing.T) {
	doc := FromText("Intro paragraph.\nBody paragraph.")

	patched, warning, err := ApplyCitations(doc, acceptedCitations(), AppendNewSection, style.APA)
	if err != nil {
		t.Fatalf("ApplyCitations() error: %v", err)
	}
	if warning != "" {
		t.Errorf("warning = %q, want empty", warning)
	}

	want := []string{
		"Intro paragraph.",
		"Body paragraph.",
		"References",
		"1. Smith, J. (2020). An example: a study. *Journal*, 15(3), 123-145. https://doi.org/10.1234/example.",
	}
	if !reflect.DeepEqual(patched.Paragraphs, want) {
		t.Errorf("Paragraphs = %#v, want %#v", patched.Paragraphs, want)
	}

	// The input document is untouched.
	if len(doc.Paragraphs) != 2 {
		t.Errorf("input document mutated: %#v", doc.Paragraphs)
	}
}

func TestApplyCitationsReplace(t *testing.T) {
	doc := FromText(strings.Join([]string{
		"Intro paragraph.",
		"References",
		"1. Old entry one.",
		"2. Old entry two.",
		"",
		"Appendix A",
	}, "\n"))

	patched, warning, err := ApplyCitations(doc, acceptedCitations(), ReplaceReferences, style.AMA)
	if err != nil {
		t.Fatalf("ApplyCitations() error: %v", err)
	}
	if warning != "" {
		t.Errorf("warning = %q, want empty", warning)
	}

	want := []string{
		"Intro paragraph.",
		"References",
		"1. Smith J. An example: a study. *Journal*. 2020;15(3):123-145. doi:10.1234/example",
		"",
		"Appendix A",
	}
	if !reflect.DeepEqual(patched.Paragraphs, want) {
		t.Errorf("Paragraphs = %#v, want %#v", patched.Paragraphs, want)
	}
}

func TestApplyCitationsReplaceStopsAtTerminator(t *testing.T) {
	doc := FromText(strings.Join([]string{
		"Bibliography",
		"1. Old entry.",
		"Appendix A",
		"Extra material.",
	}, "\n"))

	patched, _, err := ApplyCitations(doc, acceptedCitations(), ReplaceReferences, style.APA)
	if err != nil {
		t.Fatalf("ApplyCitations() error: %v", err)
	}
	if patched.Paragraphs[len(patched.Paragraphs)-1] != "Extra material." {
		t.Errorf("trailing content lost: %#v", patched.Paragraphs)
	}
	for _, p := range patched.Paragraphs {
		if p == "1. Old entry." {
			t.Errorf("old entry not removed: %#v", patched.Paragraphs)
		}
	}
}

func TestApplyCitationsReplaceFallsBackToAppend(t *testing.T) {
	doc := FromText("No references heading anywhere.")

	patched, warning, err := ApplyCitations(doc, acceptedCitations(), ReplaceReferences, style.APA)
	if err != nil {
		t.Fatalf("ApplyCitations() error: %v", err)
	}
	if warning == "" {
		t.Error("expected a fallback warning")
	}
	if patched.Paragraphs[1] != "References" {
		t.Errorf("Paragraphs = %#v, want appended References section", patched.Paragraphs)
	}
}

func TestApplyCitationsNoneAccepted(t *testing.T) {
	doc := FromText("Intro.")
	citations := []citation.Citation{
		{ID: 1, Status: citation.StatusFound, DOI: "10.1234/example", Accepted: false},
		{ID: 2, Status: citation.StatusNotFound, Accepted: true},
	}

	_, _, err := ApplyCitations(doc, citations, AppendNewSection, style.APA)
	if !errors.Is(err, ErrNoCitations) {
		t.Errorf("error = %v, want ErrNoCitations", err)
	}
}

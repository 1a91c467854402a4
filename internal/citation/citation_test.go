package citation

import "testing"

func TestStatusTerminal(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPending, false},
		{StatusHasDOI, true},
		{StatusFound, true},
		{StatusNotFound, true},
	}
	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.want {
			t.Errorf("%s.Terminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	citations := []Citation{
		{Status: StatusHasDOI, DOI: "10.1/a"},
		{Status: StatusFound, DOI: "10.1/b"},
		{Status: StatusFound, DOI: "10.1/c"},
		{Status: StatusNotFound},
		{Status: StatusPending},
	}

	stats := Summarize(citations)
	want := Stats{
		Total:     5,
		HasDOI:    1,
		Found:     2,
		NotFound:  1,
		Pending:   1,
		Processed: 4,
		DOIsFound: 3,
	}
	if stats != want {
		t.Errorf("Summarize() = %+v, want %+v", stats, want)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if stats := Summarize(nil); stats != (Stats{}) {
		t.Errorf("Summarize(nil) = %+v, want zero stats", stats)
	}
}

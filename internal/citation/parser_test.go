package citation

import (
	"fmt"
	"strconv"
	"testing"
	"time"
)

func TestExtractDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "bare DOI",
			text: "Smith J. A study. J Things. 2020. 10.1234/example",
			want: "10.1234/example",
		},
		{
			name: "doi prefix",
			text: "Smith, J. (2020). Title. Journal. doi:10.1234/example",
			want: "10.1234/example",
		},
		{
			name: "uppercase DOI prefix",
			text: "Smith, J. (2020). Title. Journal. DOI: 10.1234/example",
			want: "10.1234/example",
		},
		{
			name: "doi.org URL",
			text: "Available at https://doi.org/10.1234/example",
			want: "10.1234/example",
		},
		{
			name: "dx.doi.org URL",
			text: "Available at https://dx.doi.org/10.1234/example",
			want: "10.1234/example",
		},
		{
			name: "trailing parenthesis stripped",
			text: "A study (doi:10.1234/example)",
			want: "10.1234/example",
		},
		{
			name: "trailing bracket stripped",
			text: "A study [10.1234/example]",
			want: "10.1234/example",
		},
		{
			name: "registrant with more digits",
			text: "doi:10.48550/arXiv.2106.15928",
			want: "10.48550/arXiv.2106.15928",
		},
		{
			name: "no DOI",
			text: "Smith, J. (2020). A study with no identifier. Journal.",
			want: "",
		},
		{
			name: "too few registrant digits",
			text: "see section 10.3/4 for details",
			want: "",
		},
		{
			name: "empty",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractDOI(tt.text)
			if got != tt.want {
				t.Errorf("ExtractDOI(%q) = %q, want %q", tt.text, got, tt.want)
			}

			// Extraction is idempotent: re-running on the cleaned
			// output yields the same string.
			if got != "" {
				if again := ExtractDOI(got); again != got {
					t.Errorf("ExtractDOI not idempotent: %q -> %q", got, again)
				}
			}
		})
	}
}

func TestExtractYear(t *testing.T) {
	currentYear := time.Now().Year()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "parenthesized",
			text: "Smith, J. (2020). Title. Journal.",
			want: "2020",
		},
		{
			name: "semicolon terminated",
			text: "Author, A. 2019; Title.",
			want: "2019",
		},
		{
			name: "comma terminated",
			text: "Journal 2018, pages 1-10",
			want: "2018",
		},
		{
			name: "bare year",
			text: "published in 1987 by someone",
			want: "1987",
		},
		{
			name: "parenthesized preferred over bare",
			text: "In 1999 Smith wrote (2005) something",
			want: "2005",
		},
		{
			name: "below range",
			text: "the year (1850) was long ago",
			want: "",
		},
		{
			name: "future year rejected",
			text: fmt.Sprintf("to appear (%d)", currentYear+1),
			want: "",
		},
		{
			name: "current year accepted",
			text: fmt.Sprintf("(%d)", currentYear),
			want: strconv.Itoa(currentYear),
		},
		{
			name: "no year",
			text: "Smith, J. Title without a date. Journal.",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractYear(tt.text)
			if got != tt.want {
				t.Errorf("ExtractYear(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("embedded DOI", func(t *testing.T) {
		c := Parse("Smith, J. (2020). Title. Journal. doi:10.1234/example", 3)

		if c.ID != 3 {
			t.Errorf("ID = %d, want 3", c.ID)
		}
		if c.Status != StatusHasDOI {
			t.Errorf("Status = %s, want %s", c.Status, StatusHasDOI)
		}
		if c.DOI != "10.1234/example" {
			t.Errorf("DOI = %q, want %q", c.DOI, "10.1234/example")
		}
		if c.Confidence != 1.0 {
			t.Errorf("Confidence = %v, want 1.0", c.Confidence)
		}
		if !c.Metadata.ExistingDOI {
			t.Error("Metadata.ExistingDOI should be true")
		}
		if c.Metadata.Year != "2020" {
			t.Errorf("Metadata.Year = %q, want %q", c.Metadata.Year, "2020")
		}
	})

	t.Run("no DOI", func(t *testing.T) {
		c := Parse("  Smith, J. (2020). Title. Journal.  ", 1)

		if c.Status != StatusPending {
			t.Errorf("Status = %s, want %s", c.Status, StatusPending)
		}
		if c.DOI != "" {
			t.Errorf("DOI = %q, want empty", c.DOI)
		}
		if c.Confidence != 0.0 {
			t.Errorf("Confidence = %v, want 0.0", c.Confidence)
		}
		if c.Original != "Smith, J. (2020). Title. Journal." {
			t.Errorf("Original not trimmed: %q", c.Original)
		}
	})

	t.Run("year extraction runs even with DOI", func(t *testing.T) {
		c := Parse("No year here. doi:10.1234/example", 1)
		if c.Metadata.Year != "" {
			t.Errorf("Metadata.Year = %q, want empty", c.Metadata.Year)
		}
		if c.Status != StatusHasDOI {
			t.Errorf("Status = %s, want %s", c.Status, StatusHasDOI)
		}
	})
}

package parse

import (
	"testing"
	"time"
)

func TestDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"iso", "2024-01-15", "2024-01-15"},
		{"day first slash", "15/01/2024", "2024-01-15"},
		{"month first slash", "01/15/2024", "2024-01-15"},
		{"day first dash", "15-01-2024", "2024-01-15"},
		{"slash iso", "2024/01/15", "2024-01-15"},
		{"spanish dash full", "13-jul-2025", "2025-07-13"},
		{"spanish upper", "13-JUL-2025", "2025-07-13"},
		{"spanish spaced", "02 dic 2024", "2024-12-02"},
		{"surrounding whitespace", "  2024-01-15  ", "2024-01-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Date(tt.input)
			if err != nil {
				t.Fatalf("Date(%q) error: %v", tt.input, err)
			}
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("Date(%q) = %s, want %s", tt.input, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

// Every supported layout must round-trip: rendering a valid date in that
// layout and parsing it back yields the identical calendar date.
func TestDateRoundTrip(t *testing.T) {
	// Day > 12 so the month-first rendering cannot be mis-read day-first.
	date := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	for _, layout := range dateLayouts {
		rendered := date.Format(layout)
		got, err := Date(rendered)
		if err != nil {
			t.Fatalf("Date(%q) [layout %s] error: %v", rendered, layout, err)
		}
		if !got.Equal(date) {
			t.Errorf("layout %s: Date(%q) = %s, want %s", layout, rendered, got, date)
		}
	}
}

// Ambiguous slash dates resolve day-first: 03/04/2024 is 3 April, not 4 March.
func TestDateDayFirstWins(t *testing.T) {
	got, err := Date("03/04/2024")
	if err != nil {
		t.Fatal(err)
	}
	if got.Month() != time.April || got.Day() != 3 {
		t.Errorf("Date(03/04/2024) = %s, want 2024-04-03", got.Format("2006-01-02"))
	}
}

// Year-less Spanish dates assume the current processing year.
func TestDateSpanishCurrentYear(t *testing.T) {
	got, err := Date("02/JUL")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(time.Now().Year(), time.July, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Date(02/JUL) = %s, want %s", got, want)
	}
}

func TestDateErrors(t *testing.T) {
	for _, input := range []string{"", "   ", "not-a-date", "99/99/9999", "2024-13-45"} {
		if _, err := Date(input); err == nil {
			t.Errorf("Date(%q) = nil error, want failure", input)
		}
	}
}

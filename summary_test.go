package girohist

import (
	"strings"
	"testing"
)

func TestWindowClip(t *testing.T) {
	index := NewRange(MustDate("2023-06-15"), MustDate("2024-05-17"))
	asOf := MustDate("2024-05-17")

	tests := []struct {
		window   Window
		from, to string
	}{
		{WindowFull, "2023-06-15", "2024-05-17"},
		{WindowMTD, "2024-05-01", "2024-05-17"},
		{WindowQTD, "2024-04-01", "2024-05-17"},
		{WindowYTD, "2024-01-01", "2024-05-17"},
		{WindowYear, "2023-06-15", "2024-05-17"}, // clipped to the index start
		{WindowPrevMonth, "2024-04-01", "2024-04-30"},
		{WindowPrevQuarter, "2024-01-01", "2024-03-31"},
		{WindowPrevYear, "2023-06-15", "2023-12-31"}, // clipped
	}
	for _, tc := range tests {
		span, ok := tc.window.Clip(asOf, index)
		if !ok {
			t.Fatalf("%v: not available", tc.window)
		}
		if span.From.String() != tc.from || span.To.String() != tc.to {
			t.Errorf("%v: span = %s, want %s..%s", tc.window, span, tc.from, tc.to)
		}
	}
}

func TestWindowClipOutsideIndex(t *testing.T) {
	// A young portfolio has no previous year to report.
	index := NewRange(MustDate("2024-03-01"), MustDate("2024-05-17"))
	if _, ok := WindowPrevYear.Clip(MustDate("2024-05-17"), index); ok {
		t.Error("PrevYear must not be available on a 2024-only index")
	}
}

func TestParseWindow(t *testing.T) {
	for in, want := range map[string]Window{
		"full": WindowFull, "mtd": WindowMTD, "YTD": WindowYTD, "1y": WindowYear, "pm": WindowPrevMonth,
	} {
		got, err := ParseWindow(in)
		if err != nil || got != want {
			t.Errorf("ParseWindow(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseWindow("fortnight"); err == nil {
		t.Error("ParseWindow accepted an unknown window")
	}
}

func TestSummaryMarkdown(t *testing.T) {
	result := flatRun(t)
	points, err := ComputeReturns(result.Snapshots)
	if err != nil {
		t.Fatal(err)
	}
	summary := NewSummary(result, points)

	if summary.AsOf.String() != "2024-01-07" {
		t.Errorf("AsOf = %s", summary.AsOf)
	}
	if !summary.Value.Equal(EUR(1000)) {
		t.Errorf("Value = %s, want %s", summary.Value, EUR(1000))
	}
	if !summary.Invested.Equal(EUR(1000)) {
		t.Errorf("Invested = %s, want %s", summary.Invested, EUR(1000))
	}

	md := summary.Markdown()
	for _, want := range []string{
		"# Portfolio Summary as of 2024-01-07",
		"## Period Returns",
		"| Full |",
		"| MTD |",
		"## Risk Metrics",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown misses %q:\n%s", want, md)
		}
	}
	// Nothing was excluded, the section must not appear.
	if strings.Contains(md, "Excluded") {
		t.Errorf("markdown has an empty exclusion section:\n%s", md)
	}
}

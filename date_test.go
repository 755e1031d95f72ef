package girohist

import (
	"testing"
	"time"
)

func TestDateAdd(t *testing.T) {
	tests := []struct {
		date string
		days int
		want string
	}{
		{"2024-01-31", 1, "2024-02-01"},
		{"2024-02-28", 1, "2024-02-29"}, // leap year
		{"2023-12-31", 1, "2024-01-01"},
		{"2024-03-01", -1, "2024-02-29"},
		{"2024-06-15", 0, "2024-06-15"},
	}
	for _, tc := range tests {
		if got := MustDate(tc.date).Add(tc.days); got.String() != tc.want {
			t.Errorf("%s.Add(%d) = %s, want %s", tc.date, tc.days, got, tc.want)
		}
	}
}

func TestDateSub(t *testing.T) {
	a, b := MustDate("2024-03-01"), MustDate("2024-02-01")
	if got := a.Sub(b); got != 29 {
		t.Errorf("Sub = %d, want 29", got)
	}
}

func TestParseDate(t *testing.T) {
	for _, str := range []string{"2024-01-02", "2024-1-2"} {
		got, err := ParseDate(str)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", str, err)
		}
		if got != NewDate(2024, time.January, 2) {
			t.Errorf("ParseDate(%q) = %s", str, got)
		}
	}
	if _, err := ParseDate("02/01/2024"); err == nil {
		t.Error("ParseDate accepted a non ISO date")
	}
}

func TestStartEndOf(t *testing.T) {
	on := MustDate("2024-05-17")
	tests := []struct {
		period     Period
		start, end string
	}{
		{Monthly, "2024-05-01", "2024-05-31"},
		{Quarterly, "2024-04-01", "2024-06-30"},
		{Yearly, "2024-01-01", "2024-12-31"},
	}
	for _, tc := range tests {
		if got := on.StartOf(tc.period); got.String() != tc.start {
			t.Errorf("StartOf(%v) = %s, want %s", tc.period, got, tc.start)
		}
		if got := on.EndOf(tc.period); got.String() != tc.end {
			t.Errorf("EndOf(%v) = %s, want %s", tc.period, got, tc.end)
		}
	}
}

func TestRangeDays(t *testing.T) {
	span := NewRange(MustDate("2024-02-27"), MustDate("2024-03-02"))
	var days []string
	for on := range span.Days() {
		days = append(days, on.String())
	}
	want := []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}
	if len(days) != len(want) {
		t.Fatalf("got %d days, want %d", len(days), len(want))
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("day[%d] = %s, want %s", i, days[i], want[i])
		}
	}
	if span.Len() != 5 {
		t.Errorf("Len = %d, want 5", span.Len())
	}
}

func TestHistoryValueAsOf(t *testing.T) {
	h := obs("2024-01-02", 100.0, "2024-01-05", 110.0)

	if _, ok := h.ValueAsOf(MustDate("2024-01-01")); ok {
		t.Error("ValueAsOf before the first observation must not resolve")
	}
	tests := []struct {
		on   string
		want float64
	}{
		{"2024-01-02", 100}, // exact
		{"2024-01-03", 100}, // forward-filled
		{"2024-01-04", 100},
		{"2024-01-05", 110},
		{"2024-01-09", 110}, // beyond the last observation
	}
	for _, tc := range tests {
		got, ok := h.ValueAsOf(MustDate(tc.on))
		if !ok || got != tc.want {
			t.Errorf("ValueAsOf(%s) = %v, %v, want %v", tc.on, got, ok, tc.want)
		}
	}
}

func TestHistoryAppendOverwritesAndSorts(t *testing.T) {
	var h History[float64]
	h.Append(MustDate("2024-01-05"), 1)
	h.Append(MustDate("2024-01-02"), 2)
	h.Append(MustDate("2024-01-05"), 3) // overwrite

	if h.Len() != 2 {
		t.Fatalf("Len = %d, want 2", h.Len())
	}
	first, v, _ := h.First()
	if first.String() != "2024-01-02" || v != 2 {
		t.Errorf("First = %s, %v", first, v)
	}
	last, v, _ := h.Latest()
	if last.String() != "2024-01-05" || v != 3 {
		t.Errorf("Latest = %s, %v", last, v)
	}
}

package girohist

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// Window selects a reporting period relative to the series end date.
type Window int

const (
	WindowFull Window = iota
	WindowMTD
	WindowQTD
	WindowYTD
	WindowYear // trailing 365 days
	WindowPrevMonth
	WindowPrevQuarter
	WindowPrevYear
)

// Windows lists every reporting window in display order.
func Windows() []Window {
	return []Window{WindowFull, WindowMTD, WindowQTD, WindowYTD, WindowYear,
		WindowPrevMonth, WindowPrevQuarter, WindowPrevYear}
}

func (w Window) String() string {
	switch w {
	case WindowFull:
		return "Full"
	case WindowMTD:
		return "MTD"
	case WindowQTD:
		return "QTD"
	case WindowYTD:
		return "YTD"
	case WindowYear:
		return "1Y"
	case WindowPrevMonth:
		return "Prev Month"
	case WindowPrevQuarter:
		return "Prev Quarter"
	case WindowPrevYear:
		return "Prev Year"
	}
	return "?"
}

// ParseWindow reads the short window name used on the command line.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(s) {
	case "full":
		return WindowFull, nil
	case "mtd":
		return WindowMTD, nil
	case "qtd":
		return WindowQTD, nil
	case "ytd":
		return WindowYTD, nil
	case "1y":
		return WindowYear, nil
	case "pm":
		return WindowPrevMonth, nil
	case "pq":
		return WindowPrevQuarter, nil
	case "py":
		return WindowPrevYear, nil
	}
	return 0, fmt.Errorf("unknown window %q (full, mtd, qtd, ytd, 1y, pm, pq, py)", s)
}

// Clip computes the window's date range relative to asOf and clips it to the
// available index. ok is false when the window lies entirely outside it.
func (w Window) Clip(asOf Date, available Range) (Range, bool) {
	var span Range
	switch w {
	case WindowFull:
		span = available
	case WindowMTD:
		span = NewRange(asOf.StartOf(Monthly), asOf)
	case WindowQTD:
		span = NewRange(asOf.StartOf(Quarterly), asOf)
	case WindowYTD:
		span = NewRange(asOf.StartOf(Yearly), asOf)
	case WindowYear:
		span = NewRange(asOf.Add(-364), asOf)
	case WindowPrevMonth:
		prev := asOf.StartOf(Monthly).Add(-1)
		span = NewRange(prev.StartOf(Monthly), prev)
	case WindowPrevQuarter:
		prev := asOf.StartOf(Quarterly).Add(-1)
		span = NewRange(prev.StartOf(Quarterly), prev)
	case WindowPrevYear:
		prev := asOf.StartOf(Yearly).Add(-1)
		span = NewRange(prev.StartOf(Yearly), prev)
	}
	if span.To.Before(available.From) || span.From.After(available.To) {
		return Range{}, false
	}
	if span.From.Before(available.From) {
		span.From = available.From
	}
	if span.To.After(available.To) {
		span.To = available.To
	}
	return span, true
}

// WindowReport is the performance of one reporting window.
type WindowReport struct {
	Window  Window
	Span    Range
	Return  Percent
	Metrics Metrics
}

// Summary is the performance report of one reconstruction run.
type Summary struct {
	Currency string
	AsOf     Date
	Value    Money
	Invested Money // cumulative net external flow
	Excluded map[string]error
	Windows  []WindowReport
}

// NewSummary evaluates every reporting window over the run's return series.
func NewSummary(result *Result, points []ReturnPoint) *Summary {
	last := result.Last()
	s := &Summary{
		Currency: result.Currency,
		AsOf:     last.Date,
		Value:    last.Value(),
		Excluded: result.Excluded,
	}
	if cash, ok := last.Row(CashAsset); ok {
		s.Invested = cash.Investment
	}
	if len(points) == 0 {
		return s
	}
	index := NewRange(points[0].Date, points[len(points)-1].Date)
	for _, w := range Windows() {
		span, ok := w.Clip(s.AsOf, index)
		if !ok {
			continue
		}
		// The series is calendar dense, so dates map straight to offsets.
		daily := make([]float64, 0, span.Len())
		for i := span.From.Sub(index.From); i <= span.To.Sub(index.From); i++ {
			daily = append(daily, points[i].Daily)
		}
		s.Windows = append(s.Windows, WindowReport{
			Window:  w,
			Span:    span,
			Return:  Percent(100 * TotalReturn(daily)),
			Metrics: ComputeMetrics(toPoints(span, daily), AnnualizationDaily),
		})
	}
	return s
}

func toPoints(span Range, daily []float64) []ReturnPoint {
	points := make([]ReturnPoint, len(daily))
	on := span.From
	for i, r := range daily {
		points[i] = ReturnPoint{Date: on, Daily: r}
		on = on.Add(1)
	}
	return points
}

// Markdown renders the summary as a markdown document.
func (s *Summary) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio Summary as of %s\n\n", s.AsOf)
	fmt.Fprintf(&b, "- Total Value: %s\n", s.Value)
	fmt.Fprintf(&b, "- Net Invested: %s\n", s.Invested)
	fmt.Fprintf(&b, "\n## Period Returns\n\n")
	fmt.Fprintf(&b, "| Window | From | To | Return |\n")
	fmt.Fprintf(&b, "|---|---|---|---:|\n")
	for _, w := range s.Windows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", w.Window, w.Span.From, w.Span.To, w.Return.SignedString())
	}
	for _, w := range s.Windows {
		if w.Window != WindowFull {
			continue
		}
		m := w.Metrics
		fmt.Fprintf(&b, "\n## Risk Metrics (annualized)\n\n")
		fmt.Fprintf(&b, "| Metric | Value |\n")
		fmt.Fprintf(&b, "|---|---:|\n")
		fmt.Fprintf(&b, "| CAGR | %s |\n", fmtPercent(m.CAGR))
		fmt.Fprintf(&b, "| Volatility | %s |\n", fmtPercent(m.Std))
		fmt.Fprintf(&b, "| Downside Dev | %s |\n", fmtPercent(m.DownsideDev))
		fmt.Fprintf(&b, "| Sharpe | %s |\n", fmtRatio(m.Sharpe))
		fmt.Fprintf(&b, "| Sortino | %s |\n", fmtRatio(m.Sortino))
		fmt.Fprintf(&b, "| Calmar | %s |\n", fmtRatio(m.Calmar))
		fmt.Fprintf(&b, "| Max Drawdown | %s |\n", fmtPercent(m.MaxDrawdown))
		fmt.Fprintf(&b, "| Avg Drawdown | %s |\n", fmtPercent(m.AvgDrawdown))
		fmt.Fprintf(&b, "| t-stat | %s |\n", fmtRatio(m.TStat))
	}
	if len(s.Excluded) > 0 {
		fmt.Fprintf(&b, "\n## Excluded Assets\n\n")
		for _, asset := range slices.Sorted(maps.Keys(s.Excluded)) {
			fmt.Fprintf(&b, "- %s: %v\n", asset, s.Excluded[asset])
		}
	}
	return b.String()
}

func fmtPercent(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return Percent(100 * v).String()
}

func fmtRatio(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

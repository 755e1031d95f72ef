package girohist

import (
	"math"
	"testing"
)

func TestTotalReturn(t *testing.T) {
	series := []float64{0.10, -0.05}
	want := 1.10*0.95 - 1
	if got := TotalReturn(series); !almost(got, want) {
		t.Errorf("TotalReturn = %v, want %v", got, want)
	}
	if got := TotalReturn(nil); got != 0 {
		t.Errorf("TotalReturn(nil) = %v, want 0", got)
	}
}

func TestCAGR(t *testing.T) {
	// 10% over 365 daily periods annualizes back to 10%.
	series := make([]float64, 365)
	daily := math.Pow(1.10, 1.0/365) - 1
	for i := range series {
		series[i] = daily
	}
	if got := CAGR(series, 365); !almost(got, 0.10) {
		t.Errorf("CAGR = %v, want 0.10", got)
	}
	if got := CAGR(nil, 365); !math.IsNaN(got) {
		t.Errorf("CAGR(nil) = %v, want NaN", got)
	}
}

func TestMeanMedianStd(t *testing.T) {
	series := []float64{0.01, 0.03, -0.02, 0.02}

	if got := Mean(series, 1); !almost(got, 0.01) {
		t.Errorf("Mean = %v, want 0.01", got)
	}
	if got := Median(series, 1); !almost(got, 0.015) {
		t.Errorf("Median = %v, want 0.015", got)
	}
	// sample std with ddof=1
	want := math.Sqrt((0.0*0.0 + 0.02*0.02 + 0.03*0.03 + 0.01*0.01) / 3)
	if got := Std(series, 1); !almost(got, want) {
		t.Errorf("Std = %v, want %v", got, want)
	}
	// annualization scales by sqrt(freq)
	if got := Std(series, 4); !almost(got, want*2) {
		t.Errorf("Std(ann 4) = %v, want %v", got, want*2)
	}
}

func TestDownsideDeviation(t *testing.T) {
	series := []float64{0.01, -0.02, 0.03, -0.01}
	want := math.Sqrt((0.02*0.02 + 0.01*0.01) / 3)
	if got := DownsideDeviation(series, 1); !almost(got, want) {
		t.Errorf("DownsideDeviation = %v, want %v", got, want)
	}
}

func TestSharpeSortino(t *testing.T) {
	series := []float64{0.01, -0.02, 0.03, -0.01}
	m := mean(series)

	if got := Sharpe(series, 1); !almost(got, m/sampleStd(series)) {
		t.Errorf("Sharpe = %v", got)
	}
	downside := math.Sqrt((0.02*0.02 + 0.01*0.01) / 3)
	if got := Sortino(series, 1); !almost(got, m/downside) {
		t.Errorf("Sortino = %v", got)
	}
	// A series with no losses has no meaningful downside ratio.
	if got := Sortino([]float64{0.01, 0.02}, 1); !math.IsNaN(got) {
		t.Errorf("Sortino without losses = %v, want NaN", got)
	}
}

func TestTStat(t *testing.T) {
	series := []float64{0.01, 0.03, -0.02, 0.02}
	want := mean(series) / sampleStd(series) * 2 // sqrt(4)
	if got := TStat(series); !almost(got, want) {
		t.Errorf("TStat = %v, want %v", got, want)
	}
}

func TestMaxDrawdown(t *testing.T) {
	// Up 10%, down 20%, partial recovery: trough is 0.88 off a 1.10 peak.
	series := []float64{0.10, -0.20, 0.05}
	want := (1.10*0.80 - 1.10) / 1.10 // -0.20
	if got := MaxDrawdown(series); !almost(got, want) {
		t.Errorf("MaxDrawdown = %v, want %v", got, want)
	}
	// A monotonic series never draws down.
	if got := MaxDrawdown([]float64{0.01, 0.02}); !math.IsNaN(got) {
		t.Errorf("MaxDrawdown monotonic = %v, want NaN", got)
	}
}

func TestAvgDrawdown(t *testing.T) {
	// Two drawdown episodes: one lasting two periods, one lasting a single
	// period. Only multi-period episodes count.
	series := []float64{-0.10, -0.10, 0.50, -0.05, 0.20}
	got := AvgDrawdown(series)
	want := 0.90*0.90 - 1 // trough of the first episode
	if !almost(got, want) {
		t.Errorf("AvgDrawdown = %v, want %v", got, want)
	}
	if got := AvgDrawdown([]float64{0.01, 0.02}); got != 0 {
		t.Errorf("AvgDrawdown without episodes = %v, want 0", got)
	}
}

func TestComputeMetrics(t *testing.T) {
	points := []ReturnPoint{
		{Date: MustDate("2024-01-02")},
		{Date: MustDate("2024-01-03"), Daily: 0.02},
		{Date: MustDate("2024-01-04"), Daily: -0.01},
	}
	m := ComputeMetrics(points, AnnualizationDaily)
	if !almost(m.TotalReturn, 1.02*0.99-1) {
		t.Errorf("TotalReturn = %v", m.TotalReturn)
	}
	if !almost(m.MaxDrawdown, -0.01) {
		t.Errorf("MaxDrawdown = %v", m.MaxDrawdown)
	}
}

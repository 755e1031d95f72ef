package girohist

import (
	"math"
	"slices"
)

// AnnualizationDaily is the annualization factor of a calendar-dense daily
// return series.
const AnnualizationDaily = 365

// Metrics are the descriptive statistics of a daily return series. All
// ratio metrics are annualized with the given factor; a metric that is not
// defined on the series (too short, no losses, no drawdown) is NaN.
type Metrics struct {
	TotalReturn float64
	CAGR        float64
	Mean        float64 // annualized arithmetic mean
	Median      float64 // annualized median
	Std         float64 // annualized sample standard deviation
	DownsideDev float64 // annualized, losses only
	Sharpe      float64
	Sortino     float64
	Calmar      float64
	MaxDrawdown float64
	AvgDrawdown float64
	TStat       float64
}

// ComputeMetrics evaluates every metric over the daily returns of a series.
func ComputeMetrics(points []ReturnPoint, annFreq int) Metrics {
	daily := make([]float64, len(points))
	for i, p := range points {
		daily[i] = p.Daily
	}
	maxDD := MaxDrawdown(daily)
	return Metrics{
		TotalReturn: TotalReturn(daily),
		CAGR:        CAGR(daily, annFreq),
		Mean:        Mean(daily, annFreq),
		Median:      Median(daily, annFreq),
		Std:         Std(daily, annFreq),
		DownsideDev: DownsideDeviation(daily, annFreq),
		Sharpe:      Sharpe(daily, annFreq),
		Sortino:     Sortino(daily, annFreq),
		Calmar:      CAGR(daily, annFreq) / math.Abs(maxDD),
		MaxDrawdown: maxDD,
		AvgDrawdown: AvgDrawdown(daily),
		TStat:       TStat(daily),
	}
}

// TotalReturn is the total geometric return of a period return series.
func TotalReturn(series []float64) float64 {
	prod := 1.0
	for _, r := range series {
		prod *= 1 + r
	}
	return prod - 1
}

// CAGR is the compound annual growth rate of a period return series.
func CAGR(series []float64, annFreq int) float64 {
	if len(series) == 0 {
		return math.NaN()
	}
	return math.Pow(1+TotalReturn(series), float64(annFreq)/float64(len(series))) - 1
}

// Mean is the annualized arithmetic mean of a period return series.
func Mean(series []float64, annFreq int) float64 {
	return mean(series) * float64(annFreq)
}

// Median is the annualized median of a period return series.
func Median(series []float64, annFreq int) float64 {
	if len(series) == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(series)
	slices.Sort(sorted)
	n := len(sorted)
	med := sorted[n/2]
	if n%2 == 0 {
		med = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return med * float64(annFreq)
}

// Std is the annualized sample standard deviation of a period return series.
func Std(series []float64, annFreq int) float64 {
	return sampleStd(series) * math.Sqrt(float64(annFreq))
}

// DownsideDeviation is the annualized deviation of the losing periods only,
// over the same sample denominator as Std.
func DownsideDeviation(series []float64, annFreq int) float64 {
	if len(series) < 2 {
		return math.NaN()
	}
	var sum float64
	for _, r := range series {
		if r < 0 {
			sum += r * r
		}
	}
	return math.Sqrt(sum/float64(len(series)-1)) * math.Sqrt(float64(annFreq))
}

// Sharpe is the annualized ratio of mean return to standard deviation.
func Sharpe(series []float64, annFreq int) float64 {
	return mean(series) / sampleStd(series) * math.Sqrt(float64(annFreq))
}

// Sortino is the annualized ratio of mean return to downside deviation.
// NaN when the series has no losing period.
func Sortino(series []float64, annFreq int) float64 {
	var losses int
	for _, r := range series {
		if r < 0 {
			losses++
		}
	}
	if len(series) < 2 || losses == 0 {
		return math.NaN()
	}
	var sum float64
	for _, r := range series {
		if r < 0 {
			sum += r * r
		}
	}
	return mean(series) / math.Sqrt(sum/float64(len(series)-1)) * math.Sqrt(float64(annFreq))
}

// TStat is the plain t-statistic of the mean period return.
func TStat(series []float64) float64 {
	if len(series) == 0 {
		return math.NaN()
	}
	return mean(series) / sampleStd(series) * math.Sqrt(float64(len(series)))
}

// MaxDrawdown is the deepest geometric peak-to-trough loss; NaN when the
// series never leaves its running peak.
func MaxDrawdown(series []float64) float64 {
	worst := 0.0
	for _, dd := range drawdowns(series) {
		if dd < worst {
			worst = dd
		}
	}
	if worst == 0 {
		return math.NaN()
	}
	return worst
}

// AvgDrawdown is the mean trough of the distinct drawdown episodes lasting
// more than one period; 0 when the series has none.
func AvgDrawdown(series []float64) float64 {
	dd := drawdowns(series)
	var troughs []float64
	for i := 0; i < len(dd); {
		if dd[i] == 0 {
			i++
			continue
		}
		trough := dd[i]
		j := i + 1
		for j < len(dd) && dd[j] != 0 {
			if dd[j] < trough {
				trough = dd[j]
			}
			j++
		}
		if j-i > 1 {
			troughs = append(troughs, trough)
		}
		i = j
	}
	if len(troughs) == 0 {
		return 0
	}
	return mean(troughs)
}

// drawdowns is the running distance below the cumulative growth peak.
func drawdowns(series []float64) []float64 {
	dd := make([]float64, len(series))
	growth, peak := 1.0, 1.0
	for i, r := range series {
		growth *= 1 + r
		if growth > peak {
			peak = growth
		}
		dd[i] = (growth - peak) / peak
	}
	return dd
}

func mean(series []float64) float64 {
	if len(series) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, r := range series {
		sum += r
	}
	return sum / float64(len(series))
}

func sampleStd(series []float64) float64 {
	if len(series) < 2 {
		return math.NaN()
	}
	m := mean(series)
	var sum float64
	for _, r := range series {
		d := r - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(series)-1))
}

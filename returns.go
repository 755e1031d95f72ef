package girohist

// ReturnPoint is one day of the time-weighted return series.
type ReturnPoint struct {
	Date       Date
	Daily      float64 // flow-adjusted single-day return
	Cumulative float64 // geometric linking of all daily returns so far
}

// ComputeReturns derives the daily time-weighted return series from a dense
// snapshot sequence, one point per snapshot, starting at zero.
//
// Flows are taken to land at the start of their day, so the day's return is
// (V(t) - CF(t) - V(t-1)) / V(t-1): a deposit immediately invested moves the
// value but not the return. A zero baseline cannot attribute a return, so the
// day after an empty portfolio scores 0 rather than dividing by zero.
//
// A snapshot holding a position without a valuation has no defined portfolio
// value; the series refuses to run over it instead of faking a zero return.
func ComputeReturns(snapshots []PortfolioSnapshot) ([]ReturnPoint, error) {
	if len(snapshots) == 0 {
		return nil, nil
	}
	for _, snap := range snapshots {
		for _, row := range snap.Rows {
			if row.Unpriced {
				return nil, &UnpricedError{Asset: row.Asset, On: snap.Date}
			}
		}
	}

	points := make([]ReturnPoint, 0, len(snapshots))
	points = append(points, ReturnPoint{Date: snapshots[0].Date})
	prev := snapshots[0].Value().AsFloat()
	linked := 1.0
	for _, snap := range snapshots[1:] {
		value := snap.Value().AsFloat()
		flow := snap.ExternalFlow.AsFloat()
		var daily float64
		if prev != 0 {
			daily = (value - flow - prev) / prev
		}
		linked *= 1 + daily
		points = append(points, ReturnPoint{Date: snap.Date, Daily: daily, Cumulative: linked - 1})
		prev = value
	}
	return points, nil
}

// Link recomputes the cumulative series from the stored daily returns. It
// reproduces the Cumulative fields of ComputeReturns within float tolerance.
func Link(points []ReturnPoint) []float64 {
	linked := make([]float64, len(points))
	acc := 1.0
	for i, p := range points {
		if i > 0 {
			acc *= 1 + p.Daily
		}
		linked[i] = acc - 1
	}
	return linked
}

package indicators

// MACDResult holds the three MACD series, index-aligned with the input.
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// CalculateMACD computes MACD line, signal line and histogram over closing
// prices with the given fast/slow/signal spans (12/26/9 in the standard
// configuration).
func CalculateMACD(closes []float64, fast, slow, signal int) MACDResult {
	n := len(closes)
	res := MACDResult{
		Line:      make([]float64, n),
		Signal:    make([]float64, n),
		Histogram: make([]float64, n),
	}
	if n == 0 {
		return res
	}

	fastEWM := CalculateEWM(closes, fast)
	slowEWM := CalculateEWM(closes, slow)
	for i := 0; i < n; i++ {
		res.Line[i] = fastEWM[i] - slowEWM[i]
	}

	res.Signal = CalculateEWM(res.Line, signal)
	for i := 0; i < n; i++ {
		res.Histogram[i] = res.Line[i] - res.Signal[i]
	}
	return res
}

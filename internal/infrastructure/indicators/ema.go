package indicators

// CalculateEMA computes the Exponential Moving Average, seeded with an SMA
// over the first period.
func CalculateEMA(data []float64, period int) []float64 {
	ema := make([]float64, len(data))
	if len(data) < period {
		return ema
	}

	k := 2.0 / (float64(period) + 1.0)

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += data[i]
	}
	ema[period-1] = sum / float64(period)

	for i := period; i < len(data); i++ {
		ema[i] = (data[i] * k) + (ema[i-1] * (1 - k))
	}

	return ema
}

// CalculateEWM computes the span-based exponentially weighted mean starting
// from the first sample, without an SMA warmup. MACD uses this variant so
// values exist from the start of the series.
func CalculateEWM(data []float64, span int) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}

	k := 2.0 / (float64(span) + 1.0)
	out[0] = data[0]
	for i := 1; i < len(data); i++ {
		out[i] = (data[i] * k) + (out[i-1] * (1 - k))
	}
	return out
}

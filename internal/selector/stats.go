package selector

import "math"

// mean returns the arithmetic mean, 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev returns the population standard deviation, 0 for fewer than two
// values.
func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// correlation returns the Pearson correlation of two equal-length series.
// Undefined cases (fewer than two points, zero variance on either side)
// return 0 rather than NaN.
func correlation(xs, ys []float64) float64 {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return 0
	}

	mx, my := mean(xs), mean(ys)
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}
	return sxy / math.Sqrt(sxx*syy)
}

// minMaxNormalize scales values into [0, 1]. A set with fewer than two
// members or with constant values normalizes to 0.5 for every member,
// which sidesteps the divide-by-zero ambiguity.
func minMaxNormalize(xs []float64) []float64 {
	out := make([]float64, len(xs))
	if len(xs) < 2 {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}

	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	if hi == lo {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}

	for i, x := range xs {
		out[i] = (x - lo) / (hi - lo)
	}
	return out
}

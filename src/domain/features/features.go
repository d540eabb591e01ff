// Package features provides the stateless numeric primitives the country
// ranking pipeline composes from. No I/O, no provider access, no config.
package features

import (
	"math"
	"sort"

	"github.com/macrorun/macrorun/src/domain/num"
	"github.com/macrorun/macrorun/src/domain/timeseries"
)

// zeroVarianceEps is the threshold below which a cross-section is treated as
// degenerate (all entries effectively equal).
const zeroVarianceEps = 1e-12

// PctChangeN returns the fractional change over the last n observations,
// (latest / value n steps back) − 1. None when the series has n or fewer
// observations or the reference value is exactly zero.
func PctChangeN(s timeseries.Series, n int) num.Float {
	if n <= 0 || s.Len() <= n {
		return num.None()
	}
	start := s.At(s.Len() - 1 - n).Value
	end := s.At(s.Len() - 1).Value
	if start == 0 {
		return num.None()
	}
	return num.F(end/start - 1.0)
}

// MovingAverage returns the simple rolling mean with full windows only: the
// output holds one point per input observation from index window−1 onward.
// Empty result when window <= 1 or the input is empty.
func MovingAverage(s timeseries.Series, window int) timeseries.Series {
	if window <= 1 || s.Len() < window {
		return timeseries.Empty()
	}

	points := make([]timeseries.Point, 0, s.Len()-window+1)
	sum := 0.0
	for i := 0; i < s.Len(); i++ {
		sum += s.At(i).Value
		if i >= window {
			sum -= s.At(i - window).Value
		}
		if i >= window-1 {
			points = append(points, timeseries.Point{
				Time:  s.At(i).Time,
				Value: sum / float64(window),
			})
		}
	}
	return timeseries.New(points)
}

// ZScoreCrossSection standardizes a same-moment collection of values across
// entities: (x − mean) / stddev over the valid entries. A degenerate
// cross-section (stddev below the near-zero threshold, or fewer than one
// valid entry) yields 0 for every valid entry. None stays None.
func ZScoreCrossSection(values []num.Float) []num.Float {
	out := make([]num.Float, len(values))

	n := 0
	sum := 0.0
	for _, v := range values {
		if x, ok := v.Float64(); ok {
			sum += x
			n++
		}
	}
	if n == 0 {
		copy(out, values)
		return out
	}

	mean := sum / float64(n)
	var ss float64
	for _, v := range values {
		if x, ok := v.Float64(); ok {
			d := x - mean
			ss += d * d
		}
	}
	std := math.Sqrt(ss / float64(n))

	for i, v := range values {
		x, ok := v.Float64()
		switch {
		case !ok:
			out[i] = num.None()
		case std < zeroVarianceEps:
			out[i] = num.F(0)
		default:
			out[i] = num.F((x - mean) / std)
		}
	}
	return out
}

// Clip bounds every valid value to [lo, hi]. None passes through.
func Clip(values []num.Float, lo, hi float64) []num.Float {
	out := make([]num.Float, len(values))
	for i, v := range values {
		x, ok := v.Float64()
		if !ok {
			out[i] = num.None()
			continue
		}
		out[i] = num.F(math.Max(lo, math.Min(hi, x)))
	}
	return out
}

// Winsorize clips values at the empirical p and 1−p quantiles. No-op when no
// entry is valid.
func Winsorize(values []num.Float, p float64) []num.Float {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if x, ok := v.Float64(); ok {
			valid = append(valid, x)
		}
	}
	if len(valid) == 0 {
		out := make([]num.Float, len(values))
		copy(out, values)
		return out
	}

	sort.Float64s(valid)
	lo := quantile(valid, p)
	hi := quantile(valid, 1-p)
	return Clip(values, lo, hi)
}

// quantile computes the q-th quantile of sorted values with linear
// interpolation between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	q = math.Max(0, math.Min(1, q))
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// RelativeStrength is the difference of two windowed returns after aligning
// both series on shared dates. None when the joined history is too short or
// either return is undefined.
func RelativeStrength(a, b timeseries.Series, n int) num.Float {
	ja, jb := timeseries.InnerJoin(a, b)
	if ja.Len() <= n {
		return num.None()
	}
	return PctChangeN(ja, n).Sub(PctChangeN(jb, n))
}

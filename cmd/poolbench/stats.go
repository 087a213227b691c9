package main

import (
	"math"
	"sort"
)

// percentileOfSorted extracts the value at the pct percentile of a sorted
// sample set using linear interpolation. Results are nonsensical if the
// samples are not sorted.
func percentileOfSorted(sorted []float64, pct float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}
	rank := (pct / 100) * float64(len(sorted)-1)
	lrank := math.Floor(rank)
	d := rank - lrank
	n := int(lrank)
	lo := sorted[n]
	hi := sorted[n+1]
	return lo + (hi-lo)*d
}

// winsorize clamps samples above the 100-pct percentile and below the pct
// percentile to those percentiles. Unlike trimming, the sample count stays
// the same; only the outlier values change.
//
// See: http://en.wikipedia.org/wiki/Winsorising
func winsorize(samples []float64, pct float64) {
	sort.Float64s(samples)
	lo := percentileOfSorted(samples, pct)
	hi := percentileOfSorted(samples, 100-pct)
	for i, s := range samples {
		if s > hi {
			samples[i] = hi
		} else if s < lo {
			samples[i] = lo
		}
	}
}

// summary holds the statistics of one benchmark's sample set.
type summary struct {
	Min             float64 `json:"min"`
	Max             float64 `json:"max"`
	Median          float64 `json:"median"`
	MedianAbsDev    float64 `json:"median_abs_dev"`
	MedianAbsDevPct float64 `json:"median_abs_dev_pct"`
}

func newSummary(samples []float64) summary {
	s := summary{
		Min:    samples[0],
		Max:    samples[0],
		Median: percentile(samples, 50),
	}
	for _, v := range samples {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	// Scale by the consistency constant so the MAD estimates the standard
	// deviation for normally distributed samples.
	absDevs := make([]float64, len(samples))
	for i, v := range samples {
		absDevs[i] = math.Abs(s.Median - v)
	}
	s.MedianAbsDev = percentile(absDevs, 50) * 1.4826
	if s.Median != 0 {
		s.MedianAbsDevPct = 100 * s.MedianAbsDev / s.Median
	}
	return s
}

// percentile sorts a copy of samples and interpolates the pct percentile.
func percentile(samples []float64, pct float64) float64 {
	tmp := make([]float64, len(samples))
	copy(tmp, samples)
	sort.Float64s(tmp)
	return percentileOfSorted(tmp, pct)
}

package main

import (
	"time"
)

// benchFunc runs one iteration of a benchmark body. A non-nil error aborts
// the whole benchmark: the pools report allocation failure as an error, and
// a failing allocation invalidates the measurement.
type benchFunc func() error

// bencher times repeated runs of a benchmark body.
type bencher struct {
	iterations uint64
	duration   time.Duration
}

func (b *bencher) nsPerIter() float64 {
	if b.iterations == 0 {
		return 0
	}
	return float64(b.duration.Nanoseconds()) / float64(b.iterations)
}

func (b *bencher) benchN(n uint64, fn benchFunc) error {
	b.iterations = n
	b.duration = 0
	start := time.Now()
	for i := uint64(0); i < n; i++ {
		if err := fn(); err != nil {
			return err
		}
	}
	b.duration = time.Since(start)
	return nil
}

// autoBench repeatedly samples fn, winsorizing each sample set, until the
// median stabilizes or the time budget runs out.
func (b *bencher) autoBench(fn benchFunc) (summary, error) {
	// Initial run to get a ballpark figure.
	if err := b.benchN(1, fn); err != nil {
		return summary{}, err
	}

	// Estimate the iteration count for roughly 1ms per sample, falling back
	// to a million iterations when the first run was too fast to measure.
	var n uint64
	if ns := b.nsPerIter(); ns < 1 {
		n = 1000000
	} else {
		n = uint64(1000000 / ns)
	}
	if n == 0 {
		// A single iteration already exceeds the sample budget; the larger
		// variance of small n shows up in the error bars instead.
		n = 1
	}

	samples := make([]float64, 50)
	var summ, summ5 summary
	var totalRun time.Duration
	for {
		loopStart := time.Now()
		for i := range samples {
			if err := b.benchN(n, fn); err != nil {
				return summary{}, err
			}
			samples[i] = b.nsPerIter()
		}
		winsorize(samples, 5)
		summ = newSummary(samples)

		for i := range samples {
			if err := b.benchN(n*5, fn); err != nil {
				return summary{}, err
			}
			samples[i] = b.nsPerIter()
		}
		winsorize(samples, 5)
		summ5 = newSummary(samples)

		// Stop once we have run for 100ms and the medians of the two sample
		// sets have converged.
		loopRun := time.Since(loopStart)
		if loopRun > 100*time.Millisecond &&
			summ.MedianAbsDevPct < 1.0 &&
			summ.Median-summ5.Median < summ5.MedianAbsDev {
			return summ5, nil
		}

		totalRun += loopRun
		// Longest we ever run for is 3s.
		if totalRun > 3*time.Second {
			return summ5, nil
		}

		n *= 2
	}
}

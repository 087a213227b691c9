package main

import (
	"math"
	"testing"
)

func Test_PercentileOfSorted(t *testing.T) {
	single := []float64{42}
	if got := percentileOfSorted(single, 50); got != 42 {
		t.Fatalf("single sample: got %v", got)
	}

	sorted := []float64{1, 2, 3, 4, 5}
	cases := []struct {
		pct  float64
		want float64
	}{
		{0, 1},
		{50, 3},
		{100, 5},
		{25, 2},
		{75, 4},
	}
	for _, c := range cases {
		if got := percentileOfSorted(sorted, c.pct); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("pct %v: got %v, want %v", c.pct, got, c.want)
		}
	}
}

func Test_Winsorize_ClampsOutliers(t *testing.T) {
	samples := []float64{1, 10, 11, 12, 13, 14, 15, 16, 17, 1000}
	winsorize(samples, 10)
	for _, s := range samples {
		if s == 1 || s == 1000 {
			t.Fatalf("outlier %v survived winsorizing", s)
		}
	}
	// Sample count is unchanged, unlike trimming.
	if len(samples) != 10 {
		t.Fatalf("sample count changed: %d", len(samples))
	}
}

func Test_Summary(t *testing.T) {
	samples := []float64{10, 12, 14, 16, 18}
	s := newSummary(samples)
	if s.Min != 10 || s.Max != 18 {
		t.Fatalf("min/max: got %v/%v", s.Min, s.Max)
	}
	if s.Median != 14 {
		t.Fatalf("median: got %v", s.Median)
	}
	if s.MedianAbsDev <= 0 {
		t.Fatalf("median abs dev: got %v", s.MedianAbsDev)
	}
}

func Test_Bencher_CountsIterations(t *testing.T) {
	var b bencher
	n := 0
	err := b.benchN(100, func() error {
		n++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 100 {
		t.Fatalf("ran %d iterations, want 100", n)
	}
	if b.nsPerIter() < 0 {
		t.Fatalf("negative ns/iter")
	}
}

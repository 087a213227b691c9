package mem

import (
	"math"
	"testing"
)

func Test_AddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(10, 5); !ok || sum != 15 {
		t.Fatalf("AddOverflowSafe(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxInt, 1); ok {
		t.Fatalf("expected overflow when adding to MaxInt")
	}
	if _, ok := AddOverflowSafe(math.MinInt, -1); ok {
		t.Fatalf("expected underflow when subtracting from MinInt")
	}
}

func Test_MulOverflowSafe(t *testing.T) {
	if got, ok := MulOverflowSafe(1024, 64); !ok || got != 65536 {
		t.Fatalf("MulOverflowSafe(1024,64)=%d,%v want 65536,true", got, ok)
	}
	if got, ok := MulOverflowSafe(0, math.MaxInt); !ok || got != 0 {
		t.Fatalf("MulOverflowSafe(0,MaxInt)=%d,%v want 0,true", got, ok)
	}
	if _, ok := MulOverflowSafe(math.MaxInt, 2); ok {
		t.Fatalf("expected overflow multiplying MaxInt by 2")
	}
	if _, ok := MulOverflowSafe(math.MinInt, -1); ok {
		t.Fatalf("expected overflow multiplying MinInt by -1")
	}
}

func Test_AlignOverflowSafe(t *testing.T) {
	if got, ok := AlignOverflowSafe(100, 64); !ok || got != 128 {
		t.Fatalf("AlignOverflowSafe(100,64)=%d,%v want 128,true", got, ok)
	}
	if got, ok := AlignOverflowSafe(128, 64); !ok || got != 128 {
		t.Fatalf("AlignOverflowSafe(128,64)=%d,%v want 128,true", got, ok)
	}
	if _, ok := AlignOverflowSafe(math.MaxInt-1, 64); ok {
		t.Fatalf("expected overflow aligning near MaxInt")
	}
}

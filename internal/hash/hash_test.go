package hash

import "testing"

func TestMethodHasherDeterministic(t *testing.T) {
	h1 := New()
	h2 := New()

	a := h1.Hash("foo")
	b := h2.Hash("foo")

	if a != b {
		t.Errorf("expected equal hashes across invocations, got %d and %d", a, b)
	}
}

func TestMethodHasherInterns(t *testing.T) {
	h := New()

	a := h.Hash("bar")
	b := h.Hash("bar")

	if a != b {
		t.Errorf("expected cached hash to be stable, got %d then %d", a, b)
	}
	if len(h.seen) != 1 {
		t.Errorf("expected one interned entry, got %d", len(h.seen))
	}
}

func TestMethodHasherDistinctShapesDiffer(t *testing.T) {
	h := New()

	a := h.Hash("push" + "i64")
	b := h.Hash("push" + "f64")

	if a == b {
		t.Errorf("expected distinct shapes to hash differently, got equal hash %d", a)
	}
}

func TestNextPow2(t *testing.T) {
	tests := []struct {
		in   uint64
		want uint64
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 4},
		{65, 128},
	}

	for _, tt := range tests {
		if got := NextPow2(tt.in); got != tt.want {
			t.Errorf("NextPow2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCapacity(t *testing.T) {
	tests := []struct {
		methodCount int
		want        int
	}{
		{0, 64},
		{1, 64},
		{3, 64},
		{16, 64},
		{17, 128},
	}

	for _, tt := range tests {
		if got := Capacity(tt.methodCount); got != tt.want {
			t.Errorf("Capacity(%d) = %d, want %d", tt.methodCount, got, tt.want)
		}
	}
}

func TestCapacityAlwaysPowerOfTwoAndAtLeastMin(t *testing.T) {
	for n := 0; n < 200; n++ {
		c := Capacity(n)
		if c < MinSize {
			t.Fatalf("Capacity(%d) = %d is below MinSize %d", n, c, MinSize)
		}
		if c&(c-1) != 0 {
			t.Fatalf("Capacity(%d) = %d is not a power of two", n, c)
		}
	}
}

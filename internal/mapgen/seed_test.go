package mapgen

import (
	"errors"
	"testing"
)

// checkErrCode asserts err carries the given machine-readable code.
func checkErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	var ge *GenError
	if !errors.As(err, &ge) {
		t.Fatalf("expected *GenError, got %T: %v", err, err)
	}
	if ge.Code != code {
		t.Fatalf("error code = %s, want %s: %v", ge.Code, code, err)
	}
}

func TestSeedFromNumber_Range(t *testing.T) {
	for _, n := range []int64{0, -1, -999, MaxSeed + 1} {
		if _, err := SeedFromNumber(n); err == nil {
			t.Fatalf("seed %d should be rejected", n)
		} else {
			checkErrCode(t, err, CodeSeedOutOfRange)
		}
	}
	for _, n := range []int64{1, 42, MaxSeed} {
		s, err := SeedFromNumber(n)
		if err != nil {
			t.Fatalf("seed %d should be accepted: %v", n, err)
		}
		if int64(s) != n {
			t.Fatalf("seed %d round-tripped to %d", n, s)
		}
	}
}

func TestSeedFromString_Deterministic(t *testing.T) {
	a, err := SeedFromString("epic-mountain-valley")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := SeedFromString("epic-mountain-valley")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Fatalf("same string hashed to %d and %d", a, b)
	}
	if a <= 0 || int64(a) > MaxSeed {
		t.Fatalf("seed %d outside canonical range", a)
	}
	c, _ := SeedFromString("epic-mountain-walley")
	if c == a {
		t.Fatal("distinct strings should not collide on adjacent inputs")
	}
}

func TestSeedFromString_Empty(t *testing.T) {
	_, err := SeedFromString("")
	checkErrCode(t, err, CodeSeedEmptyString)
}

func TestSeed_DeriveIndependence(t *testing.T) {
	s := Seed(12345)
	labels := []string{"geology", "topography", "hydrology", "vegetation", "structures", "mixing"}
	seen := map[Seed]string{}
	for _, l := range labels {
		d := s.Derive(l)
		if d <= 0 || int64(d) > MaxSeed {
			t.Fatalf("derived seed %d for %q outside range", d, l)
		}
		if prev, ok := seen[d]; ok {
			t.Fatalf("labels %q and %q derived the same seed %d", prev, l, d)
		}
		seen[d] = l
		if d != s.Derive(l) {
			t.Fatalf("Derive(%q) not stable", l)
		}
	}
}

func TestSeed_DeriveIndexDistinct(t *testing.T) {
	s := Seed(7)
	seen := map[Seed]int{}
	for i := 0; i < 64; i++ {
		d := s.DeriveIndex("tree", i)
		if prev, ok := seen[d]; ok {
			t.Fatalf("indices %d and %d derived the same seed %d", prev, i, d)
		}
		seen[d] = i
	}
}

func TestSeed_RNGRepeatable(t *testing.T) {
	s := Seed(99)
	a := s.RNG()
	b := s.RNG()
	for i := 0; i < 32; i++ {
		av, bv := a.Float64(), b.Float64()
		if av != bv {
			t.Fatalf("draw %d diverged: %v vs %v", i, av, bv)
		}
	}
}

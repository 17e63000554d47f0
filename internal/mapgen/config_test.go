package mapgen

import (
	"math"
	"strings"
	"testing"
)

func TestParseBiome_KnownNames(t *testing.T) {
	cases := map[string]Biome{
		"temperate-forest": BiomeTemperateForest,
		"grassland":        BiomeGrassland,
		"alpine":           BiomeAlpine,
		"wetland":          BiomeWetland,
		"arid":             BiomeArid,
	}
	for name, want := range cases {
		got, err := ParseBiome(name)
		if err != nil {
			t.Fatalf("ParseBiome(%q) failed: %v", name, err)
		}
		if got != want {
			t.Fatalf("ParseBiome(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestParseBiome_SuggestsClosest(t *testing.T) {
	_, err := ParseBiome("temperate-forrest")
	checkErrCode(t, err, CodeBiomeUnknown)
	if !strings.Contains(err.Error(), `"temperate-forest"`) {
		t.Fatalf("expected suggestion in error, got: %v", err)
	}
}

func TestRequestValidate_DimensionBounds(t *testing.T) {
	seed := Seed(42)
	bad := [][2]int{
		{MinMapEdge - 1, 40},
		{50, MinMapEdge - 1},
		{MaxMapEdge + 1, 40},
		{50, MaxMapEdge + 1},
	}
	for _, c := range bad {
		req := DefaultRequest("t", c[0], c[1], seed)
		err := req.Validate()
		checkErrCode(t, err, CodeMapInvalidDimensions)
	}
	good := [][2]int{
		{MinMapEdge, MinMapEdge},
		{MaxMapEdge, MaxMapEdge},
		{50, 40},
	}
	for _, c := range good {
		req := DefaultRequest("t", c[0], c[1], seed)
		if err := req.Validate(); err != nil {
			t.Fatalf("dimensions %dx%d should validate: %v", c[0], c[1], err)
		}
	}
}

func TestRequestValidate_SubConfigs(t *testing.T) {
	req := DefaultRequest("t", 50, 40, Seed(42))
	req.Topography.Ruggedness = RuggednessMax + 0.1
	checkErrCode(t, req.Validate(), CodeParamOutOfRange)

	req = DefaultRequest("t", 50, 40, Seed(42))
	req.Hydrology.WaterAbundance = -0.1
	checkErrCode(t, req.Validate(), CodeParamOutOfRange)

	req = DefaultRequest("t", 50, 40, Seed(42))
	req.Vegetation.Diversity = 1.5
	checkErrCode(t, req.Validate(), CodeParamOutOfRange)

	req = DefaultRequest("t", 50, 40, Seed(42))
	req.Seed = 0
	checkErrCode(t, req.Validate(), CodeSeedOutOfRange)

	req = DefaultRequest("t", 50, 40, Seed(42))
	req.CellSize = 0
	checkErrCode(t, req.Validate(), CodeParamOutOfRange)
}

func TestAbundanceInterp_Anchors(t *testing.T) {
	cases := []struct {
		abundance, want float64
	}{
		{0, 26},
		{1, 14},
		{2, 7},
		{0.5, 20},   // midpoint dry side
		{1.5, 10.5}, // midpoint wet side
		{-3, 26},    // clamped
		{9, 7},      // clamped
	}
	for _, c := range cases {
		got := abundanceInterp(c.abundance, 26, 14, 7)
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("abundanceInterp(%v) = %v, want %v", c.abundance, got, c.want)
		}
	}
}

func TestGenError_Retryable(t *testing.T) {
	if (&GenError{Kind: KindValidation}).Retryable() {
		t.Fatal("validation errors must not be retryable")
	}
	if (&GenError{Kind: KindDeterministic}).Retryable() {
		t.Fatal("determinism errors must not be retryable")
	}
	if !(&GenError{Kind: KindDomainRule}).Retryable() {
		t.Fatal("domain-rule errors should be retryable")
	}
	if !(&GenError{Kind: KindInfrastructure}).Retryable() {
		t.Fatal("infrastructure errors should be retryable")
	}
}

func TestGenError_MessageShape(t *testing.T) {
	err := paramError("topography", "Validate", "ruggedness", 3.0, RuggednessMin, RuggednessMax)
	msg := err.Error()
	for _, part := range []string{CodeParamOutOfRange, "topography", "Validate", "ruggedness"} {
		if !strings.Contains(msg, part) {
			t.Fatalf("error message missing %q: %s", part, msg)
		}
	}
	// Context keys render sorted, so the message is stable.
	if err.Error() != msg {
		t.Fatal("error rendering should be stable")
	}
}

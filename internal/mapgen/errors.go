package mapgen

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorKind classifies a generation failure for retry policy purposes.
type ErrorKind int

const (
	// KindValidation marks bad caller input. Never retried.
	KindValidation ErrorKind = iota
	// KindDomainRule marks a legal request that hit a generation-time
	// conflict (collision, unsuitable terrain). Sometimes retryable with
	// adjusted placement.
	KindDomainRule
	// KindDeterministic marks a broken internal invariant, e.g. two runs
	// of one seed diverging. Always fatal.
	KindDeterministic
	// KindInfrastructure marks resource exhaustion. Retryable with
	// bounded attempts.
	KindInfrastructure
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDomainRule:
		return "domain-rule"
	case KindDeterministic:
		return "deterministic"
	case KindInfrastructure:
		return "infrastructure"
	default:
		return "unknown"
	}
}

// Machine-readable error codes surfaced to the transport layer.
const (
	CodeMapInvalidDimensions   = "MAP_INVALID_DIMENSIONS"
	CodeSeedOutOfRange         = "SEED_OUT_OF_RANGE"
	CodeSeedEmptyString        = "SEED_EMPTY_STRING"
	CodeParamOutOfRange        = "PARAM_OUT_OF_RANGE"
	CodeBiomeUnknown           = "BIOME_UNKNOWN"
	CodeBuildingCollision      = "BUILDING_COLLISION"
	CodeRoomAreaExceeded       = "ROOM_AREA_EXCEEDED"
	CodeConfluenceOutsideArea  = "CONFLUENCE_OUTSIDE_AREA"
	CodeTerrainUnsuitable      = "TERRAIN_UNSUITABLE"
	CodeFootprintOutOfBounds   = "FOOTPRINT_OUT_OF_BOUNDS"
	CodeStageDependencyMissing = "STAGE_DEPENDENCY_MISSING"
	CodeDeterminismBroken      = "DETERMINISM_BROKEN"
)

// GenError is the package error type: a machine-readable code, a
// human-readable explanation, and structured context for the caller.
type GenError struct {
	Code      string
	Kind      ErrorKind
	Component string
	Op        string
	Message   string
	Context   map[string]any
	Err       error
}

func (e *GenError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s/%s]: %s", e.Code, e.Component, e.Op, e.Message)
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.Context[k])
		}
		b.WriteString(")")
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *GenError) Unwrap() error { return e.Err }

// Retryable reports whether the failure may be retried, per the taxonomy.
func (e *GenError) Retryable() bool {
	return e.Kind == KindDomainRule || e.Kind == KindInfrastructure
}

// paramError builds the standard out-of-range validation error.
func paramError(component, op, param string, value, min, max float64) *GenError {
	return &GenError{
		Code:      CodeParamOutOfRange,
		Kind:      KindValidation,
		Component: component,
		Op:        op,
		Message:   fmt.Sprintf("%s %.3f outside valid range [%.2f, %.2f]", param, value, min, max),
		Context:   map[string]any{"param": param, "value": value, "min": min, "max": max},
	}
}

// Package tonemap maps linear radiance into the unit display range.
package tonemap

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Operator maps one linear channel value into [0, 1].
type Operator func(x float64) float64

// Clamp is the default operator: values below 0 become 0, values above 1
// become 1, everything in between passes through.
func Clamp(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// Reinhard compresses [0, inf) into [0, 1) with x / (1 + x).
func Reinhard(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if math.IsInf(x, 1) {
		return 1
	}
	return x / (1 + x)
}

// Exposure scales input by 2^stops before applying op.
func Exposure(stops float64, op Operator) Operator {
	k := math.Exp2(stops)
	return func(x float64) float64 {
		return op(x * k)
	}
}

var operators = map[string]Operator{
	"clamp":    Clamp,
	"reinhard": Reinhard,
}

// Lookup returns the per-channel operator registered under name.
func Lookup(name string) (Operator, error) {
	op, ok := operators[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown tone operator %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return op, nil
}

// Names lists the per-channel operators in sorted order.
func Names() []string {
	names := make([]string, 0, len(operators))
	for n := range operators {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

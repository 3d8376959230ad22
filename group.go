package dumpulse

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jpalmerr/dumpulse/pulse"
)

// NewVariableGroup creates consecutive variables from a base name and a set
// of dimensions using cartesian product expansion.
//
// Combinations are assigned ids starting at [WithFirstID] (default 0) in a
// deterministic order: dimension keys sorted alphabetically, the rightmost
// key varying fastest. Each name has the form "Base (v1/v2)" and each
// dimension value becomes a label. Static labels from [WithGroupLabels]
// take precedence over dimension labels on collision.
//
// Example:
//
//	vars, err := dumpulse.NewVariableGroup("Freezer",
//	    dumpulse.WithFirstID(8),
//	    dumpulse.WithDimensions(map[string][]string{
//	        "aisle": {"a", "b"},
//	        "unit":  {"1", "2"},
//	    }),
//	)
//	// ids 8-11: Freezer (a/1), Freezer (a/2), Freezer (b/1), Freezer (b/2)
//
// Returns an error if the expansion would use ids beyond 63.
func NewVariableGroup(baseName string, opts ...GroupOption) ([]Variable, error) {
	if strings.TrimSpace(baseName) == "" {
		return nil, errors.New("base name cannot be empty")
	}

	cfg := &groupConfig{staticLabels: make(map[string]string)}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if len(cfg.dimensions) == 0 {
		return nil, errors.New("at least one dimension required")
	}

	if n, ok := productSize(cfg.dimensions, pulse.NumVariables-cfg.firstID); !ok {
		return nil, fmt.Errorf("group %q needs at least %d ids from %d, beyond the last variable %d",
			baseName, n, cfg.firstID, pulse.NumVariables-1)
	}
	combinations := cartesianProduct(cfg.dimensions)

	vars := make([]Variable, 0, len(combinations))
	for i, combo := range combinations {
		name := formatGroupName(baseName, combo)
		labels := mergeMaps(combo, cfg.staticLabels)

		varOpts := []VariableOption{WithLabels(flattenMap(labels)...)}
		if cfg.staleAfter > 0 {
			varOpts = append(varOpts, WithVariableStaleAfter(cfg.staleAfter))
		}

		v, err := NewVariable(cfg.firstID+i, name, varOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create variable '%s': %w", name, err)
		}
		vars = append(vars, v)
	}
	return vars, nil
}

// cartesianProduct generates all combinations of dimension values.
// Keys are sorted alphabetically for deterministic output.
// Values maintain their original slice order.
//
// Example:
//
//	Input:  {"x": ["a","b"], "y": ["1","2"]}
//	Output: [{"x":"a","y":"1"}, {"x":"a","y":"2"}, {"x":"b","y":"1"}, {"x":"b","y":"2"}]
func cartesianProduct(dims map[string][]string) []map[string]string {
	if len(dims) == 0 {
		return nil
	}

	keys := make([]string, 0, len(dims))
	for k := range dims {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if len(dims[k]) == 0 {
			return nil
		}
	}

	total := 1
	for _, k := range keys {
		total *= len(dims[k])
	}
	result := make([]map[string]string, 0, total)

	indices := make([]int, len(keys))
	for {
		combo := make(map[string]string, len(keys))
		for i, k := range keys {
			combo[k] = dims[k][indices[i]]
		}
		result = append(result, combo)

		// increment indices (rightmost first)
		for i := len(keys) - 1; i >= 0; i-- {
			indices[i]++
			if indices[i] < len(dims[keys[i]]) {
				break
			}
			indices[i] = 0
			if i == 0 {
				return result
			}
		}
	}
}

// productSize multiplies the dimension lengths, stopping as soon as the
// product exceeds limit. ok is false when it does; n is then the partial
// product, which is already past limit.
func productSize(dims map[string][]string, limit int) (n int, ok bool) {
	n = 1
	for _, vals := range dims {
		n *= len(vals)
		if n > limit {
			return n, false
		}
	}
	return n, true
}

// formatGroupName creates a name in the format "Base (v1/v2)".
func formatGroupName(baseName string, combo map[string]string) string {
	keys := make([]string, 0, len(combo))
	for k := range combo {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = combo[k]
	}
	return fmt.Sprintf("%s (%s)", baseName, strings.Join(parts, "/"))
}

// mergeMaps merges multiple maps, with later maps taking precedence.
func mergeMaps(maps ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			result[k] = v
		}
	}
	return result
}

// flattenMap converts a map to sorted key-value pairs for variadic functions.
func flattenMap(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]string, 0, len(m)*2)
	for _, k := range keys {
		result = append(result, k, m[k])
	}
	return result
}

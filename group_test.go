package dumpulse

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestCartesianProduct_TwoDimensions(t *testing.T) {
	dims := map[string][]string{
		"x": {"a", "b"},
		"y": {"1", "2"},
	}

	result := cartesianProduct(dims)

	if len(result) != 4 {
		t.Fatalf("cartesianProduct() returned %d combinations, want 4", len(result))
	}

	// sorted key order (x, y), rightmost varies fastest
	expected := []map[string]string{
		{"x": "a", "y": "1"},
		{"x": "a", "y": "2"},
		{"x": "b", "y": "1"},
		{"x": "b", "y": "2"},
	}
	for i, want := range expected {
		if result[i]["x"] != want["x"] || result[i]["y"] != want["y"] {
			t.Errorf("combination[%d] = %v, want %v", i, result[i], want)
		}
	}
}

func TestCartesianProduct_EmptyInput(t *testing.T) {
	if got := cartesianProduct(nil); got != nil {
		t.Errorf("cartesianProduct(nil) = %v, want nil", got)
	}
	if got := cartesianProduct(map[string][]string{"a": {}}); got != nil {
		t.Errorf("cartesianProduct(empty values) = %v, want nil", got)
	}
}

func TestFormatGroupName(t *testing.T) {
	got := formatGroupName("Pump", map[string]string{"stage": "2", "hall": "east"})
	if got != "Pump (east/2)" {
		t.Errorf("formatGroupName() = %q, want %q", got, "Pump (east/2)")
	}
}

func TestNewVariableGroup_AssignsConsecutiveIDs(t *testing.T) {
	vars, err := NewVariableGroup("Freezer",
		WithFirstID(8),
		WithDimensions(map[string][]string{
			"aisle": {"a", "b"},
			"unit":  {"1", "2"},
		}),
	)
	if err != nil {
		t.Fatalf("NewVariableGroup() error = %v", err)
	}

	wantNames := []string{"Freezer (a/1)", "Freezer (a/2)", "Freezer (b/1)", "Freezer (b/2)"}
	if len(vars) != len(wantNames) {
		t.Fatalf("len(vars) = %d, want %d", len(vars), len(wantNames))
	}
	for i, v := range vars {
		if v.ID() != uint8(8+i) {
			t.Errorf("vars[%d].ID() = %d, want %d", i, v.ID(), 8+i)
		}
		if v.Name() != wantNames[i] {
			t.Errorf("vars[%d].Name() = %q, want %q", i, v.Name(), wantNames[i])
		}
	}

	if got := vars[3].Labels()["aisle"]; got != "b" {
		t.Errorf("vars[3] label aisle = %q, want %q", got, "b")
	}
}

func TestNewVariableGroup_StaticLabelsWin(t *testing.T) {
	vars, err := NewVariableGroup("Node",
		WithDimensions(map[string][]string{"site": {"north"}}),
		WithGroupLabels("site", "override", "team", "ops"),
	)
	if err != nil {
		t.Fatalf("NewVariableGroup() error = %v", err)
	}

	labels := vars[0].Labels()
	if labels["site"] != "override" {
		t.Errorf("label site = %q, want %q", labels["site"], "override")
	}
	if labels["team"] != "ops" {
		t.Errorf("label team = %q, want %q", labels["team"], "ops")
	}
	// the name is built from dimension values, not labels
	if vars[0].Name() != "Node (north)" {
		t.Errorf("Name() = %q, want %q", vars[0].Name(), "Node (north)")
	}
}

func TestNewVariableGroup_StaleAfter(t *testing.T) {
	vars, err := NewVariableGroup("Link",
		WithDimensions(map[string][]string{"port": {"1", "2"}}),
		WithGroupStaleAfter(5*time.Minute),
	)
	if err != nil {
		t.Fatalf("NewVariableGroup() error = %v", err)
	}
	for _, v := range vars {
		if v.StaleAfter() != 5*time.Minute {
			t.Errorf("%s StaleAfter() = %v, want 5m", v.Name(), v.StaleAfter())
		}
	}
}

func TestNewVariableGroup_Errors(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		opts    []GroupOption
		wantErr string
	}{
		{
			name:    "empty base name",
			base:    " ",
			opts:    []GroupOption{WithDimensions(map[string][]string{"a": {"1"}})},
			wantErr: "base name",
		},
		{
			name:    "no dimensions",
			base:    "X",
			wantErr: "dimension",
		},
		{
			name:    "empty dimension values",
			base:    "X",
			opts:    []GroupOption{WithDimensions(map[string][]string{"a": {}})},
			wantErr: "no values",
		},
		{
			name:    "empty value",
			base:    "X",
			opts:    []GroupOption{WithDimensions(map[string][]string{"a": {"1", ""}})},
			wantErr: "empty value",
		},
		{
			name: "beyond last variable",
			base: "X",
			opts: []GroupOption{
				WithFirstID(62),
				WithDimensions(map[string][]string{"a": {"1", "2", "3"}}),
			},
			wantErr: "beyond the last variable",
		},
		{
			name: "product larger than the table",
			base: "X",
			opts: []GroupOption{
				WithDimensions(manyDimensions(64, "a", "b")),
			},
			wantErr: "beyond the last variable",
		},
		{
			name:    "first id out of range",
			base:    "X",
			opts:    []GroupOption{WithFirstID(64)},
			wantErr: "first id",
		},
		{
			name:    "odd labels",
			base:    "X",
			opts:    []GroupOption{WithGroupLabels("k")},
			wantErr: "even number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVariableGroup(tt.base, tt.opts...)
			if err == nil {
				t.Fatal("NewVariableGroup() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewVariableGroup() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

// manyDimensions returns n dimensions d00..dNN sharing the same values.
func manyDimensions(n int, values ...string) map[string][]string {
	dims := make(map[string][]string, n)
	for i := 0; i < n; i++ {
		dims[fmt.Sprintf("d%02d", i)] = values
	}
	return dims
}

func TestProductSize_StopsPastLimit(t *testing.T) {
	tests := []struct {
		name   string
		dims   map[string][]string
		limit  int
		wantOK bool
	}{
		{"fits exactly", map[string][]string{"a": {"1", "2"}, "b": {"1", "2", "3", "4"}}, 8, true},
		{"one over", map[string][]string{"a": {"1", "2", "3"}, "b": {"1", "2", "3"}}, 8, false},
		{"would overflow int", manyDimensions(64, "a", "b"), 64, false},
		{"ten to the tenth", manyDimensions(10, "0", "1", "2", "3", "4", "5", "6", "7", "8", "9"), 64, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := productSize(tt.dims, tt.limit)
			if ok != tt.wantOK {
				t.Errorf("productSize() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok && n <= tt.limit {
				t.Errorf("productSize() n = %d, want > %d when not ok", n, tt.limit)
			}
		})
	}
}

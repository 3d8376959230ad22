package config

import (
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/jpalmerr/dumpulse"
)

func TestBuildVariables_SingleVariable(t *testing.T) {
	cfg := &Config{
		Variables: []VariableConfig{
			{
				ID:         7,
				Name:       "Boiler",
				Labels:     map[string]string{"site": "north"},
				StaleAfter: Duration(30 * time.Second),
			},
		},
	}

	vars, err := BuildVariables(cfg)
	if err != nil {
		t.Fatalf("BuildVariables() error = %v", err)
	}
	if len(vars) != 1 {
		t.Fatalf("len(vars) = %d, want 1", len(vars))
	}

	v := vars[0]
	if v.ID() != 7 || v.Name() != "Boiler" {
		t.Errorf("variable = %d %q, want 7 %q", v.ID(), v.Name(), "Boiler")
	}
	if !reflect.DeepEqual(v.Labels(), map[string]string{"site": "north"}) {
		t.Errorf("Labels() = %v, want site=north", v.Labels())
	}
	if v.StaleAfter() != 30*time.Second {
		t.Errorf("StaleAfter() = %v, want 30s", v.StaleAfter())
	}
}

func TestBuildVariables_Group(t *testing.T) {
	cfg := &Config{
		Groups: []GroupConfig{
			{
				Name:    "Pump",
				FirstID: 10,
				Dimensions: map[string][]string{
					"hall":  {"east", "west"},
					"stage": {"1", "2"},
				},
				Labels:     map[string]string{"team": "ops"},
				StaleAfter: Duration(5 * time.Minute),
			},
		},
	}

	vars, err := BuildVariables(cfg)
	if err != nil {
		t.Fatalf("BuildVariables() error = %v", err)
	}

	wantNames := []string{"Pump (east/1)", "Pump (east/2)", "Pump (west/1)", "Pump (west/2)"}
	if len(vars) != len(wantNames) {
		t.Fatalf("len(vars) = %d, want %d", len(vars), len(wantNames))
	}
	for i, v := range vars {
		if v.ID() != uint8(10+i) {
			t.Errorf("vars[%d].ID() = %d, want %d", i, v.ID(), 10+i)
		}
		if v.Name() != wantNames[i] {
			t.Errorf("vars[%d].Name() = %q, want %q", i, v.Name(), wantNames[i])
		}
		if v.Labels()["team"] != "ops" {
			t.Errorf("vars[%d] missing group label", i)
		}
		if v.StaleAfter() != 5*time.Minute {
			t.Errorf("vars[%d].StaleAfter() = %v, want 5m", i, v.StaleAfter())
		}
	}
}

func TestBuildOptions_FromParsedConfig(t *testing.T) {
	cfg, err := Parse([]byte(`
title: Plant
listen: 127.0.0.1:0
disable_http: true
variables:
  - id: 1
    name: A
  - id: 2
    name: B
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	opts, err := BuildOptions(cfg)
	if err != nil {
		t.Fatalf("BuildOptions() error = %v", err)
	}

	d, err := dumpulse.New(opts...)
	if err != nil {
		t.Fatalf("dumpulse.New() error = %v", err)
	}
	if len(d.Variables()) != 2 {
		t.Errorf("len(Variables()) = %d, want 2", len(d.Variables()))
	}
}

func TestBuildOptions_DuplicateIDsRejectedByDaemon(t *testing.T) {
	// bypass Parse validation to check the daemon still guards ids
	cfg := &Config{
		Listen:        ":0",
		StaleAfter:    Duration(time.Minute),
		SweepInterval: Duration(time.Second),
		Variables: []VariableConfig{
			{ID: 1, Name: "A"},
			{ID: 1, Name: "B"},
		},
	}

	opts, err := BuildOptions(cfg)
	if err != nil {
		t.Fatalf("BuildOptions() error = %v", err)
	}
	if _, err := dumpulse.New(opts...); err == nil {
		t.Error("dumpulse.New() expected error for duplicate ids, got nil")
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Level(tt.in); got != tt.want {
				t.Errorf("Level(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMapToKeyValuePairs_Sorted(t *testing.T) {
	got := mapToKeyValuePairs(map[string]string{"b": "2", "a": "1"})
	want := []string{"a", "1", "b", "2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mapToKeyValuePairs() = %v, want %v", got, want)
	}
}

// Package config provides YAML configuration parsing for Dumpulse.
//
// This package enables running Dumpulse as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Plant Floor
//	listen: "${DUMPULSE_LISTEN:-:9060}"
//	http_port: 8080
//	stale_after: 60s
//	log_level: info
//
//	variables:
//	  - id: 0
//	    name: Controller
//	    labels:
//	      rack: a1
//
//	groups:
//	  - name: Pump
//	    first_id: 10
//	    stale_after: 5m
//	    dimensions:
//	      hall: [east, west]
//	      stage: ["1", "2"]
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// numVariables mirrors the size of the heartbeat table.
	numVariables = 64

	defaultListen        = ":9060"
	defaultHTTPPort      = 8080
	defaultStaleAfter    = 60 * time.Second
	defaultSweepInterval = time.Second
	defaultLogLevel      = "info"

	// maxStaleAfter is the longest age a 16-bit second clock can express.
	maxStaleAfter = 65535 * time.Second
)

// Config is the root configuration structure for Dumpulse.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the dashboard title. Defaults to "Dumpulse" if not set.
	Title string `yaml:"title"`

	// Listen is the UDP address requests are read from. Defaults to ":9060".
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	Listen string `yaml:"listen"`

	// HTTPPort is the dashboard port. Defaults to 8080.
	HTTPPort int `yaml:"http_port"`

	// DisableHTTP turns off the dashboard and API.
	DisableHTTP bool `yaml:"disable_http"`

	// StaleAfter is the default freshness window. Defaults to 60s.
	// Must be between 1s and 65535s.
	StaleAfter Duration `yaml:"stale_after"`

	// SweepInterval is how often freshness is re-evaluated. Defaults to 1s.
	SweepInterval Duration `yaml:"sweep_interval"`

	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string `yaml:"log_level"`

	// Variables names individual slots.
	Variables []VariableConfig `yaml:"variables"`

	// Groups defines consecutive slots that expand via cartesian product.
	Groups []GroupConfig `yaml:"groups"`
}

// VariableConfig names a single heartbeat slot.
type VariableConfig struct {
	// ID is the slot index, 0-63.
	ID int `yaml:"id"`

	// Name is the display name shown in the dashboard.
	Name string `yaml:"name"`

	// Labels are metadata key-value pairs for grouping/filtering.
	Labels map[string]string `yaml:"labels"`

	// StaleAfter overrides the global stale_after for this slot.
	StaleAfter Duration `yaml:"stale_after"`
}

// GroupConfig defines consecutive slots that expand via cartesian product.
//
// For example, with first_id 10 and dimensions {hall: [east, west], stage: [1, 2]},
// the group expands to ids 10-13: east/1, east/2, west/1, west/2.
type GroupConfig struct {
	// Name is the base name for generated variables.
	Name string `yaml:"name"`

	// FirstID is the id of the first generated variable.
	FirstID int `yaml:"first_id"`

	// Dimensions maps dimension names to their possible values.
	Dimensions map[string][]string `yaml:"dimensions"`

	// Labels are additional labels applied to all generated variables.
	Labels map[string]string `yaml:"labels"`

	// StaleAfter overrides the global stale_after for all generated variables.
	StaleAfter Duration `yaml:"stale_after"`
}

// Size returns the number of variables the group expands to. Products
// larger than the table are reported as numVariables+1.
func (g GroupConfig) Size() int {
	if len(g.Dimensions) == 0 {
		return 0
	}
	n := 1
	for _, vals := range g.Dimensions {
		if len(vals) == 0 {
			return 0
		}
		n *= len(vals)
		if n > numVariables {
			return numVariables + 1
		}
	}
	return n
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in Listen. Defaults are applied for
// Listen (:9060), HTTPPort (8080), StaleAfter (60s), SweepInterval (1s)
// and LogLevel (info).
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Listen == "" {
		cfg.Listen = defaultListen
	}
	if cfg.HTTPPort == 0 {
		cfg.HTTPPort = defaultHTTPPort
	}
	if cfg.StaleAfter == 0 {
		cfg.StaleAfter = Duration(defaultStaleAfter)
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = Duration(defaultSweepInterval)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	expanded, err := expandEnvVars(c.Listen)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	c.Listen = expanded
	if strings.TrimSpace(c.Listen) == "" {
		return fmt.Errorf("listen cannot be empty")
	}

	if c.HTTPPort < 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("http_port must be between 0 and 65535, got %d", c.HTTPPort)
	}
	if err := validateStaleAfter(c.StaleAfter, "stale_after"); err != nil {
		return err
	}
	if c.SweepInterval.Duration() <= 0 {
		return fmt.Errorf("sweep_interval must be positive, got %s", c.SweepInterval.Duration())
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}

	// owner records which entry claimed each id
	owner := make(map[int]string, numVariables)
	claim := func(id int, who string) error {
		if prev, taken := owner[id]; taken {
			return fmt.Errorf("%s: id %d already used by %s", who, id, prev)
		}
		owner[id] = who
		return nil
	}

	for i := range c.Variables {
		v := &c.Variables[i]
		who := fmt.Sprintf("variables[%d] (%s)", i, v.Name)

		if strings.TrimSpace(v.Name) == "" {
			return fmt.Errorf("variables[%d]: name is required", i)
		}
		if v.ID < 0 || v.ID >= numVariables {
			return fmt.Errorf("%s: id must be between 0 and %d, got %d", who, numVariables-1, v.ID)
		}
		if v.StaleAfter != 0 {
			if err := validateStaleAfter(v.StaleAfter, who+": stale_after"); err != nil {
				return err
			}
		}
		if err := claim(v.ID, who); err != nil {
			return err
		}
	}

	for i := range c.Groups {
		g := &c.Groups[i]
		who := fmt.Sprintf("groups[%d] (%s)", i, g.Name)

		if strings.TrimSpace(g.Name) == "" {
			return fmt.Errorf("groups[%d]: name is required", i)
		}
		if len(g.Dimensions) == 0 {
			return fmt.Errorf("%s: at least one dimension is required", who)
		}
		for dimName, dimValues := range g.Dimensions {
			if len(dimValues) == 0 {
				return fmt.Errorf("%s: dimension %q has no values", who, dimName)
			}
			seen := make(map[string]struct{}, len(dimValues))
			for _, v := range dimValues {
				if v == "" {
					return fmt.Errorf("%s: dimension %q has an empty value", who, dimName)
				}
				if _, exists := seen[v]; exists {
					return fmt.Errorf("%s: dimension %q has duplicate value %q", who, dimName, v)
				}
				seen[v] = struct{}{}
			}
		}
		if g.FirstID < 0 || g.FirstID >= numVariables {
			return fmt.Errorf("%s: first_id must be between 0 and %d, got %d", who, numVariables-1, g.FirstID)
		}
		size := g.Size()
		if size > numVariables {
			return fmt.Errorf("%s: expands to more than %d variables, beyond the last variable %d", who, numVariables, numVariables-1)
		}
		last := g.FirstID + size - 1
		if last >= numVariables {
			return fmt.Errorf("%s: needs ids %d-%d, beyond the last variable %d", who, g.FirstID, last, numVariables-1)
		}
		if g.StaleAfter != 0 {
			if err := validateStaleAfter(g.StaleAfter, who+": stale_after"); err != nil {
				return err
			}
		}
		for id := g.FirstID; id <= last; id++ {
			if err := claim(id, who); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateStaleAfter(d Duration, field string) error {
	if d.Duration() < time.Second {
		return fmt.Errorf("%s must be at least 1s, got %s", field, d.Duration())
	}
	if d.Duration() > maxStaleAfter {
		return fmt.Errorf("%s must not exceed %s, got %s", field, maxStaleAfter, d.Duration())
	}
	return nil
}

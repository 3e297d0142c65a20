// Package config holds the run configuration: the timesheet layout heuristics
// the extractor scans with, the business rules the comparison engine enforces,
// and the upload server settings. Heuristics live here rather than in the
// scanning code so a layout tweak never touches the algorithm.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration for one validator process.
type Config struct {
	Layout Layout       `yaml:"layout"`
	Rules  Rules        `yaml:"rules"`
	Server ServerConfig `yaml:"server"`
}

// Layout describes where the weekly blocks sit inside a timesheet worksheet.
// All row offsets are relative to the block's anchor row.
type Layout struct {
	// AnchorText in AnchorCol marks the first weekday row of a block.
	AnchorText string `yaml:"anchor_text"`
	AnchorCol  string `yaml:"anchor_col"`

	// NameCol is scanned upward from the anchor for the employee name.
	NameCol         string `yaml:"name_col"`
	NameScanRows    int    `yaml:"name_scan_rows"`
	NamePlaceholder string `yaml:"name_placeholder"`

	// WeekdayCols are the columns carrying one date (and its times) each.
	WeekdayCols []string `yaml:"weekday_cols"`

	// Label rows are located between LabelRowStart and LabelRowEnd below the
	// anchor by exact text match in NameCol.
	LabelRowStart int    `yaml:"label_row_start"`
	LabelRowEnd   int    `yaml:"label_row_end"`
	ClockInLabel  string `yaml:"clock_in_label"`
	LunchOutLabel string `yaml:"lunch_out_label"`
	LunchInLabel  string `yaml:"lunch_in_label"`
	ClockOutLabel string `yaml:"clock_out_label"`

	// The status row is the first row whose StatusScanCol text equals
	// StatusText, searched between LabelRowStart and StatusRowEnd below the
	// anchor. Statuses are written back into StatusWriteCol.
	StatusScanCol  string `yaml:"status_scan_col"`
	StatusText     string `yaml:"status_text"`
	StatusRowEnd   int    `yaml:"status_row_end"`
	StatusWriteCol string `yaml:"status_write_col"`

	// Start-time hint annotations are searched HintRowSpan rows around the
	// status row across columns A..HintColEnd.
	HintRowSpan int    `yaml:"hint_row_span"`
	HintColEnd  string `yaml:"hint_col_end"`
}

// Rules holds the business policy the comparison engine enforces.
type Rules struct {
	// ToleranceMinutes is the slack allowed between a recorded time and any
	// acceptable expected value.
	ToleranceMinutes int `yaml:"tolerance_minutes"`

	// RoundingStepMinutes is the boundary step inbound times round to.
	RoundingStepMinutes int `yaml:"rounding_step_minutes"`

	// LunchMinutes is the enforced minimum lunch length.
	LunchMinutes int `yaml:"lunch_minutes"`

	// LunchRequiredOverMinutes is the shift length above which a lunch must
	// be recorded even when no lunch punch exists.
	LunchRequiredOverMinutes int `yaml:"lunch_required_over_minutes"`
}

// ServerConfig configures the local upload server.
type ServerConfig struct {
	Host       string `yaml:"host"`
	PortStart  int    `yaml:"port_start"`
	PortEnd    int    `yaml:"port_end"`
	OutputsDir string `yaml:"outputs_dir"`
}

// Default returns the configuration matching the documented timesheet layout
// and payroll policy.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Layout: Layout{
			AnchorText:      "monday",
			AnchorCol:       "B",
			NameCol:         "A",
			NameScanRows:    9,
			NamePlaceholder: "Name",
			WeekdayCols:     []string{"B", "C", "D", "E", "F", "G"},
			LabelRowStart:   2,
			LabelRowEnd:     12,
			ClockInLabel:    "Clock In",
			LunchOutLabel:   "Clock Out (Lunch)",
			LunchInLabel:    "Clock In (Work)",
			ClockOutLabel:   "Clock Out",
			StatusScanCol:   "F",
			StatusText:      "total",
			StatusRowEnd:    25,
			StatusWriteCol:  "H",
			HintRowSpan:     4,
			HintColEnd:      "H",
		},
		Rules: Rules{
			ToleranceMinutes:         1,
			RoundingStepMinutes:      30,
			LunchMinutes:             30,
			LunchRequiredOverMinutes: 360,
		},
		Server: ServerConfig{
			Host:       "127.0.0.1",
			PortStart:  8000,
			PortEnd:    8010,
			OutputsDir: filepath.Join(home, "PayrollValidatorOutputs"),
		},
	}
}

// Load reads a YAML config file, layering it over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets the environment override the outputs directory,
// mainly for packaged installs where the config file is read-only.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("PAYROLLCHECK_OUTPUTS_DIR"); dir != "" {
		c.Server.OutputsDir = dir
	}
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Layout.AnchorText == "" {
		return fmt.Errorf("layout: anchor_text is required")
	}
	if len(c.Layout.WeekdayCols) == 0 {
		return fmt.Errorf("layout: weekday_cols is required")
	}
	if c.Layout.LabelRowEnd < c.Layout.LabelRowStart {
		return fmt.Errorf("layout: label_row_end %d precedes label_row_start %d",
			c.Layout.LabelRowEnd, c.Layout.LabelRowStart)
	}
	if c.Rules.ToleranceMinutes < 0 {
		return fmt.Errorf("rules: tolerance_minutes must be non-negative")
	}
	if c.Rules.RoundingStepMinutes <= 0 {
		return fmt.Errorf("rules: rounding_step_minutes must be positive")
	}
	if c.Server.PortEnd < c.Server.PortStart {
		return fmt.Errorf("server: port_end %d precedes port_start %d",
			c.Server.PortEnd, c.Server.PortStart)
	}
	return nil
}

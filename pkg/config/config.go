package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full strategy-engine configuration document.
type Config struct {
	OrgProfile OrgProfile     `yaml:"org_profile"`
	Scoring    ScoringConfig  `yaml:"scoring"`
	Decisions  Decisions      `yaml:"decisions"`
	OpenCTI    OpenCTIConfig  `yaml:"opencti"`
	DB         DBConfig       `yaml:"db"`
	Log        LogConfig      `yaml:"log"`
	Schedule   ScheduleConfig `yaml:"schedule"`
	Server     ServerConfig   `yaml:"server"`
}

// OrgProfile describes the consuming organization's relevance criteria.
type OrgProfile struct {
	Name           string   `yaml:"name"`
	SectorKeywords []string `yaml:"sector_keywords"`
	GeoKeywords    []string `yaml:"geo_keywords"`
	TechKeywords   []string `yaml:"tech_keywords"`
}

// ScoringConfig drives the weighted risk-score formula.
type ScoringConfig struct {
	Weights          Weights        `yaml:"weights"`
	BaseSeverity     int            `yaml:"base_severity"`
	SeverityKeywords map[string]int `yaml:"severity_keywords"`
	Recency          RecencyConfig  `yaml:"recency"`
}

// Weights are the per-component multipliers. All five are required; pointers
// distinguish "missing" from an explicit zero so Validate can fail loudly.
type Weights struct {
	SourceReliability *float64 `yaml:"source_reliability"`
	Confidence        *float64 `yaml:"confidence"`
	Severity          *float64 `yaml:"severity"`
	Relevance         *float64 `yaml:"relevance"`
	Recency           *float64 `yaml:"recency"`
}

// RecencyConfig shapes the linear recency decay.
type RecencyConfig struct {
	MaxDays   float64 `yaml:"max_days"`
	MaxPoints float64 `yaml:"max_points"`
}

// Decisions are the auto-triage thresholds. Both are required and must
// satisfy block_now >= monitor.
type Decisions struct {
	BlockNow *int `yaml:"block_now"`
	Monitor  *int `yaml:"monitor"`
}

// OpenCTIConfig locates the intelligence platform.
type OpenCTIConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	RPM     int    `yaml:"rpm"` // request budget per minute, 0 = unlimited
}

// DBConfig is the optional brief-archive database. Empty host disables it.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// LogConfig controls log level and optional file output.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ScheduleConfig holds the cadence cron expressions.
type ScheduleConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Timezone    string `yaml:"timezone"`
	DailyCron   string `yaml:"daily_cron"`
	WeeklyCron  string `yaml:"weekly_cron"`
	MonthlyCron string `yaml:"monthly_cron"`
	MonthlyDays int    `yaml:"monthly_days"`
}

// ServerConfig holds the trigger HTTP server settings.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Timeout string `yaml:"timeout"`
}

// LoadConfig reads and validates the configuration at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate enforces required keys and invariants. A run never proceeds with
// partial or default values for weights or decision thresholds.
func (c *Config) Validate() error {
	w := c.Scoring.Weights
	missing := []string{}
	if w.SourceReliability == nil {
		missing = append(missing, "scoring.weights.source_reliability")
	}
	if w.Confidence == nil {
		missing = append(missing, "scoring.weights.confidence")
	}
	if w.Severity == nil {
		missing = append(missing, "scoring.weights.severity")
	}
	if w.Relevance == nil {
		missing = append(missing, "scoring.weights.relevance")
	}
	if w.Recency == nil {
		missing = append(missing, "scoring.weights.recency")
	}
	if c.Decisions.BlockNow == nil {
		missing = append(missing, "decisions.block_now")
	}
	if c.Decisions.Monitor == nil {
		missing = append(missing, "decisions.monitor")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required keys: %v", missing)
	}

	if *c.Decisions.BlockNow < *c.Decisions.Monitor {
		return fmt.Errorf("config: decisions.block_now (%d) must be >= decisions.monitor (%d)",
			*c.Decisions.BlockNow, *c.Decisions.Monitor)
	}

	// Defaults for optional scoring knobs.
	if c.Scoring.BaseSeverity == 0 {
		c.Scoring.BaseSeverity = 10
	}
	if c.Scoring.Recency.MaxDays == 0 {
		c.Scoring.Recency.MaxDays = 14
	}
	if c.Scoring.Recency.MaxPoints == 0 {
		c.Scoring.Recency.MaxPoints = 25
	}
	if c.Schedule.MonthlyDays == 0 {
		c.Schedule.MonthlyDays = 30
	}

	return nil
}

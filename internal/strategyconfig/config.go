// Package strategyconfig loads and validates the strategy tunables the
// selection engine runs with: lookback window, pre-screen/cardinality
// sizes, risk-free rate, portfolio bounds, and the covariance ridge
// floor. It is loaded from a strict-field YAML document, separate from
// the environment-derived runtime settings in pkg/config.
package strategyconfig

import "time"

// Config is the full strategy configuration for one selection run.
type Config struct {
	Meta Meta `yaml:"meta" json:"meta"`

	LookbackMonths int     `yaml:"lookback_months" json:"lookback_months"`
	MinMonths      int     `yaml:"min_months" json:"min_months"`
	TopN           int     `yaml:"top_n" json:"top_n"`
	KFinal         int     `yaml:"k_final" json:"k_final"`
	RiskFreeRate   float64 `yaml:"risk_free_rate" json:"risk_free_rate"`
	WMin           float64 `yaml:"w_min" json:"w_min"`
	WMax           float64 `yaml:"w_max" json:"w_max"`
	Ridge          float64 `yaml:"ridge" json:"ridge"`
	RawMeanVariant bool    `yaml:"raw_mean_variant" json:"raw_mean_variant"`
}

// Meta identifies the strategy configuration for provenance purposes.
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Default returns the configuration with every default named in the
// engine's option table.
func Default() Config {
	return Config{
		Meta: Meta{
			StrategyID: "default",
			Version:    "v1",
		},
		LookbackMonths: 36,
		MinMonths:      24,
		TopN:           100,
		KFinal:         45,
		RiskFreeRate:   0.04,
		WMin:           0.005,
		WMax:           0.03,
		Ridge:          0.1,
		RawMeanVariant: false,
	}
}

// DecisionSnapshot records the provenance of one completed run: the
// config that produced it, in both hashed and raw-YAML form, tied to the
// code and data versions that were in effect.
type DecisionSnapshot struct {
	ConfigHash     string    `json:"config_hash"`
	ConfigYAML     string    `json:"config_yaml"`
	StrategyID     string    `json:"strategy_id"`
	GitCommit      string    `json:"git_commit"`
	DataSnapshotID string    `json:"data_snapshot_id"`
	CreatedAt      time.Time `json:"created_at"`
}

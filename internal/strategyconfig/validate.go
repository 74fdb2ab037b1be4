package strategyconfig

import (
	"fmt"

	"github.com/quantselect/engine/internal/contracts"
)

// Validate checks the configuration against the engine's input-violation
// class: these are checked before any I/O, and a failure here is always
// fatal regardless of data availability.
func Validate(cfg *Config) error {
	if cfg.Meta.StrategyID == "" {
		return fmt.Errorf("%w: meta.strategy_id is required", contracts.ErrInvalidConfig)
	}
	if cfg.LookbackMonths <= 0 {
		return fmt.Errorf("%w: lookback_months must be positive, got %d", contracts.ErrInvalidConfig, cfg.LookbackMonths)
	}
	if cfg.MinMonths <= 0 {
		return fmt.Errorf("%w: min_months must be positive, got %d", contracts.ErrInvalidConfig, cfg.MinMonths)
	}
	if cfg.KFinal <= 0 {
		return fmt.Errorf("%w: k_final must be positive, got %d", contracts.ErrInvalidConfig, cfg.KFinal)
	}
	if cfg.TopN < cfg.KFinal {
		return fmt.Errorf("%w: top_n (%d) must be >= k_final (%d)", contracts.ErrInvalidConfig, cfg.TopN, cfg.KFinal)
	}
	if cfg.WMin > cfg.WMax {
		return fmt.Errorf("%w: w_min (%v) must be <= w_max (%v)", contracts.ErrInvalidConfig, cfg.WMin, cfg.WMax)
	}
	if cfg.WMin < 0 {
		return fmt.Errorf("%w: w_min must be non-negative, got %v", contracts.ErrInvalidConfig, cfg.WMin)
	}
	if cfg.Ridge < 0 {
		return fmt.Errorf("%w: ridge must be non-negative, got %v", contracts.ErrInvalidConfig, cfg.Ridge)
	}

	return nil
}

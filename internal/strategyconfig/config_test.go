package strategyconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantselect/engine/internal/contracts"
)

const fixtureYAML = `
meta:
  strategy_id: test_strategy
  version: v1
lookback_months: 36
min_months: 24
top_n: 100
k_final: 45
risk_free_rate: 0.04
w_min: 0.005
w_max: 0.03
ridge: 0.1
raw_mean_variant: false
`

func writeFixture(t *testing.T, contents string) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "strategy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeFixture(t, fixtureYAML)

	cfg, raw, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test_strategy", cfg.Meta.StrategyID)
	assert.Equal(t, 36, cfg.LookbackMonths)
	assert.Equal(t, 45, cfg.KFinal)
	assert.NotEmpty(t, raw)
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	path := writeFixture(t, fixtureYAML+"\nbogus_field: 1\n")

	_, _, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	path := writeFixture(t, `
meta:
  strategy_id: test_strategy
  version: v1
lookback_months: 36
min_months: 24
top_n: 10
k_final: 45
risk_free_rate: 0.04
w_min: 0.005
w_max: 0.03
ridge: 0.1
`)

	_, _, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrInvalidConfig))
}

func TestHash_DeterministicForSameConfig(t *testing.T) {
	cfg := Default()

	h1, err := Hash(&cfg)
	require.NoError(t, err)
	h2, err := Hash(&cfg)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func TestHash_DiffersWhenConfigDiffers(t *testing.T) {
	a := Default()
	b := Default()
	b.KFinal = 30

	ha, err := Hash(&a)
	require.NoError(t, err)
	hb, err := Hash(&b)
	require.NoError(t, err)

	assert.NotEqual(t, ha, hb)
}

func TestValidate_CatchesEachInputViolation(t *testing.T) {
	base := Default()

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing strategy id", func(c *Config) { c.Meta.StrategyID = "" }},
		{"non-positive lookback", func(c *Config) { c.LookbackMonths = 0 }},
		{"non-positive min months", func(c *Config) { c.MinMonths = 0 }},
		{"non-positive k final", func(c *Config) { c.KFinal = 0 }},
		{"top n below k final", func(c *Config) { c.TopN = c.KFinal - 1 }},
		{"w min above w max", func(c *Config) { c.WMin, c.WMax = 0.5, 0.1 }},
		{"negative w min", func(c *Config) { c.WMin = -0.1 }},
		{"negative ridge", func(c *Config) { c.Ridge = -0.1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)

			err := Validate(&cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, contracts.ErrInvalidConfig))
		})
	}
}

func TestValidate_AcceptsDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, Validate(&cfg))
}

func TestNewDecisionSnapshot(t *testing.T) {
	cfg := Default()
	snap, err := NewDecisionSnapshot(&cfg, []byte(fixtureYAML), "abc123", "snap-1")
	require.NoError(t, err)

	assert.Equal(t, cfg.Meta.StrategyID, snap.StrategyID)
	assert.Equal(t, "abc123", snap.GitCommit)
	assert.Len(t, snap.ConfigHash, 64)
}

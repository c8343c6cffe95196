package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offgrid-lcoe/internal/types"
)

func TestDefaultRunConfig_PassesValidation(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.Sizing.LoadMW = 100 // defaults to 0, which Validate rejects
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RejectsZeroLoad(t *testing.T) {
	cfg := DefaultRunConfig()
	err := cfg.Validate()
	var cfgErr *types.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestValidate_RejectsUnknownGeneratorType(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.Sizing.LoadMW = 10
	cfg.Sizing.GeneratorType = "Diesel"
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsLeverageOutOfRange(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.Sizing.LoadMW = 10
	cfg.Financial.LeveragePct = 150
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsDepreciationScheduleOverOneHundred(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.Sizing.LoadMW = 10
	cfg.Financial.DepreciationSchedule = []float64{60, 60}
	assert.Error(t, cfg.Validate())
}

func TestMergeConfig_OverridesOnlyNonZeroFields(t *testing.T) {
	base := DefaultRunConfig()
	override := RunConfig{
		Sizing: SizingConfig{LoadMW: 50},
	}
	merged := MergeConfig(base, override)

	assert.InDelta(t, 50, merged.Sizing.LoadMW, 1e-9)
	assert.InDelta(t, base.Sizing.BESSHours, merged.Sizing.BESSHours, 1e-9) // untouched
	assert.Equal(t, base.Capex, merged.Capex)                              // untouched group
}

func TestLoadUnchecked_MergesOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	yamlContent := []byte("sizing:\n  load_mw: 42\n  solar_dc_mw: 500\nfinancial:\n  itc_pct: 0\n")
	require.NoError(t, os.WriteFile(path, yamlContent, 0o644))

	cfg, err := LoadUnchecked(path)
	require.NoError(t, err)
	assert.InDelta(t, 42, cfg.Sizing.LoadMW, 1e-9)
	assert.InDelta(t, 500, cfg.Sizing.SolarDCMW, 1e-9)
	// bess_hours wasn't in the file, so the default survives the merge.
	assert.InDelta(t, DefaultRunConfig().Sizing.BESSHours, cfg.Sizing.BESSHours, 1e-9)
}

func TestLoad_ValidatesAfterMerging(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sizing:\n  generator_type: Diesel\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestToSizing_AppliesDefaultsAndParsesGeneratorKind(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.Sizing.LoadMW = 10
	cfg.Sizing.GeneratorType = "Gas Turbine"

	sizing, err := cfg.ToSizing()
	require.NoError(t, err)
	assert.Equal(t, types.GasTurbine, sizing.GeneratorKind)
	assert.InDelta(t, 4, sizing.BESSHours, 1e-9)
}

func TestToFinancialAssumptions_DefaultsDepreciationSchedule(t *testing.T) {
	cfg := DefaultRunConfig()
	fin := cfg.ToFinancialAssumptions()
	assert.InDelta(t, types.DefaultDepreciationSchedule().Sum(), fin.DepreciationSchedule.Sum(), 1e-9)
}

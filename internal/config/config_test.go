package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/dopri/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "decay", cfg.Model)
	assert.Equal(t, "dopri5", cfg.Method)
	assert.Greater(t, cfg.XEnd, cfg.X0)
	assert.Greater(t, cfg.Dx, 0.0)
	require.NoError(t, cfg.Validate())
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("kepler_orbit")
	require.NotNil(t, cfg)

	assert.Equal(t, "kepler", cfg.Model)
	assert.Equal(t, "dopri5", cfg.Method)
	assert.InDelta(t, 5*28148.546710972394, cfg.XEnd, 1e-6)
	require.NotNil(t, cfg.Stop)
	assert.Equal(t, 25500.0, cfg.Stop.Value)
}

func TestGetPreset_ReturnsCopy(t *testing.T) {
	cfg := GetPreset("lorenz")
	require.NotNil(t, cfg)
	cfg.InitState[0] = 42
	cfg.XEnd = 1

	again := GetPreset("lorenz")
	assert.Equal(t, 1.0, again.InitState[0])
	assert.Equal(t, 100.0, again.XEnd)
}

func TestGetPreset_NotFound(t *testing.T) {
	assert.Nil(t, GetPreset("nonexistent"))
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	assert.Contains(t, names, "chemical_reaction")
	assert.Contains(t, names, "three_body")
	assert.IsIncreasing(t, names)
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, GetPreset(name).Validate())
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := GetPreset("three_body")
	cfg.Tuning.Beta = Float(0.05)
	cfg.Tuning.NMax = 5000
	cfg.Params = map[string]float64{"mu": 0.0121}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: lorenz\nx_end: 2\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "lorenz", cfg.Model)
	assert.Equal(t, 2.0, cfg.XEnd)
	assert.Equal(t, DefaultMethod, cfg.Method)
	assert.Equal(t, DefaultTol, cfg.RTol)
	assert.Nil(t, cfg.Tuning.Safety)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("model: [unterminated\n"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("output: smooth\n"), 0644))
	_, err = Load(invalid)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"no model", func(c *Config) { c.Model = "" }, false},
		{"no method", func(c *Config) { c.Method = "" }, false},
		{"negative rtol", func(c *Config) { c.RTol = -1 }, false},
		{"both tolerances zero", func(c *Config) { c.RTol, c.ATol = 0, 0 }, false},
		{"dense without dx", func(c *Config) { c.Dx = 0 }, false},
		{"sparse without dx", func(c *Config) { c.Dx, c.Output = 0, "sparse" }, true},
		{"bad stop op", func(c *Config) { c.Stop = &StopConfig{Op: ">="} }, false},
		{"stop index out of range", func(c *Config) {
			c.InitState = []float64{1}
			c.Stop = &StopConfig{Index: 3, Op: ">"}
		}, false},
		{"negative n_max", func(c *Config) { c.Tuning.NMax = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestOutputType(t *testing.T) {
	cfg := DefaultConfig()
	out, err := cfg.OutputType()
	require.NoError(t, err)
	assert.Equal(t, dynamo.Dense, out)

	cfg.Output = "Sparse"
	out, err = cfg.OutputType()
	require.NoError(t, err)
	assert.Equal(t, dynamo.Sparse, out)
}

func TestSolout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Nil(t, cfg.Solout())

	cfg.Stop = &StopConfig{Index: 1, Op: "<", Value: 0}
	stop := cfg.Solout()
	require.NotNil(t, stop)
	assert.False(t, stop(0, dynamo.State{0, 1}, nil))
	assert.True(t, stop(0, dynamo.State{0, -1}, nil))
	assert.False(t, stop(0, dynamo.State{0}, nil))
}

func TestClone(t *testing.T) {
	cfg := GetPreset("vanderpol_stiff")
	cfg.Tuning.Safety = Float(0.8)
	cp := cfg.Clone()

	*cp.Tuning.Safety = 0.5
	cp.Params["mu"] = 1

	assert.Equal(t, 0.8, *cfg.Tuning.Safety)
	assert.Equal(t, 1000.0, cfg.Params["mu"])
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func parseConfig(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	var (
		cfg Config
		err error
	)
	app := newApp()
	app.Action = func(ctx *cli.Context) error {
		cfg, err = makeConfig(ctx)
		return nil
	}
	require.NoError(t, app.Run(append([]string{"contract-sizes"}, args...)))
	return cfg, err
}

func TestMakeConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(t)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig, cfg)
	assert.Equal(t, filepath.Join("cache", snapshotFile), cfg.snapshotPath())
}

func TestMakeConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sizes.toml")
	require.NoError(t, os.WriteFile(file, []byte(`
Artifacts = "build/artifacts"
Contracts = ["Vault", "contracts/Token.sol:Token"]
MinSize = 20000
Details = true
`), 0644))

	cfg, err := parseConfig(t, "--config", file)
	require.NoError(t, err)
	assert.Equal(t, "build/artifacts", cfg.Artifacts)
	assert.Equal(t, "cache", cfg.Cache)
	assert.Equal(t, []string{"Vault", "contracts/Token.sol:Token"}, cfg.Contracts)
	assert.Equal(t, 20000, cfg.MinSize)
	assert.True(t, cfg.Details)
	assert.False(t, cfg.Diff)

	// flags win over the file
	cfg, err = parseConfig(t, "--config", file, "--size", "100", "--details=false", "--diff", "--cache", "tmp")
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.MinSize)
	assert.False(t, cfg.Details)
	assert.True(t, cfg.Diff)
	assert.Equal(t, "tmp", cfg.Cache)
}

func TestMakeConfigInvalid(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sizes.toml")
	require.NoError(t, os.WriteFile(file, []byte("Unknown = 1\n"), 0644))
	_, err := parseConfig(t, "--config", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config file")
	assert.Contains(t, err.Error(), "Unknown")

	_, err = parseConfig(t, "--size", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid size filter -1")
}

func TestDumpConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "dump.toml")
	require.NoError(t, newApp().Run([]string{"contract-sizes", "dumpconfig", "--size", "42", file}))

	var cfg Config
	require.NoError(t, loadConfig(file, &cfg))
	assert.Equal(t, 42, cfg.MinSize)
	assert.Equal(t, defaultConfig.MaxContractSize, cfg.MaxContractSize)
}

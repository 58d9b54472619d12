package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtmetrics/adjrate/adjust"
	"github.com/courtmetrics/adjrate/config"
)

// writeFile drops content into a temp config file and returns its path.
func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

// TestLoad_Defaults: an empty file yields the documented defaults.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeFile(t, ""))
	require.NoError(t, err)

	assert.Equal(t, adjust.DefaultHomeCourt, cfg.Solver.HomeCourt)
	assert.Equal(t, adjust.DefaultTolerance, cfg.Solver.Tolerance)
	assert.Equal(t, adjust.DefaultMaxIterations, cfg.Solver.MaxIterations)
	assert.Equal(t, 1.0, cfg.Solver.GameWeightTail)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, config.DefaultHTTPPort, cfg.Server.HTTPPort)
}

// TestLoad_FullFile parses every section.
func TestLoad_FullFile(t *testing.T) {
	cfg, err := config.Load(writeFile(t, `
solver:
  home_court: 1.02
  tolerance: 1e-7
  max_iterations: 200
  preseason_weight: 0.25
  game_weights: [0.5, 0.75]
  game_weight_tail: 0.9
store:
  driver: postgres
  dsn: postgres://localhost/adjrate
  dsn_env: ADJRATE_DSN
server:
  http_port: 9090
`))
	require.NoError(t, err)

	assert.Equal(t, 1.02, cfg.Solver.HomeCourt)
	assert.Equal(t, 1e-7, cfg.Solver.Tolerance)
	assert.Equal(t, 200, cfg.Solver.MaxIterations)
	assert.Equal(t, 0.25, cfg.Solver.PreseasonWeight)
	assert.Equal(t, []float64{0.5, 0.75}, cfg.Solver.GameWeights)
	assert.Equal(t, 0.9, cfg.Solver.GameWeightTail)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
}

// TestLoad_Invalid rejects structural errors with context.
func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad driver":      "store:\n  driver: oracle\n",
		"bad port":        "server:\n  http_port: 70000\n",
		"bad home court":  "solver:\n  home_court: -1\n",
		"bad tolerance":   "solver:\n  tolerance: 0\n",
		"bad iterations":  "solver:\n  max_iterations: -5\n",
		"negative weight": "solver:\n  game_weights: [-0.5]\n",
		"not yaml":        "solver: [",
	}
	for name, content := range cases {
		_, err := config.Load(writeFile(t, content))
		assert.Error(t, err, name)
	}
}

// TestLoad_MissingFile surfaces the read error.
func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

// TestStoreConfig_EffectiveDSN prefers the environment override.
func TestStoreConfig_EffectiveDSN(t *testing.T) {
	sc := config.StoreConfig{DSN: "file.db", DSNEnv: "ADJRATE_TEST_DSN"}

	assert.Equal(t, "file.db", sc.EffectiveDSN(), "unset env falls back to dsn")

	t.Setenv("ADJRATE_TEST_DSN", "postgres://db")
	assert.Equal(t, "postgres://db", sc.EffectiveDSN(), "env wins when set")
}

// TestSolverConfig_Options translates file form into a usable option set.
func TestSolverConfig_Options(t *testing.T) {
	sc := config.SolverConfig{
		HomeCourt:      1.014,
		Tolerance:      1e-6,
		MaxIterations:  50,
		GameWeights:    []float64{0.5},
		GameWeightTail: 1.0,
	}

	opts := sc.Options(nil)
	assert.NotEmpty(t, opts)

	// The set must be applicable without panicking.
	assert.NotPanics(t, func() {
		o := adjust.DefaultOptions()
		for _, opt := range opts {
			opt(&o)
		}
	})
}

// TestWatch_ReloadsOnWrite rewrites the file and expects onChange with
// the new content; an invalid rewrite must not trigger it.
func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := writeFile(t, "server:\n  http_port: 8080\n")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changes := make(chan *config.Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- config.Watch(ctx, path, func(c *config.Config) { changes <- c })
	}()

	// Give the watcher a moment to register before the first write.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("server:\n  http_port: 9999\n"), 0o644))
	select {
	case cfg := <-changes:
		assert.Equal(t, 9999, cfg.Server.HTTPPort, "reload must carry the new value")
	case <-ctx.Done():
		t.Fatal("timed out waiting for reload")
	}

	// Invalid content: watcher keeps running, no onChange fires.
	require.NoError(t, os.WriteFile(path, []byte("server: ["), 0o644))
	select {
	case <-changes:
		t.Fatal("invalid config must not trigger onChange")
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	assert.NoError(t, <-done, "Watch must exit cleanly on cancel")
}

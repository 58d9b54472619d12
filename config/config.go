package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/courtmetrics/adjrate/adjust"
	"github.com/courtmetrics/adjrate/season"
)

// Default values for the daemon configuration.
const (
	DefaultHTTPPort = 8080
	DefaultDriver   = "sqlite"
	DefaultDSN      = "./adjrate.db"
)

// Config is the full configuration file: solver parameters, storage
// backend, and HTTP surface.
type Config struct {
	Solver SolverConfig `yaml:"solver"`
	Store  StoreConfig  `yaml:"store"`
	Server ServerConfig `yaml:"server"`
}

// SolverConfig mirrors the solver's options surface in file form.
type SolverConfig struct {
	// HomeCourt is the multiplicative home-court factor loc (> 0,
	// typically slightly above 1).
	HomeCourt float64 `yaml:"home_court"`

	// Tolerance is the convergence threshold ε.
	Tolerance float64 `yaml:"tolerance"`

	// MaxIterations caps the fixed-point loop.
	MaxIterations int `yaml:"max_iterations"`

	// PreseasonWeight is a constant w_pre blended with every team's
	// prior; zero disables the blend.
	PreseasonWeight float64 `yaml:"preseason_weight"`

	// GameWeights is an optional step table: a team's k-th game takes
	// GameWeights[k-1]. Empty means uniform weighting.
	GameWeights []float64 `yaml:"game_weights"`

	// GameWeightTail is the weight for games beyond the table (default 1).
	GameWeightTail float64 `yaml:"game_weight_tail"`
}

// Options translates the file form into solver options. Priors come from
// the store, not the file, so they are passed in.
func (c SolverConfig) Options(priors map[string]season.Prior) []adjust.Option {
	opts := []adjust.Option{
		adjust.WithHomeCourt(c.HomeCourt),
		adjust.WithTolerance(c.Tolerance),
		adjust.WithMaxIterations(c.MaxIterations),
	}
	if len(priors) > 0 {
		opts = append(opts, adjust.WithPriors(priors))
	}
	if c.PreseasonWeight > 0 {
		opts = append(opts, adjust.WithPreseasonWeight(c.PreseasonWeight))
	}
	if len(c.GameWeights) > 0 {
		opts = append(opts, adjust.WithGameWeight(adjust.StepWeights(c.GameWeights, c.GameWeightTail)))
	}

	return opts
}

// StoreConfig selects the storage backend.
type StoreConfig struct {
	// Driver is one of: sqlite | postgres.
	Driver string `yaml:"driver"`

	// DSN is the connection string (a file path for sqlite).
	DSN string `yaml:"dsn"`

	// DSNEnv names an environment variable that overrides DSN when set,
	// keeping credentials out of the file.
	DSNEnv string `yaml:"dsn_env"`
}

// EffectiveDSN returns the environment override when present, else DSN.
func (s StoreConfig) EffectiveDSN() string {
	if s.DSNEnv != "" {
		if v := os.Getenv(s.DSNEnv); v != "" {
			return v
		}
	}

	return s.DSN
}

// ServerConfig holds the HTTP surface settings.
type ServerConfig struct {
	// HTTPPort is the port the ratings API listens on (default 8080).
	HTTPPort int `yaml:"http_port"`
}

// Load reads and parses the config file at path. Missing fields are
// filled with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Solver: SolverConfig{
			HomeCourt:      adjust.DefaultHomeCourt,
			Tolerance:      adjust.DefaultTolerance,
			MaxIterations:  adjust.DefaultMaxIterations,
			GameWeightTail: 1.0,
		},
		Store: StoreConfig{
			Driver: DefaultDriver,
			DSN:    DefaultDSN,
		},
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Solver.HomeCourt <= 0 {
		return fmt.Errorf("solver.home_court must be positive, got %v", cfg.Solver.HomeCourt)
	}
	if cfg.Solver.Tolerance <= 0 {
		return fmt.Errorf("solver.tolerance must be positive, got %v", cfg.Solver.Tolerance)
	}
	if cfg.Solver.MaxIterations <= 0 {
		return fmt.Errorf("solver.max_iterations must be positive, got %d", cfg.Solver.MaxIterations)
	}
	if cfg.Solver.PreseasonWeight < 0 {
		return fmt.Errorf("solver.preseason_weight must not be negative")
	}
	for i, w := range cfg.Solver.GameWeights {
		if w < 0 {
			return fmt.Errorf("solver.game_weights[%d] must not be negative", i)
		}
	}
	switch cfg.Store.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("store.driver %q unknown: want sqlite|postgres", cfg.Store.Driver)
	}
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}

	return nil
}

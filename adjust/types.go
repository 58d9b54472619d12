// Package adjust: configuration options, result types, and sentinel errors
// for the adjusted-efficiency rating solver.
package adjust

import (
	"errors"

	"github.com/courtmetrics/adjrate/season"
)

// Sentinel errors returned by Solve.
var (
	// ErrNilSeason indicates a nil *season.Season was passed to Solve.
	ErrNilSeason = errors.New("adjust: season is nil")

	// ErrNoGames indicates the season contains no games; the fixed-point
	// map is undefined on an empty table.
	ErrNoGames = errors.New("adjust: season has no games")

	// ErrUnknownTeam indicates a game references a team missing from the
	// roster. season.AddGame already rejects this; the solver re-checks so
	// a hand-assembled table cannot reach the iteration.
	ErrUnknownTeam = errors.New("adjust: game references team missing from roster")

	// ErrMissingPrior indicates a team needs a preseason prior (it has no
	// games, or its preseason weight is nonzero) and none was supplied via
	// WithPriors or WithDefaultPrior.
	ErrMissingPrior = errors.New("adjust: team requires a preseason prior")

	// ErrDegenerateDivisor indicates an opponent rating reached zero, went
	// negative, or became non-finite while needed as a divisor. The wrapped
	// message names the team and iteration that triggered it.
	ErrDegenerateDivisor = errors.New("adjust: opponent rating is not a usable divisor")

	// ErrBadHomeCourt indicates a non-positive home-court factor.
	ErrBadHomeCourt = errors.New("adjust: home-court factor must be positive")

	// ErrBadTolerance indicates a non-positive convergence tolerance.
	ErrBadTolerance = errors.New("adjust: tolerance must be positive")

	// ErrBadMaxIterations indicates a non-positive iteration cap.
	ErrBadMaxIterations = errors.New("adjust: max iterations must be positive")

	// ErrBadInitialRating indicates a non-positive initial rating guess.
	ErrBadInitialRating = errors.New("adjust: initial rating must be positive")
)

// WeightFunc maps a team's running game count to a weight. For per-game
// weights the argument is the 1-based position of the game in that team's
// own schedule (1 = season opener); for preseason weights it is the team's
// total game count. Schedules are injected configuration; the solver
// never derives them.
type WeightFunc func(gamesPlayed int) float64

// Status reports how the iteration terminated.
type Status int

const (
	// StatusConverged: the maximum absolute rating change across all teams
	// and both sides fell below the tolerance.
	StatusConverged Status = iota

	// StatusMaxIterations: the iteration cap elapsed first. The result
	// still carries the last computed snapshot and its max delta so the
	// caller can decide whether the approximation is acceptable.
	StatusMaxIterations
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusMaxIterations:
		return "max_iterations"
	default:
		return "unknown"
	}
}

// Rating is one team's converged (or best-effort) rating pair: expected
// points per possession scored (Off) and allowed (Def) against a
// league-average opponent. Games is the number of games the value rests
// on; zero means the rating is exactly the team's preseason prior.
type Rating struct {
	Off   float64
	Def   float64
	Games int
}

// Net returns offensive minus defensive efficiency, the usual single-number
// ranking key (higher is better).
func (r Rating) Net() float64 { return r.Off - r.Def }

// Result is the solver output: one rating pair per roster team plus the
// termination status of the iteration that produced them.
type Result struct {
	Ratings    map[string]Rating
	Status     Status
	Iterations int
	MaxDelta   float64
}

// Converged reports whether the iteration met the tolerance within the cap.
func (r *Result) Converged() bool { return r.Status == StatusConverged }

// Defaults applied by DefaultOptions.
const (
	// DefaultHomeCourt is a mild multiplicative home advantage on
	// per-possession scoring.
	DefaultHomeCourt = 1.014

	// DefaultTolerance is the max-delta threshold for convergence.
	DefaultTolerance = 1e-6

	// DefaultMaxIterations bounds the fixed-point loop. Realistic inputs
	// converge within a few dozen iterations; the cap only exists so
	// pathological configurations terminate.
	DefaultMaxIterations = 100
)

// Options configures Solve. Construct via DefaultOptions and the With*
// functional options; hand-assembled literals pass through the same
// validation inside Solve.
type Options struct {
	// HomeCourt is the multiplicative home-court factor loc. Must be
	// positive. Typical values sit slightly above 1; values below 1 are
	// legal so the home/away mirror symmetry is expressible.
	HomeCourt float64

	// Tolerance is the convergence threshold on the max absolute change.
	Tolerance float64

	// MaxIterations caps the fixed-point loop.
	MaxIterations int

	// Priors holds preseason (Off, Def) estimates keyed by team ID.
	Priors map[string]season.Prior

	// DefaultPrior is the fallback for teams absent from Priors. Without
	// it, a team that needs a prior and has none is an error.
	DefaultPrior *season.Prior

	// GameWeight is the per-game weight schedule (default: uniform 1.0).
	GameWeight WeightFunc

	// PreseasonWeight is the preseason weight schedule (default: constant 0).
	PreseasonWeight WeightFunc

	// InitialRating is the identical starting guess for every team's
	// offense and defense. Zero means "use the league average points per
	// possession", which is the documented default.
	InitialRating float64

	// Normalize rescales each iteration so the league means of offense
	// and defense equal the league averages. On by default; see doc.go
	// for why the raw map needs it.
	Normalize bool

	// WarmStart is an optional snapshot to iterate from instead of the
	// constant guess, e.g. a previous Result's Ratings.
	WarmStart map[string]Rating
}

// Option is a functional option for configuring Solve.
type Option func(*Options)

// WithHomeCourt sets the home-court factor loc.
// Must be positive; non-positive values panic with ErrBadHomeCourt.
func WithHomeCourt(loc float64) Option {
	return func(o *Options) {
		if loc <= 0 {
			panic(ErrBadHomeCourt.Error())
		}
		o.HomeCourt = loc
	}
}

// WithTolerance sets the convergence threshold ε.
// Must be positive; non-positive values panic with ErrBadTolerance.
func WithTolerance(eps float64) Option {
	return func(o *Options) {
		if eps <= 0 {
			panic(ErrBadTolerance.Error())
		}
		o.Tolerance = eps
	}
}

// WithMaxIterations sets the iteration cap K.
// Must be positive; non-positive values panic with ErrBadMaxIterations.
func WithMaxIterations(k int) Option {
	return func(o *Options) {
		if k <= 0 {
			panic(ErrBadMaxIterations.Error())
		}
		o.MaxIterations = k
	}
}

// WithPriors supplies preseason rating estimates keyed by team ID.
func WithPriors(priors map[string]season.Prior) Option {
	return func(o *Options) { o.Priors = priors }
}

// WithDefaultPrior supplies the fallback prior policy for teams missing
// from the Priors map (including zero-game teams).
func WithDefaultPrior(p season.Prior) Option {
	return func(o *Options) { o.DefaultPrior = &p }
}

// WithGameWeight injects the per-game weight schedule.
func WithGameWeight(fn WeightFunc) Option {
	return func(o *Options) { o.GameWeight = fn }
}

// WithPreseasonWeight sets a constant preseason weight w_pre.
func WithPreseasonWeight(w float64) Option {
	return func(o *Options) { o.PreseasonWeight = ConstantPreseason(w) }
}

// WithPreseasonWeightFunc injects a preseason weight schedule, for callers
// who want w_pre to decay with a team's accumulated game count.
func WithPreseasonWeightFunc(fn WeightFunc) Option {
	return func(o *Options) { o.PreseasonWeight = fn }
}

// WithInitialRating overrides the identical starting guess used for every
// team's offensive and defensive rating.
// Must be positive; non-positive values panic with ErrBadInitialRating.
func WithInitialRating(v float64) Option {
	return func(o *Options) {
		if v <= 0 {
			panic(ErrBadInitialRating.Error())
		}
		o.InitialRating = v
	}
}

// WithoutNormalization disables the per-iteration league-mean rescale and
// iterates the literal update map. The raw map's global offense/defense
// scale mode is neutrally stable, so expect oscillation instead of
// convergence on most inputs; useful for analyzing the raw dynamics.
func WithoutNormalization() Option {
	return func(o *Options) { o.Normalize = false }
}

// WithWarmStart seeds the iteration from a previous snapshot instead of
// the constant initial guess. Teams absent from the snapshot fall back to
// the initial guess; zero-game teams stay pinned to their priors.
func WithWarmStart(snapshot map[string]Rating) Option {
	return func(o *Options) { o.WarmStart = snapshot }
}

// DefaultOptions returns the documented defaults: loc=1.014, ε=1e-6,
// K=100, uniform game weight 1.0, preseason weight 0, initial guess at
// the league average, normalization on.
func DefaultOptions() Options {
	return Options{
		HomeCourt:       DefaultHomeCourt,
		Tolerance:       DefaultTolerance,
		MaxIterations:   DefaultMaxIterations,
		GameWeight:      UniformWeight(1.0),
		PreseasonWeight: ConstantPreseason(0),
		Normalize:       true,
	}
}

// Package adjust implements the fixed-point iteration producing adjusted
// offensive/defensive efficiency ratings. See doc.go for the update rule
// and its derivation; solver.go holds the iteration machinery.
package adjust

import (
	"fmt"
	"math"

	"github.com/courtmetrics/adjrate/season"
)

// minDivisor is the floor below which an opponent rating stops being a
// usable divisor. Real per-possession values sit far above it; anything
// at or below signals malformed input, not round-off.
const minDivisor = 1e-12

// Solve runs the adjusted-rating fixed-point iteration over the season's
// full game table and returns one rating pair per roster team.
//
// Update rule for team j at iteration t+1, summing over its N_j games
// (previous iteration's snapshot on the right-hand side throughout):
//
//	o_j = [ Σ_i scored_i · (ppp_avg / d_opp(i)) · locO_i · w_i ] / N_j + w_pre(N_j) · o_pre_j
//	d_j = [ Σ_i allowed_i · (dppp_avg / o_opp(i)) · locD_i · w_i ] / N_j + w_pre(N_j) · d_pre_j
//
// where locO_i is 1/loc when j was home in game i and loc when away, and
// locD_i is the reciprocal convention (loc at home, 1/loc away). After
// each iteration the ratings of teams-with-games are rescaled so their
// league means equal ppp_avg and dppp_avg (unless WithoutNormalization).
//
// Termination: the loop stops when the maximum absolute change across all
// teams and both sides falls below Tolerance (StatusConverged), or when
// MaxIterations elapse (StatusMaxIterations, a status rather than an error; the
// Result carries the last snapshot and its max delta).
//
// Teams with zero games never enter the sum: their output is exactly
// their preseason prior.
//
// Errors: ErrNilSeason, ErrNoGames, ErrUnknownTeam, ErrMissingPrior,
// ErrDegenerateDivisor (with team and iteration context), and the
// configuration sentinels. Any fatal condition aborts the whole batch:
// partial ratings are meaningless without full mutual consistency.
//
// Complexity per iteration: O(G) over the game table plus O(V) for the
// delta scan; memory O(V + G) for the two snapshots and the per-team
// game index.
func Solve(s *season.Season, opts ...Option) (*Result, error) {
	// 1) Build and validate configuration.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	// 2) Validate input.
	if s == nil {
		return nil, ErrNilSeason
	}
	games := s.Games()
	if len(games) == 0 {
		return nil, ErrNoGames
	}

	// 3) Assemble the iteration context.
	r, err := newRunner(s, games, cfg)
	if err != nil {
		return nil, err
	}

	// 4) Iterate to the fixed point (or the cap).
	return r.run()
}

// validate re-checks configuration invariants centrally; the Option
// constructors already panic on bad arguments, but an Options literal
// assembled by hand must fail the same way.
func validate(cfg *Options) error {
	if cfg.HomeCourt <= 0 || math.IsNaN(cfg.HomeCourt) || math.IsInf(cfg.HomeCourt, 0) {
		return ErrBadHomeCourt
	}
	if cfg.Tolerance <= 0 {
		return ErrBadTolerance
	}
	if cfg.MaxIterations <= 0 {
		return ErrBadMaxIterations
	}
	if cfg.InitialRating < 0 {
		return ErrBadInitialRating
	}
	if cfg.GameWeight == nil {
		cfg.GameWeight = UniformWeight(1.0)
	}
	if cfg.PreseasonWeight == nil {
		cfg.PreseasonWeight = ConstantPreseason(0)
	}

	return nil
}

// teamGame is one game seen from one team's perspective, resolved to
// dense indices so the hot loop never touches a map.
type teamGame struct {
	opp     int     // opponent's dense index
	scored  float64 // this team's points per possession in the game
	allowed float64 // opponent's points per possession in the game
	home    bool    // whether this team was the home side
	weight  float64 // w_i from the injected schedule
}

// snapshot holds one iteration's complete state: co-indexed offensive and
// defensive rating arrays. Iterations read one frozen snapshot and write
// the other, never in place.
type snapshot struct {
	off []float64
	def []float64
}

func newSnapshot(n int) snapshot {
	return snapshot{off: make([]float64, n), def: make([]float64, n)}
}

// runner holds the immutable context and mutable state of one Solve call.
type runner struct {
	cfg      Options
	ids      []string     // dense index → team ID (sorted)
	byTeam   [][]teamGame // dense index → that team's games
	priors   []season.Prior
	hasPrior []bool
	preW     []float64 // w_pre(N_j) per team, evaluated once
	pppAvg   float64   // league average points per possession (offense)
	dpppAvg  float64   // league average points per possession allowed
	cur      snapshot
	next     snapshot
}

// newRunner resolves the season into dense arrays and validates every
// team-level precondition before the first iteration.
func newRunner(s *season.Season, games []season.Game, cfg Options) (*runner, error) {
	ids := s.Teams()
	idx := make(map[string]int, len(ids))
	for i, id := range ids {
		idx[id] = i
	}

	avg := s.AveragePPP()

	r := &runner{
		cfg:      cfg,
		ids:      ids,
		byTeam:   make([][]teamGame, len(ids)),
		priors:   make([]season.Prior, len(ids)),
		hasPrior: make([]bool, len(ids)),
		preW:     make([]float64, len(ids)),
		pppAvg:   avg,
		dpppAvg:  avg, // closed league: points scored == points allowed
		cur:      newSnapshot(len(ids)),
		next:     newSnapshot(len(ids)),
	}

	// Per-team game index with recency weights. games is chronological, so
	// counting occurrences as we scan yields each team's running game
	// number, the argument the weight schedule is defined on.
	played := make([]int, len(ids))
	for _, g := range games {
		hi, ok := idx[g.Home]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTeam, g.Home)
		}
		ai, ok := idx[g.Away]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTeam, g.Away)
		}

		played[hi]++
		r.byTeam[hi] = append(r.byTeam[hi], teamGame{
			opp:     ai,
			scored:  g.HomePPP,
			allowed: g.AwayPPP,
			home:    true,
			weight:  cfg.GameWeight(played[hi]),
		})

		played[ai]++
		r.byTeam[ai] = append(r.byTeam[ai], teamGame{
			opp:     hi,
			scored:  g.AwayPPP,
			allowed: g.HomePPP,
			home:    false,
			weight:  cfg.GameWeight(played[ai]),
		})
	}

	// Resolve priors and preseason weights; enforce the prior policy.
	for i, id := range ids {
		if p, ok := cfg.Priors[id]; ok {
			r.priors[i] = p
			r.hasPrior[i] = true
		} else if cfg.DefaultPrior != nil {
			r.priors[i] = *cfg.DefaultPrior
			r.hasPrior[i] = true
		}

		n := len(r.byTeam[i])
		if n == 0 {
			// Never enters the iteration; its rating IS the prior.
			if !r.hasPrior[i] {
				return nil, fmt.Errorf("%w: team %q has no games", ErrMissingPrior, id)
			}
			continue
		}

		r.preW[i] = cfg.PreseasonWeight(n)
		if r.preW[i] != 0 && !r.hasPrior[i] {
			return nil, fmt.Errorf("%w: team %q has nonzero preseason weight", ErrMissingPrior, id)
		}
	}

	r.initSnapshot()

	return r, nil
}

// initSnapshot seeds iteration 0: an identical constant guess for every
// team with games (the league average unless overridden), priors for
// zero-game teams, and warm-start values where supplied.
func (r *runner) initSnapshot() {
	guess := r.cfg.InitialRating
	if guess == 0 {
		guess = r.pppAvg
	}

	for i, id := range r.ids {
		if len(r.byTeam[i]) == 0 {
			// Pinned for the whole run.
			r.cur.off[i] = r.priors[i].Off
			r.cur.def[i] = r.priors[i].Def
			r.next.off[i] = r.priors[i].Off
			r.next.def[i] = r.priors[i].Def
			continue
		}

		r.cur.off[i] = guess
		r.cur.def[i] = guess
		if ws, ok := r.cfg.WarmStart[id]; ok {
			r.cur.off[i] = ws.Off
			r.cur.def[i] = ws.Def
		}
	}
}

// run executes the fixed-point loop and packages the result.
func (r *runner) run() (*Result, error) {
	var (
		iter     int
		maxDelta float64
	)

	for iter = 1; iter <= r.cfg.MaxIterations; iter++ {
		if err := r.step(iter); err != nil {
			return nil, err
		}

		if r.cfg.Normalize {
			if err := r.normalize(iter); err != nil {
				return nil, err
			}
		}

		maxDelta = r.delta()
		r.cur, r.next = r.next, r.cur // swap snapshots; next becomes scratch

		if maxDelta < r.cfg.Tolerance {
			return r.result(StatusConverged, iter, maxDelta), nil
		}
	}

	return r.result(StatusMaxIterations, r.cfg.MaxIterations, maxDelta), nil
}

// step computes iteration `iter` for every team into r.next, reading only
// the frozen r.cur snapshot, the synchronous-update invariant that keeps
// the fixed-point map well defined.
func (r *runner) step(iter int) error {
	loc := r.cfg.HomeCourt

	for j := range r.ids {
		gamesJ := r.byTeam[j]
		if len(gamesJ) == 0 {
			continue // pinned to prior at init; delta stays zero
		}

		var sumO, sumD float64
		for _, g := range gamesJ {
			dOpp := r.cur.def[g.opp]
			if !(dOpp > minDivisor) || math.IsInf(dOpp, 0) {
				return fmt.Errorf("%w: team %q defensive rating %v at iteration %d",
					ErrDegenerateDivisor, r.ids[g.opp], dOpp, iter)
			}
			oOpp := r.cur.off[g.opp]
			if !(oOpp > minDivisor) || math.IsInf(oOpp, 0) {
				return fmt.Errorf("%w: team %q offensive rating %v at iteration %d",
					ErrDegenerateDivisor, r.ids[g.opp], oOpp, iter)
			}

			locO, locD := loc, 1/loc
			if g.home {
				locO, locD = 1/loc, loc
			}

			sumO += g.scored * (r.pppAvg / dOpp) * locO * g.weight
			sumD += g.allowed * (r.dpppAvg / oOpp) * locD * g.weight
		}

		n := float64(len(gamesJ))
		r.next.off[j] = sumO/n + r.preW[j]*r.priors[j].Off
		r.next.def[j] = sumD/n + r.preW[j]*r.priors[j].Def
	}

	return nil
}

// normalize rescales the just-computed snapshot so the mean offensive and
// defensive ratings of teams-with-games equal the league averages. The raw
// map is invariant under (o, d) → (λ·o, d/λ) up to one iteration's swap,
// which makes the global scale neutrally stable and the literal iteration
// 2-periodic; pinning the means removes exactly that mode. Zero-game teams
// sit outside the league system and are neither counted nor rescaled.
func (r *runner) normalize(iter int) error {
	var sumO, sumD float64
	active := 0
	for j := range r.ids {
		if len(r.byTeam[j]) == 0 {
			continue
		}
		sumO += r.next.off[j]
		sumD += r.next.def[j]
		active++
	}
	if active == 0 {
		return nil // unreachable with a non-empty game table; kept for safety
	}

	meanO := sumO / float64(active)
	meanD := sumD / float64(active)
	if !(meanO > minDivisor) || !(meanD > minDivisor) {
		return fmt.Errorf("%w: league mean collapsed at iteration %d", ErrDegenerateDivisor, iter)
	}

	scaleO := r.pppAvg / meanO
	scaleD := r.dpppAvg / meanD
	for j := range r.ids {
		if len(r.byTeam[j]) == 0 {
			continue
		}
		r.next.off[j] *= scaleO
		r.next.def[j] *= scaleD
	}

	return nil
}

// delta returns the maximum absolute change between the current and next
// snapshots across all teams and both rating sides.
func (r *runner) delta() float64 {
	max := 0.0
	for j := range r.ids {
		if d := math.Abs(r.next.off[j] - r.cur.off[j]); d > max {
			max = d
		}
		if d := math.Abs(r.next.def[j] - r.cur.def[j]); d > max {
			max = d
		}
	}

	return max
}

// result copies the final snapshot (held in r.cur after the last swap)
// into the output map.
func (r *runner) result(status Status, iterations int, maxDelta float64) *Result {
	ratings := make(map[string]Rating, len(r.ids))
	for j, id := range r.ids {
		ratings[id] = Rating{
			Off:   r.cur.off[j],
			Def:   r.cur.def[j],
			Games: len(r.byTeam[j]),
		}
	}

	return &Result{
		Ratings:    ratings,
		Status:     status,
		Iterations: iterations,
		MaxDelta:   maxDelta,
	}
}

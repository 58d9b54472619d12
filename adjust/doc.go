// Package adjust computes opponent-adjusted offensive and defensive
// efficiency ratings for a season of games, in the style of tempo-free
// college-basketball rating systems.
//
// 🚀 What is an adjusted rating?
//
//	A team's raw points per possession mixes its own quality with the
//	quality of the defenses it happened to face. The adjusted rating
//	rescales every game by the opponent's rating on the complementary
//	side — offense divides by the opposing defense, defense divides by
//	the opposing offense — so the output reads as expected points per
//	possession against a league-average opponent.
//
//	Offense needs defense and defense needs offense, so the system is
//	circular. It is solved by fixed-point iteration over two co-indexed
//	snapshots: every iteration reads the previous iteration's complete,
//	frozen ratings and writes a fresh snapshot (synchronous update —
//	no team ever observes a partially updated peer).
//
// ✨ Key features:
//   - home-court factor applied asymmetrically to home/away games
//   - injected recency weighting (uniform, stepped, ramped — or your own)
//   - preseason priors blended via a constant or decaying weight
//   - zero-game teams fall back to their prior exactly, never 0/0
//   - non-convergence is a reported status carrying the last snapshot,
//     not a silent failure and not an error
//   - degenerate divisors (a zero or negative opponent rating) abort the
//     batch with the offending team and iteration named
//
// ⚠️ Normalization:
//
//	The literal update map is invariant under scaling all offensive
//	ratings by λ and all defensive ratings by 1/λ, up to a swap of the
//	two after one application. That global mode is neutrally stable, so
//	the raw iteration settles into a persistent 2-cycle rather than a
//	fixed point. By default the solver pins the mode down by rescaling
//	each iteration so the league means of both sides equal the league
//	average points per possession; WithoutNormalization exposes the raw
//	dynamics for analysis.
//
// ⚙️ Usage:
//
//	import (
//	    "github.com/courtmetrics/adjrate/adjust"
//	    "github.com/courtmetrics/adjrate/season"
//	)
//
//	res, err := adjust.Solve(s,
//	    adjust.WithHomeCourt(1.014),
//	    adjust.WithTolerance(1e-6),
//	    adjust.WithMaxIterations(50),
//	    adjust.WithPriors(priors),
//	    adjust.WithPreseasonWeightFunc(adjust.DecayingPreseason(0.5, 5)),
//	)
//	if err != nil {
//	    // fatal: bad input or configuration — no partial ratings
//	}
//	if !res.Converged() {
//	    // best-effort snapshot; res.MaxDelta says how unsettled it is
//	}
//	r := res.Ratings["duke"] // {Off, Def, Games}
//
// Performance:
//
//   - Time:   O(K·(G + V)) for K iterations, G games, V teams.
//     Realistic seasons converge within a few dozen iterations.
//   - Memory: O(V + G) — two rating snapshots plus a per-team game index.
//
// Determinism: repeated runs over identical inputs are bit-for-bit
// reproducible (subject to host floating-point behavior).
package adjust

// Package adjrate computes opponent-adjusted efficiency ratings for a
// league season — how many points per possession each team would score
// and allow against average opposition on a neutral floor.
//
// 🚀 What is adjrate?
//
// Raw per-possession numbers reward teams that play weak schedules.
// adjrate removes that bias with a fixed-point solver: every game's
// scoring is re-expressed relative to the opponent's concurrent rating,
// home-court advantage, and recency weighting, then iterated until the
// ratings stop moving.
//
// Packages:
//
//   - season  — immutable season container: roster, game results, priors
//   - adjust  — the fixed-point solver and its option surface
//   - store   — SQL persistence (SQLite and PostgreSQL)
//   - config  — YAML configuration with live reload
//   - api     — HTTP ratings service under /api/v1
//
// The cmd/adjrated binary ties them together: load a season from SQL,
// solve, persist, and serve.
//
// Quick start:
//
//	s := season.New()
//	_ = s.AddTeam(season.Team{ID: "A"})
//	_ = s.AddTeam(season.Team{ID: "B"})
//	_ = s.AddGame(season.Game{Home: "A", Away: "B", HomePPP: 1.05, AwayPPP: 0.95})
//
//	res, err := adjust.Solve(s)
//	if err != nil { ... }
//	fmt.Println(res.Ratings["A"].Net())
package adjrate

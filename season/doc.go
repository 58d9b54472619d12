// Package season defines the data model consumed by the adjusted-rating
// solver: teams, completed games expressed in points per possession, and
// preseason priors, all held in a validated Season container.
//
// 🚀 What lives here?
//
//	A Season is the immutable-once-built game table for one competition:
//	  • Team    — roster entry identified by a unique non-empty ID
//	  • Game    — one completed contest with per-possession scoring rates
//	  • Prior   — a preseason (offense, defense) rating estimate
//	  • Season  — roster + chronologically indexed games + league averages
//
// ✨ Guarantees:
//
//   - Referential integrity — AddGame rejects games naming teams that were
//     never registered (ErrUnknownTeam), so downstream consumers may index
//     by team ID without existence checks.
//   - Domain validity — per-possession values must be finite and
//     non-negative (ErrNegativePPP, ErrBadPPP). Zero is representable:
//     it is pathological but real input, and the solver, not the
//     container, decides how to fail on it.
//   - Determinism — Teams() returns IDs sorted lexicographically and
//     Games() returns games ordered by their chronological Index, so every
//     traversal of a Season is reproducible.
//
// ⚙️ Usage:
//
//	s := season.New()
//	_ = s.AddTeam(season.Team{ID: "duke"})
//	_ = s.AddTeam(season.Team{ID: "unc"})
//	_ = s.AddGame(season.Game{
//	    Home: "duke", Away: "unc",
//	    HomePPP: 1.08, AwayPPP: 0.97,
//	    Index: 1,
//	})
//	avg := s.AveragePPP() // league mean scoring rate
//
// Complexity: AddTeam/AddGame are O(1) (amortized); Teams() is
// O(V log V); Games() is O(G log G) on first call after mutation.
package season

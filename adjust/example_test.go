package adjust_test

import (
	"fmt"
	"sort"

	"github.com/courtmetrics/adjrate/adjust"
	"github.com/courtmetrics/adjrate/season"
)

// //////////////////////////////////////////////////////////////////////////////
// ExampleSolve
// //////////////////////////////////////////////////////////////////////////////
//
// Scenario:
//
//	Three teams play a single round-robin, each winning at home once:
//	  A over B (1.10 vs 0.90 points per possession)
//	  B over C (1.00 vs 0.95)
//	  C over A (1.05 vs 0.90)
//
// Options:
//   - HomeCourt = 1.014 (mild home advantage)
//   - Tolerance = 1e-6, MaxIterations = 50
//   - uniform game weights, no preseason blend
//
// Use case:
//
//	Mid-season power ratings from raw per-possession box scores.
func ExampleSolve() {
	s := season.New()
	for _, id := range []string{"A", "B", "C"} {
		_ = s.AddTeam(season.Team{ID: id})
	}
	_ = s.AddGame(season.Game{Home: "A", Away: "B", HomePPP: 1.1, AwayPPP: 0.9, Index: 1})
	_ = s.AddGame(season.Game{Home: "B", Away: "C", HomePPP: 1.0, AwayPPP: 0.95, Index: 2})
	_ = s.AddGame(season.Game{Home: "C", Away: "A", HomePPP: 1.05, AwayPPP: 0.9, Index: 3})

	res, err := adjust.Solve(s,
		adjust.WithHomeCourt(1.014),
		adjust.WithTolerance(1e-6),
		adjust.WithMaxIterations(50),
	)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	ids := make([]string, 0, len(res.Ratings))
	for id := range res.Ratings {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Println("status:", res.Status)
	for _, id := range ids {
		r := res.Ratings[id]
		fmt.Printf("%s off=%.2f def=%.2f\n", id, r.Off, r.Def)
	}
	// Output:
	// status: converged
	// A off=1.00 def=0.98
	// B off=0.97 def=1.02
	// C off=0.99 def=0.95
}

// //////////////////////////////////////////////////////////////////////////////
// ExampleSolve_nonConvergence
// //////////////////////////////////////////////////////////////////////////////
//
// Scenario:
//
//	A league whose entire schedule is one head-to-head game. The update
//	map alternates assignments between the two teams forever, so the
//	solver exhausts its cap and says so, with the last snapshot and the
//	residual delta attached, instead of pretending it converged.
func ExampleSolve_nonConvergence() {
	s := season.New()
	_ = s.AddTeam(season.Team{ID: "hare"})
	_ = s.AddTeam(season.Team{ID: "tortoise"})
	_ = s.AddGame(season.Game{Home: "hare", Away: "tortoise", HomePPP: 1.2, AwayPPP: 0.8, Index: 1})

	res, err := adjust.Solve(s,
		adjust.WithMaxIterations(25),
		adjust.WithoutNormalization(),
	)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	fmt.Println("status:", res.Status)
	fmt.Printf("iterations=%d maxDelta=%.2f\n", res.Iterations, res.MaxDelta)
	// Output:
	// status: max_iterations
	// iterations=25 maxDelta=0.19
}

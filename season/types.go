// Package season: core types, sentinel errors, and the Season constructor.
package season

import (
	"errors"
	"sync"
)

// Sentinel errors for season construction and validation.
var (
	// ErrEmptyTeamID indicates a Team with an empty ID string.
	ErrEmptyTeamID = errors.New("season: team ID is empty")

	// ErrDuplicateTeam indicates AddTeam was called twice with the same ID.
	ErrDuplicateTeam = errors.New("season: team already registered")

	// ErrUnknownTeam indicates a game references a team absent from the roster.
	ErrUnknownTeam = errors.New("season: game references unknown team")

	// ErrSelfGame indicates a game where a team is both home and away.
	ErrSelfGame = errors.New("season: home and away team are the same")

	// ErrNegativePPP indicates a negative points-per-possession value.
	ErrNegativePPP = errors.New("season: points per possession must be non-negative")

	// ErrBadPPP indicates a non-finite (NaN or Inf) points-per-possession value.
	ErrBadPPP = errors.New("season: points per possession must be finite")
)

// Team is one roster entry. ID uniquely identifies the team within its
// Season; Name is optional display text and carries no semantics.
type Team struct {
	ID   string
	Name string
}

// Game records one completed contest. Scoring is tempo-free: HomePPP and
// AwayPPP are points scored per offensive possession by the home and away
// side respectively. Index is the game's chronological position in the
// season and drives recency weighting; ties are allowed (games played the
// same day) and break deterministically by insertion order.
//
// A Game is immutable once added to a Season.
type Game struct {
	Home    string
	Away    string
	HomePPP float64
	AwayPPP float64
	Index   int
}

// Prior is a preseason rating estimate: expected points per possession
// scored (Off) and allowed (Def) against a league-average opponent.
type Prior struct {
	Off float64
	Def float64
}

// Season holds the roster and game table for one competition.
//
// Mutation (AddTeam, AddGame) is guarded by a mutex so a Season may be
// assembled from concurrent loaders; reads taken after assembly observe a
// consistent table. The solver treats a Season as read-only.
type Season struct {
	mu     sync.RWMutex
	teams  map[string]Team
	games  []Game
	sorted bool // games slice currently ordered by (Index, insertion)
}

// New returns an empty Season.
func New() *Season {
	return &Season{teams: make(map[string]Team)}
}

package season

import (
	"fmt"
	"math"
	"sort"
)

// AddTeam registers a team on the roster.
//
// Errors:
//   - ErrEmptyTeamID   if t.ID is empty.
//   - ErrDuplicateTeam if t.ID is already registered.
func (s *Season) AddTeam(t Team) error {
	if t.ID == "" {
		return ErrEmptyTeamID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[t.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTeam, t.ID)
	}
	s.teams[t.ID] = t

	return nil
}

// AddGame appends a completed game to the season.
//
// Validation (in order):
//  1. Both teams must be registered (ErrUnknownTeam).
//  2. Home and away must differ (ErrSelfGame).
//  3. Both PPP values must be finite (ErrBadPPP) and non-negative
//     (ErrNegativePPP). Zero is accepted: a side credited with zero
//     points in every possession is malformed-but-representable input,
//     and the solver reports the resulting degenerate divisor with
//     iteration context rather than this container guessing.
func (s *Season) AddGame(g Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[g.Home]; !ok {
		return fmt.Errorf("%w: home %q", ErrUnknownTeam, g.Home)
	}
	if _, ok := s.teams[g.Away]; !ok {
		return fmt.Errorf("%w: away %q", ErrUnknownTeam, g.Away)
	}
	if g.Home == g.Away {
		return fmt.Errorf("%w: %q", ErrSelfGame, g.Home)
	}
	for _, ppp := range [2]float64{g.HomePPP, g.AwayPPP} {
		if math.IsNaN(ppp) || math.IsInf(ppp, 0) {
			return fmt.Errorf("%w: %s vs %s", ErrBadPPP, g.Home, g.Away)
		}
		if ppp < 0 {
			return fmt.Errorf("%w: %s vs %s", ErrNegativePPP, g.Home, g.Away)
		}
	}

	s.games = append(s.games, g)
	s.sorted = false

	return nil
}

// HasTeam reports whether id is on the roster.
func (s *Season) HasTeam(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.teams[id]

	return ok
}

// Team returns the roster entry for id.
func (s *Season) Team(id string) (Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teams[id]

	return t, ok
}

// Teams returns all roster IDs sorted lexicographically.
func (s *Season) Teams() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.teams))
	for id := range s.teams {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// TeamCount returns the roster size.
func (s *Season) TeamCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.teams)
}

// Games returns a copy of the game table ordered by chronological Index
// (stable: games sharing an Index keep insertion order).
func (s *Season) Games() []Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sorted {
		sort.SliceStable(s.games, func(i, j int) bool {
			return s.games[i].Index < s.games[j].Index
		})
		s.sorted = true
	}

	out := make([]Game, len(s.games))
	copy(out, s.games)

	return out
}

// GameCount returns the number of recorded games.
func (s *Season) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.games)
}

// GamesOf returns how many games reference team id.
func (s *Season) GamesOf(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for i := range s.games {
		if s.games[i].Home == id || s.games[i].Away == id {
			n++
		}
	}

	return n
}

// AveragePPP returns the league-wide mean points per possession: the mean
// over every game of both sides' scoring rates. It is recomputed from the
// full table on each call, never per solver iteration, and returns 0 for
// a season with no games.
//
// In a closed league this single constant serves as both the offensive
// average (ppp_avg) and the defensive average (dppp_avg): every point
// scored is a point allowed.
func (s *Season) AveragePPP() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.games) == 0 {
		return 0
	}

	sum := 0.0
	for i := range s.games {
		sum += s.games[i].HomePPP + s.games[i].AwayPPP
	}

	return sum / float64(2*len(s.games))
}

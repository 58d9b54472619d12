package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/courtmetrics/adjrate/adjust"
	"github.com/courtmetrics/adjrate/season"
)

// Store wraps a database connection and persists roster, game table, and
// computed ratings.
type Store struct {
	DB     *sql.DB
	driver string
}

// Open connects using the given database/sql driver name and DSN and
// verifies the connection early with a ping. The caller (normally the
// binary) is responsible for importing the driver package.
func Open(driver, dsn string) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()

		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Store{DB: db, driver: driver}, nil
}

// New wraps an already-open connection; used by tests and by callers that
// manage the pool themselves.
func New(db *sql.DB, driver string) *Store {
	return &Store{DB: db, driver: driver}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Init creates the schema if it does not exist yet. Idempotent.
func (s *Store) Init() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS teams (
			id        TEXT PRIMARY KEY,
			name      TEXT,
			prior_off DOUBLE PRECISION,
			prior_def DOUBLE PRECISION
		)`,
		`CREATE TABLE IF NOT EXISTS games (
			game_index INTEGER NOT NULL,
			home_team  TEXT NOT NULL,
			away_team  TEXT NOT NULL,
			home_ppp   DOUBLE PRECISION NOT NULL,
			away_ppp   DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			team        TEXT PRIMARY KEY,
			off         DOUBLE PRECISION NOT NULL,
			def         DOUBLE PRECISION NOT NULL,
			games       INTEGER NOT NULL,
			status      TEXT NOT NULL,
			iterations  INTEGER NOT NULL,
			computed_at TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.DB.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	return nil
}

// SaveTeam upserts a roster entry; prior may be nil for teams without a
// preseason estimate.
func (s *Store) SaveTeam(t season.Team, prior *season.Prior) error {
	var off, def interface{}
	if prior != nil {
		off, def = prior.Off, prior.Def
	}

	query := s.rebind(`INSERT INTO teams (id, name, prior_off, prior_def)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			prior_off = excluded.prior_off,
			prior_def = excluded.prior_def`)
	if _, err := s.DB.Exec(query, t.ID, t.Name, off, def); err != nil {
		return fmt.Errorf("saving team %q: %w", t.ID, err)
	}

	return nil
}

// SaveGame appends a completed game.
func (s *Store) SaveGame(g season.Game) error {
	query := s.rebind(`INSERT INTO games (game_index, home_team, away_team, home_ppp, away_ppp)
		VALUES (?, ?, ?, ?, ?)`)
	if _, err := s.DB.Exec(query, g.Index, g.Home, g.Away, g.HomePPP, g.AwayPPP); err != nil {
		return fmt.Errorf("saving game %s vs %s: %w", g.Home, g.Away, err)
	}

	return nil
}

// LoadSeason materializes the full roster and game table. Container
// validation applies, so a corrupt table (unknown team, negative ppp)
// surfaces here rather than inside the solver.
func (s *Store) LoadSeason() (*season.Season, error) {
	out := season.New()

	rows, err := s.DB.Query(`SELECT id, name FROM teams`)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t season.Team
		var name sql.NullString
		if err := rows.Scan(&t.ID, &name); err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		t.Name = name.String
		if err := out.AddTeam(t); err != nil {
			return nil, fmt.Errorf("loading team %q: %w", t.ID, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating teams: %w", err)
	}

	games, err := s.DB.Query(`SELECT game_index, home_team, away_team, home_ppp, away_ppp
		FROM games ORDER BY game_index`)
	if err != nil {
		return nil, fmt.Errorf("querying games: %w", err)
	}
	defer games.Close()
	for games.Next() {
		var g season.Game
		if err := games.Scan(&g.Index, &g.Home, &g.Away, &g.HomePPP, &g.AwayPPP); err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		if err := out.AddGame(g); err != nil {
			return nil, fmt.Errorf("loading game %s vs %s: %w", g.Home, g.Away, err)
		}
	}
	if err := games.Err(); err != nil {
		return nil, fmt.Errorf("iterating games: %w", err)
	}

	return out, nil
}

// LoadPriors returns the preseason priors recorded on the roster; teams
// with NULL priors are absent from the map.
func (s *Store) LoadPriors() (map[string]season.Prior, error) {
	rows, err := s.DB.Query(`SELECT id, prior_off, prior_def FROM teams
		WHERE prior_off IS NOT NULL AND prior_def IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("querying priors: %w", err)
	}
	defer rows.Close()

	priors := make(map[string]season.Prior)
	for rows.Next() {
		var id string
		var p season.Prior
		if err := rows.Scan(&id, &p.Off, &p.Def); err != nil {
			return nil, fmt.Errorf("scanning prior: %w", err)
		}
		priors[id] = p
	}

	return priors, rows.Err()
}

// SaveRatings upserts the solver output, one row per team, all stamped
// with the same computation time and status.
func (s *Store) SaveRatings(res *adjust.Result, computedAt time.Time) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("beginning ratings tx: %w", err)
	}

	query := s.rebind(`INSERT INTO ratings (team, off, def, games, status, iterations, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (team) DO UPDATE SET
			off = excluded.off,
			def = excluded.def,
			games = excluded.games,
			status = excluded.status,
			iterations = excluded.iterations,
			computed_at = excluded.computed_at`)
	for id, r := range res.Ratings {
		if _, err := tx.Exec(query, id, r.Off, r.Def, r.Games, res.Status.String(), res.Iterations, computedAt); err != nil {
			tx.Rollback()

			return fmt.Errorf("saving rating for %q: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing ratings: %w", err)
	}

	return nil
}

// LoadRatings returns the persisted ratings keyed by team ID.
func (s *Store) LoadRatings() (map[string]adjust.Rating, error) {
	rows, err := s.DB.Query(`SELECT team, off, def, games FROM ratings`)
	if err != nil {
		return nil, fmt.Errorf("querying ratings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]adjust.Rating)
	for rows.Next() {
		var id string
		var r adjust.Rating
		if err := rows.Scan(&id, &r.Off, &r.Def, &r.Games); err != nil {
			return nil, fmt.Errorf("scanning rating: %w", err)
		}
		out[id] = r
	}

	return out, rows.Err()
}

// rebind rewrites `?` placeholders to `$n` for drivers that want ordinal
// parameters. SQLite accepts `?` natively.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

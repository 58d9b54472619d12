// Package store persists seasons and computed ratings behind database/sql.
//
// It is driver-agnostic: Open takes a driver name and DSN, and the SQL it
// emits sticks to the portable subset shared by the two drivers this
// project registers (pure-Go SQLite for a single-file local season,
// lib/pq for a shared Postgres instance). Placeholder style is the one
// dialect difference that matters, so queries are written with `?` and
// rebound to `$n` when the driver is postgres.
//
// Schema (created by Init, idempotent):
//
//	teams   — roster plus optional preseason priors (NULL = no prior)
//	games   — one row per completed game, ordered by game_index
//	ratings — latest solver output, upserted per team
//
// The store is a loader/saver, not a query layer: LoadSeason materializes
// a *season.Season for the solver, SaveRatings writes a *adjust.Result
// back. All errors are wrapped with operation context.
package store

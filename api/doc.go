// Package api exposes computed ratings over HTTP.
//
// Routes live under /api/v1:
//
//	GET  /api/v1/health          - solver status and snapshot metadata
//	GET  /api/v1/ratings         - all teams, best net efficiency first
//	GET  /api/v1/ratings/{team}  - one team, 404 when unknown
//	POST /api/v1/recompute       - reload the season, re-solve, swap the snapshot
//
// The served snapshot is swapped atomically after each solve, so readers
// never observe a partially updated rating set.
package api

// Package config loads the daemon's YAML configuration: solver
// parameters, storage backend selection, and the HTTP surface.
//
// Missing fields take documented defaults, then the whole file is
// validated structurally — an invalid file never half-applies.
// Watch provides live reload via filesystem notification, keeping the
// previous configuration when a reload fails.
//
// Example file:
//
//	solver:
//	  home_court: 1.014
//	  tolerance: 1e-6
//	  max_iterations: 100
//	  preseason_weight: 0.2
//	  game_weights: [0.5, 0.75]
//	  game_weight_tail: 1.0
//	store:
//	  driver: sqlite
//	  dsn: ./adjrate.db
//	  dsn_env: ADJRATE_DSN
//	server:
//	  http_port: 8080
package config

package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/courtmetrics/adjrate/adjust"
)

// Snapshot is one immutable solver run as served over HTTP.
type Snapshot struct {
	Result     *adjust.Result
	ComputedAt time.Time
}

// Holder guards the latest snapshot. Readers always see a complete run,
// never a half-written one.
type Holder struct {
	mu   sync.RWMutex
	snap *Snapshot
}

// Set swaps in a new snapshot atomically.
func (h *Holder) Set(res *adjust.Result, at time.Time) {
	h.mu.Lock()
	h.snap = &Snapshot{Result: res, ComputedAt: at}
	h.mu.Unlock()
}

// Get returns the current snapshot, or nil before the first solve.
func (h *Holder) Get() *Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.snap
}

// Recomputer reloads the season and re-solves; the handler swaps the
// result into the holder on success.
type Recomputer func(ctx context.Context) (*adjust.Result, error)

// Handler serves the ratings API under /api/v1.
type Handler struct {
	holder    *Holder
	recompute Recomputer
	router    *mux.Router
}

// New builds the HTTP handler. recompute may be nil, in which case
// POST /api/v1/recompute answers 501.
func New(holder *Holder, recompute Recomputer) *Handler {
	h := &Handler{holder: holder, recompute: recompute, router: mux.NewRouter()}

	v1 := h.router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	v1.HandleFunc("/ratings", h.handleRatings).Methods(http.MethodGet)
	v1.HandleFunc("/ratings/{team}", h.handleRating).Methods(http.MethodGet)
	v1.HandleFunc("/recompute", h.handleRecompute).Methods(http.MethodPost)

	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	snap := h.holder.Get()
	if snap == nil {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "empty"})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     snap.Result.Status.String(),
		ComputedAt: snap.ComputedAt,
		Iterations: snap.Result.Iterations,
		MaxDelta:   snap.Result.MaxDelta,
		Teams:      len(snap.Result.Ratings),
	})
}

func (h *Handler) handleRatings(w http.ResponseWriter, _ *http.Request) {
	snap := h.holder.Get()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no ratings computed yet")
		return
	}

	out := make([]RatingResponse, 0, len(snap.Result.Ratings))
	for team, r := range snap.Result.Ratings {
		out = append(out, RatingResponse{
			Team:  team,
			Off:   r.Off,
			Def:   r.Def,
			Net:   r.Net(),
			Games: r.Games,
		})
	}
	// Best net efficiency first; team id breaks ties deterministically.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Net != out[j].Net {
			return out[i].Net > out[j].Net
		}
		return out[i].Team < out[j].Team
	})

	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleRating(w http.ResponseWriter, r *http.Request) {
	snap := h.holder.Get()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no ratings computed yet")
		return
	}

	team := mux.Vars(r)["team"]
	rating, ok := snap.Result.Ratings[team]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown team: "+team)
		return
	}

	writeJSON(w, http.StatusOK, RatingResponse{
		Team:  team,
		Off:   rating.Off,
		Def:   rating.Def,
		Net:   rating.Net(),
		Games: rating.Games,
	})
}

func (h *Handler) handleRecompute(w http.ResponseWriter, r *http.Request) {
	if h.recompute == nil {
		writeError(w, http.StatusNotImplemented, "recompute not configured")
		return
	}

	res, err := h.recompute(r.Context())
	if err != nil {
		slog.Error("api: recompute failed", "err", err)
		status := http.StatusInternalServerError
		if errors.Is(err, adjust.ErrNoGames) {
			status = http.StatusConflict
		}
		writeError(w, status, err.Error())
		return
	}

	h.holder.Set(res, time.Now().UTC())
	writeJSON(w, http.StatusOK, RecomputeResponse{
		Status:     res.Status.String(),
		Iterations: res.Iterations,
		MaxDelta:   res.MaxDelta,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("api: encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

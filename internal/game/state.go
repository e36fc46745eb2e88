package game

import (
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Phase is the lifecycle stage of the current round.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseGameOver
	PhaseResetCountdown
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseGameOver:
		return "game_over"
	case PhaseResetCountdown:
		return "reset_countdown"
	default:
		return "unknown"
	}
}

// Player is the authoritative per-session state. Position is whatever the
// client last reported; power doubles as size, combat strength and round score.
type Player struct {
	ID           string
	Username     string // empty for guests
	X, Y         float64
	Power        int
	Respawning   bool
	Invulnerable bool
	Scored       bool // round score already flushed to persistence
}

// Food is a single pellet on the map.
type Food struct {
	ID   string
	X, Y float64
}

// World holds every mutable piece of round state. It has no locking of its
// own; the owner serializes all access.
type World struct {
	Players map[string]*Player
	Food    map[string]*Food

	Phase     Phase
	StartedAt time.Time
	Duration  time.Duration
}

func NewWorld(duration time.Duration) *World {
	return &World{
		Players:  make(map[string]*Player),
		Food:     make(map[string]*Food),
		Phase:    PhaseIdle,
		Duration: duration,
	}
}

// TimeRemaining reports the seconds left in the round, clamped at zero.
func (w *World) TimeRemaining(now time.Time) float64 {
	left := w.Duration - now.Sub(w.StartedAt)
	if left < 0 {
		left = 0
	}
	return left.Seconds()
}

// PlayerIDs returns all player ids in sorted order so that per-tick
// iteration is deterministic.
func (w *World) PlayerIDs() []string {
	ids := make([]string, 0, len(w.Players))
	for id := range w.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FoodIDs returns all food ids in sorted order.
func (w *World) FoodIDs() []string {
	ids := make([]string, 0, len(w.Food))
	for id := range w.Food {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RegenerateFood replaces the entire food set with n freshly placed pellets.
func (w *World) RegenerateFood(n int, rng *rand.Rand) {
	w.Food = make(map[string]*Food, n)
	for i := 0; i < n; i++ {
		x, y := RandomPosition(rng)
		id := uuid.NewString()
		w.Food[id] = &Food{ID: id, X: x, Y: y}
	}
}

// RandomPosition picks a uniformly random point within world bounds.
func RandomPosition(rng *rand.Rand) (x, y float64) {
	return rng.Float64() * WorldWidth, rng.Float64() * WorldHeight
}

// Center returns the world-center spawn point used for fresh connections.
func Center() (x, y float64) {
	return WorldWidth / 2, WorldHeight / 2
}

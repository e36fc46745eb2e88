package ws

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rbecker2075/cse312-mergeconflict/internal/domain"
	"github.com/rbecker2075/cse312-mergeconflict/internal/game"
	"github.com/rbecker2075/cse312-mergeconflict/internal/stats"
	"github.com/rbecker2075/cse312-mergeconflict/internal/usecase"
)

// Options are the tunables of one arena. Tests shrink the durations.
type Options struct {
	TickInterval    time.Duration
	RoundDuration   time.Duration
	GameOverDelay   time.Duration
	ResetCountdown  time.Duration
	RespawnDelay    time.Duration
	InvulnDuration  time.Duration
	FoodCount       int
}

// DefaultOptions mirrors the game tuning constants.
func DefaultOptions() Options {
	return Options{
		TickInterval:   time.Second / game.TickRate,
		RoundDuration:  game.RoundDuration,
		GameOverDelay:  game.GameOverDisplayDelay,
		ResetCountdown: game.ResetCountdown,
		RespawnDelay:   game.RespawnDelay,
		InvulnDuration: game.InvulnerabilityTime,
		FoodCount:      game.DefaultFoodCount,
	}
}

// Hub owns the world and every live connection. One mutex serializes the
// tick loop, inbound position updates, registration and timer callbacks;
// nothing touches the world without holding it.
type Hub struct {
	mu   sync.Mutex
	opts Options

	world     *game.World
	clients   map[string]*Client
	usernames map[string]string // active username -> player id

	rng       *rand.Rand
	store     stats.Store
	evaluator *usecase.Evaluator

	// deadline of the current GAME_OVER or RESET_COUNTDOWN phase
	phaseDeadline time.Time
}

func NewHub(store stats.Store, opts Options) *Hub {
	return &Hub{
		opts:      opts,
		world:     game.NewWorld(opts.RoundDuration),
		clients:   make(map[string]*Client),
		usernames: make(map[string]string),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		store:     store,
		evaluator: usecase.NewEvaluator(store),
	}
}

// Register allocates a player id for c, spawns it at world center and, on
// the first connection into an empty arena, starts the round. A username
// that already has a live session is rejected with ErrDuplicateSession and
// no state is touched.
func (h *Hub) Register(c *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.Username != "" {
		if _, taken := h.usernames[c.Username]; taken {
			return domain.ErrDuplicateSession
		}
	}

	now := time.Now()
	if len(h.clients) == 0 && h.world.Phase == game.PhaseIdle {
		h.world.Phase = game.PhaseRunning
		h.world.StartedAt = now
		h.world.RegenerateFood(h.opts.FoodCount, h.rng)
	}

	id := uuid.NewString()
	c.ID = id
	x, y := game.Center()
	h.world.Players[id] = &game.Player{
		ID:           id,
		Username:     c.Username,
		X:            x,
		Y:            y,
		Power:        1,
		Invulnerable: true,
	}
	h.clients[id] = c
	if c.Username != "" {
		h.usernames[c.Username] = id
	}
	h.scheduleInvulnerabilityEnd(id, h.opts.InvulnDuration)

	welcome, _ := marshal(domain.WelcomeMessage{
		Type:          domain.MessageTypeID,
		ID:            id,
		X:             x,
		Y:             y,
		Food:          h.foodInfosLocked(),
		TimeRemaining: h.world.TimeRemaining(now),
	})
	c.queue(welcome)

	log.Printf("player %s connected (username=%q, players=%d)", id, c.Username, len(h.clients))
	return nil
}

// UpdatePosition overwrites the player's reported position. A report from a
// session the hub already tore down gets ErrUnknownPlayer.
func (h *Hub) UpdatePosition(id string, x, y float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.world.Players[id]
	if !ok {
		return domain.ErrUnknownPlayer
	}
	p.X, p.Y = x, y
	return nil
}

// Remove tears down the session. It is idempotent: the tick loop and the
// connection's read pump may both call it.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(id)
}

func (h *Hub) removeLocked(id string) {
	p, ok := h.world.Players[id]
	if !ok {
		return
	}
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.send)
	}
	delete(h.world.Players, id)
	if p.Username != "" {
		delete(h.usernames, p.Username)
	}
	h.flushScoreLocked(p)

	data, _ := marshal(domain.RemoveMessage{Type: domain.MessageTypeRemove, ID: id})
	h.broadcastLocked(data)

	if len(h.clients) == 0 {
		h.world.Phase = game.PhaseIdle
	}
	log.Printf("player %s disconnected (players=%d)", id, len(h.clients))
}

// flushScoreLocked pushes the player's round score to the store, once per
// round. Persistence failures are logged and dropped.
func (h *Hub) flushScoreLocked(p *game.Player) {
	if p.Username == "" || p.Scored || p.Power <= 0 {
		return
	}
	p.Scored = true
	if err := h.store.AddScore(p.Username, p.Power); err != nil {
		log.Printf("score flush for %s dropped: %v", p.Username, err)
	}
}

// ClientCount returns the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// awardLocked evaluates the achievement catalog for p and queues unlock
// notifications to its connection if it is still live.
func (h *Hub) awardLocked(p *game.Player) {
	if p.Username == "" {
		return
	}
	totals, err := h.store.Totals(p.Username)
	if err != nil {
		log.Printf("achievement check for %s dropped: %v", p.Username, err)
		return
	}
	newly, err := h.evaluator.Unlock(p.Username, usecase.PlayerStats{
		Power:       p.Power,
		Kills:       totals.Kills,
		Pellets:     totals.Pellets,
		GamesPlayed: totals.GamesPlayed,
	})
	if err != nil {
		log.Printf("achievement check for %s dropped: %v", p.Username, err)
		return
	}
	c, ok := h.clients[p.ID]
	if !ok {
		return
	}
	for _, a := range newly {
		data, _ := marshal(domain.AchievementUnlockedMessage{
			Type: domain.MessageTypeAchievementUnlocked,
			Achievement: domain.AchievementInfo{
				ID:          a.ID,
				Name:        a.Name,
				Description: a.Description,
			},
		})
		c.queue(data)
	}
}

package ws

import (
	"context"
	"log"
	"time"

	"github.com/rbecker2075/cse312-mergeconflict/internal/domain"
	"github.com/rbecker2075/cse312-mergeconflict/internal/game"
)

// Run drives the fixed-rate tick loop until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.tick(time.Now())
		}
	}
}

// tick is one iteration of the authoritative loop. A phase transition
// pre-empts gameplay and the snapshot for that tick. A panic anywhere in
// the body is logged and the loop carries on next tick.
func (h *Hub) tick(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("tick recovered: %v", r)
		}
	}()

	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.world.Phase {
	case game.PhaseIdle:
		return
	case game.PhaseRunning:
		if h.world.TimeRemaining(now) <= 0 {
			h.endRoundLocked(now)
			return
		}
		h.stepGameplayLocked()
	case game.PhaseGameOver:
		if !now.Before(h.phaseDeadline) {
			h.beginResetCountdownLocked(now)
			return
		}
	case game.PhaseResetCountdown:
		if !now.Before(h.phaseDeadline) {
			h.startNextRoundLocked(now)
			return
		}
	}

	h.broadcastSnapshotLocked(now)
}

// stepGameplayLocked runs food pickup then combat resolution.
func (h *Hub) stepGameplayLocked() {
	pickup := game.ResolveFood(h.world)
	if len(pickup.Removed) > 0 {
		data, _ := marshal(domain.FoodUpdateMessage{
			Type:        domain.MessageTypeFoodUpdate,
			RemovedFood: pickup.Removed,
		})
		h.broadcastLocked(data)

		for pid, n := range pickup.ByPlayer {
			p := h.world.Players[pid]
			if p.Username == "" {
				continue
			}
			if err := h.store.IncrementPellets(p.Username, n); err != nil {
				log.Printf("pellet count for %s dropped: %v", p.Username, err)
			}
			h.awardLocked(p)
		}
	}

	for _, o := range game.ResolveCombat(h.world, h.rng) {
		if c, ok := h.clients[o.LoserID]; ok {
			data, _ := marshal(domain.EatenMessage{Type: domain.MessageTypeEaten})
			c.queue(data)
		}
		h.scheduleRespawn(o.LoserID, h.opts.RespawnDelay)

		winner := h.world.Players[o.WinnerID]
		if winner.Username != "" {
			if err := h.store.IncrementKills(winner.Username); err != nil {
				log.Printf("kill count for %s dropped: %v", winner.Username, err)
			}
			h.awardLocked(winner)
		}
	}
}

// endRoundLocked is the RUNNING -> GAME_OVER transition.
func (h *Hub) endRoundLocked(now time.Time) {
	winnerName := "anonymous"
	if winner := game.RoundWinner(h.world); winner != nil && winner.Username != "" {
		winnerName = winner.Username
	}

	h.world.Phase = game.PhaseGameOver
	h.phaseDeadline = now.Add(h.opts.GameOverDelay)

	for _, p := range h.world.Players {
		p.Invulnerable = true
		p.Respawning = false
		h.flushScoreLocked(p)
	}

	data, _ := marshal(domain.GameOverMessage{
		Type:   domain.MessageTypeGameOver,
		Winner: winnerName,
	})
	h.broadcastLocked(data)
	log.Printf("round over, winner %s", winnerName)
}

// beginResetCountdownLocked is the GAME_OVER -> RESET_COUNTDOWN transition.
func (h *Hub) beginResetCountdownLocked(now time.Time) {
	h.world.Phase = game.PhaseResetCountdown
	h.phaseDeadline = now.Add(h.opts.ResetCountdown)

	data, _ := marshal(domain.PreResetTimerMessage{
		Type:     domain.MessageTypePreResetTimer,
		Duration: h.opts.ResetCountdown.Seconds(),
	})
	h.broadcastLocked(data)
}

// startNextRoundLocked is the RESET_COUNTDOWN -> RUNNING transition: games
// played are credited, food is regenerated and every player starts over at
// power 1 with fresh invulnerability.
func (h *Hub) startNextRoundLocked(now time.Time) {
	var names []string
	for _, id := range h.world.PlayerIDs() {
		if u := h.world.Players[id].Username; u != "" {
			names = append(names, u)
		}
	}
	if len(names) > 0 {
		if err := h.store.IncrementGamesPlayed(names); err != nil {
			log.Printf("games played batch dropped: %v", err)
		}
	}

	h.world.RegenerateFood(h.opts.FoodCount, h.rng)
	h.world.Phase = game.PhaseRunning
	h.world.StartedAt = now

	for _, id := range h.world.PlayerIDs() {
		p := h.world.Players[id]
		p.Power = 1
		p.Scored = false
		p.Respawning = false
		p.Invulnerable = true
		p.X, p.Y = game.RandomPosition(h.rng)
		h.scheduleInvulnerabilityEnd(id, h.opts.InvulnDuration)
		h.awardLocked(p)
	}

	data, _ := marshal(domain.GameResetMessage{
		Type:          domain.MessageTypeGameReset,
		TimeRemaining: h.opts.RoundDuration.Seconds(),
		Food:          h.foodInfosLocked(),
	})
	h.broadcastLocked(data)
	log.Printf("round reset, %d players", len(h.clients))
}

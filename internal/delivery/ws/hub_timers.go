package ws

import (
	"time"

	"github.com/rbecker2075/cse312-mergeconflict/internal/domain"
	"github.com/rbecker2075/cse312-mergeconflict/internal/game"
)

// One-shot timers fire off the tick loop. There is no explicit cancel: each
// callback re-acquires the hub lock and checks that its target still exists
// and is still in the state the timer was armed for. A timer for a player
// who has since disconnected is a harmless no-op.

// scheduleInvulnerabilityEnd clears the spawn-protection flag after d.
func (h *Hub) scheduleInvulnerabilityEnd(id string, d time.Duration) {
	time.AfterFunc(d, func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		p, ok := h.world.Players[id]
		if !ok {
			return
		}
		// End-of-round grants blanket invulnerability; only a running
		// round may take it away.
		if h.world.Phase != game.PhaseRunning {
			return
		}
		p.Invulnerable = false
	})
}

// scheduleRespawn repositions a defeated player after delay, notifies it,
// and arms a fresh invulnerability window.
func (h *Hub) scheduleRespawn(id string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		p, ok := h.world.Players[id]
		if !ok || !p.Respawning {
			return
		}
		p.X, p.Y = game.RandomPosition(h.rng)
		p.Respawning = false
		p.Invulnerable = true
		h.scheduleInvulnerabilityEnd(id, h.opts.InvulnDuration)

		if c, ok := h.clients[id]; ok {
			data, _ := marshal(domain.RespawnMessage{
				Type: domain.MessageTypeRespawn,
				X:    p.X,
				Y:    p.Y,
			})
			c.queue(data)
		}
	})
}

package ws

import (
	"encoding/json"
	"time"

	"github.com/rbecker2075/cse312-mergeconflict/internal/domain"
)

func marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// foodInfosLocked serializes the current food set in stable id order.
func (h *Hub) foodInfosLocked() []domain.FoodInfo {
	infos := make([]domain.FoodInfo, 0, len(h.world.Food))
	for _, id := range h.world.FoodIDs() {
		f := h.world.Food[id]
		infos = append(infos, domain.FoodInfo{ID: f.ID, X: f.X, Y: f.Y})
	}
	return infos
}

// broadcastLocked queues data to every live connection, dropping it for
// clients whose buffers are full. Event messages are best-effort; snapshot
// sends are the ones that decide disconnection.
func (h *Hub) broadcastLocked(data []byte) {
	for _, c := range h.clients {
		c.queue(data)
	}
}

// broadcastSnapshotLocked assembles the per-tick state message and sends it
// to everyone. A connection whose buffer is full is treated as dead and
// removed; the tick never fails because of one client.
func (h *Hub) broadcastSnapshotLocked(now time.Time) {
	players := make(map[string]domain.PlayerInfo, len(h.world.Players))
	for id, p := range h.world.Players {
		players[id] = domain.PlayerInfo{
			X:              p.X,
			Y:              p.Y,
			Power:          p.Power,
			Username:       p.Username,
			IsRespawning:   p.Respawning,
			IsInvulnerable: p.Invulnerable,
		}
	}

	data, _ := marshal(domain.StateMessage{
		Type:          domain.MessageTypePlayers,
		Players:       players,
		Food:          h.foodInfosLocked(),
		TimeRemaining: h.world.TimeRemaining(now),
	})

	var failed []string
	for id, c := range h.clients {
		if !c.queue(data) {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		h.removeLocked(id)
	}
}

package game

import (
	"math"
	"math/rand"
)

// PickupResult describes one tick's worth of food consumption.
type PickupResult struct {
	Removed  []string       // consumed food ids, each listed once
	ByPlayer map[string]int // pellets eaten per player id
}

// CombatOutcome is a single resolved player-vs-player collision.
type CombatOutcome struct {
	WinnerID string
	LoserID  string
	Gained   int // power transferred to the winner
}

func distance(ax, ay, bx, by float64) float64 {
	return math.Hypot(ax-bx, ay-by)
}

// ResolveFood consumes every pellet within pickup range of a player and
// credits one power per pellet. A pellet goes to the first player that
// reaches it in sorted-id order; it is gone for everyone else this tick.
func ResolveFood(w *World) PickupResult {
	res := PickupResult{ByPlayer: make(map[string]int)}
	foodIDs := w.FoodIDs()
	for _, pid := range w.PlayerIDs() {
		p := w.Players[pid]
		if p.Respawning {
			continue
		}
		for _, fid := range foodIDs {
			f, ok := w.Food[fid]
			if !ok {
				continue // already eaten this tick
			}
			if distance(p.X, p.Y, f.X, f.Y) >= FoodPickupRadius {
				continue
			}
			delete(w.Food, fid)
			p.Power++
			res.Removed = append(res.Removed, fid)
			res.ByPlayer[pid]++
		}
	}
	return res
}

// ResolveCombat resolves every colliding pair of vulnerable players, at most
// once per player per tick. The higher power wins; exact ties are decided by
// a fair coin. The winner absorbs the loser's power (at least 1) and the
// loser drops to power 1 and enters the respawn state.
func ResolveCombat(w *World, rng *rand.Rand) []CombatOutcome {
	ids := w.PlayerIDs()
	resolved := make(map[string]bool)
	var outcomes []CombatOutcome

	for i := 0; i < len(ids); i++ {
		a := w.Players[ids[i]]
		if a.Respawning || a.Invulnerable || resolved[a.ID] {
			continue
		}
		for j := i + 1; j < len(ids); j++ {
			b := w.Players[ids[j]]
			if b.Respawning || b.Invulnerable || resolved[b.ID] {
				continue
			}
			if distance(a.X, a.Y, b.X, b.Y) >= CombatRadius {
				continue
			}

			winner, loser := a, b
			if b.Power > a.Power || (a.Power == b.Power && rng.Intn(2) == 1) {
				winner, loser = b, a
			}
			gained := loser.Power
			if gained < 1 {
				gained = 1
			}
			winner.Power += gained
			loser.Power = 1
			loser.Respawning = true

			resolved[a.ID] = true
			resolved[b.ID] = true
			outcomes = append(outcomes, CombatOutcome{
				WinnerID: winner.ID,
				LoserID:  loser.ID,
				Gained:   gained,
			})
			break // a is done for this tick
		}
	}
	return outcomes
}

// RoundWinner returns the connected player with the highest power, ties
// broken by first-seen (sorted id) order. Nil when the world is empty.
func RoundWinner(w *World) *Player {
	var best *Player
	for _, id := range w.PlayerIDs() {
		p := w.Players[id]
		if best == nil || p.Power > best.Power {
			best = p
		}
	}
	return best
}

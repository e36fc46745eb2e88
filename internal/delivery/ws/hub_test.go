package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rbecker2075/cse312-mergeconflict/internal/domain"
	"github.com/rbecker2075/cse312-mergeconflict/internal/game"
	"github.com/rbecker2075/cse312-mergeconflict/internal/stats"
)

// newTestHub builds a hub with a fresh in-memory store and durations that
// keep the background timers out of the way unless a test arms them.
func newTestHub() (*Hub, *stats.MemoryStore) {
	store := stats.NewMemoryStore()
	opts := Options{
		TickInterval:   time.Second / game.TickRate,
		RoundDuration:  time.Minute,
		GameOverDelay:  5 * time.Second,
		ResetCountdown: 10 * time.Second,
		RespawnDelay:   time.Hour,
		InvulnDuration: time.Hour,
		FoodCount:      10,
	}
	return NewHub(store, opts), store
}

// newMockClient creates a client without an actual websocket connection
func newMockClient(hub *Hub, username string) *Client {
	return &Client{
		Username: username,
		hub:      hub,
		send:     make(chan []byte, 256),
	}
}

// popMessage drains the client's send buffer looking for the first message
// of the given type. Returns nil when none is queued.
func popMessage(c *Client, msgType domain.MessageType) []byte {
	for {
		select {
		case data := <-c.send:
			var envelope struct {
				Type domain.MessageType `json:"type"`
			}
			if err := json.Unmarshal(data, &envelope); err != nil {
				continue
			}
			if envelope.Type == msgType {
				return data
			}
		default:
			return nil
		}
	}
}

func TestRegisterStartsRound(t *testing.T) {
	h, _ := newTestHub()
	c := newMockClient(h, "alice")

	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}

	if c.ID == "" {
		t.Fatal("register did not assign a player id")
	}
	if h.world.Phase != game.PhaseRunning {
		t.Errorf("phase = %v, want running after first connection", h.world.Phase)
	}
	if len(h.world.Food) != h.opts.FoodCount {
		t.Errorf("food count = %d, want %d", len(h.world.Food), h.opts.FoodCount)
	}

	p := h.world.Players[c.ID]
	if p == nil {
		t.Fatal("player not inserted")
	}
	cx, cy := game.Center()
	if p.X != cx || p.Y != cy {
		t.Errorf("spawn at (%v, %v), want world center", p.X, p.Y)
	}
	if p.Power != 1 || !p.Invulnerable || p.Respawning {
		t.Errorf("fresh player state = %+v", p)
	}

	data := popMessage(c, domain.MessageTypeID)
	if data == nil {
		t.Fatal("no id message queued")
	}
	var welcome domain.WelcomeMessage
	if err := json.Unmarshal(data, &welcome); err != nil {
		t.Fatalf("decode welcome: %v", err)
	}
	if welcome.ID != c.ID {
		t.Errorf("welcome id = %s, want %s", welcome.ID, c.ID)
	}
	if len(welcome.Food) != h.opts.FoodCount {
		t.Errorf("welcome food = %d, want %d", len(welcome.Food), h.opts.FoodCount)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	h, _ := newTestHub()

	first := newMockClient(h, "alice")
	if err := h.Register(first); err != nil {
		t.Fatalf("register first: %v", err)
	}

	second := newMockClient(h, "alice")
	if err := h.Register(second); err != domain.ErrDuplicateSession {
		t.Fatalf("register duplicate = %v, want ErrDuplicateSession", err)
	}

	if h.ClientCount() != 1 {
		t.Errorf("client count = %d, want 1 (no mutation on rejection)", h.ClientCount())
	}
	if len(h.world.Players) != 1 {
		t.Errorf("players = %d, want 1", len(h.world.Players))
	}
	if second.ID != "" {
		t.Errorf("rejected client got id %q", second.ID)
	}
}

func TestRegisterGuestsAreNeverDuplicates(t *testing.T) {
	h, _ := newTestHub()

	if err := h.Register(newMockClient(h, "")); err != nil {
		t.Fatalf("first guest: %v", err)
	}
	if err := h.Register(newMockClient(h, "")); err != nil {
		t.Fatalf("second guest: %v", err)
	}
	if h.ClientCount() != 2 {
		t.Errorf("client count = %d, want 2", h.ClientCount())
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	h, _ := newTestHub()
	c := newMockClient(h, "alice")
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}

	h.Remove(c.ID)
	h.Remove(c.ID) // second removal must be a no-op
	h.Remove("never-existed")

	if h.ClientCount() != 0 {
		t.Errorf("client count = %d, want 0", h.ClientCount())
	}
	if h.world.Phase != game.PhaseIdle {
		t.Errorf("phase = %v, want idle once arena is empty", h.world.Phase)
	}

	// The username must be free again.
	if err := h.Register(newMockClient(h, "alice")); err != nil {
		t.Errorf("re-register freed username: %v", err)
	}
}

func TestRemoveBroadcastsToSurvivors(t *testing.T) {
	h, _ := newTestHub()
	alice := newMockClient(h, "alice")
	bob := newMockClient(h, "bob")
	if err := h.Register(alice); err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if err := h.Register(bob); err != nil {
		t.Fatalf("register bob: %v", err)
	}
	bobID := bob.ID

	h.Remove(bobID)

	data := popMessage(alice, domain.MessageTypeRemove)
	if data == nil {
		t.Fatal("no remove message queued to the surviving client")
	}
	var msg domain.RemoveMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode remove: %v", err)
	}
	if msg.ID != bobID {
		t.Errorf("remove id = %s, want %s", msg.ID, bobID)
	}
}

func TestRemoveFlushesScore(t *testing.T) {
	h, store := newTestHub()
	c := newMockClient(h, "alice")
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	h.world.Players[c.ID].Power = 5

	h.Remove(c.ID)

	totals, _ := store.Totals("alice")
	if totals.Score != 5 {
		t.Errorf("flushed score = %d, want 5", totals.Score)
	}
}

func TestUpdatePosition(t *testing.T) {
	h, _ := newTestHub()
	c := newMockClient(h, "alice")
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := h.UpdatePosition(c.ID, 123, 456); err != nil {
		t.Fatalf("update position: %v", err)
	}

	p := h.world.Players[c.ID]
	if p.X != 123 || p.Y != 456 {
		t.Errorf("position = (%v, %v), want (123, 456)", p.X, p.Y)
	}

	// Reports from torn-down sessions identify themselves to the caller.
	if err := h.UpdatePosition("gone", 1, 2); err != domain.ErrUnknownPlayer {
		t.Errorf("stale update = %v, want ErrUnknownPlayer", err)
	}
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rbecker2075/cse312-mergeconflict/internal/config"
	"github.com/rbecker2075/cse312-mergeconflict/internal/delivery/ws"
	"github.com/rbecker2075/cse312-mergeconflict/internal/domain"
	"github.com/rbecker2075/cse312-mergeconflict/internal/stats"
)

// isOriginAllowed checks if the origin is in the allowed list
func isOriginAllowed(origin string) bool {
	// Empty origin is allowed (same-origin requests)
	if origin == "" {
		return true
	}

	for _, allowed := range config.AppConfig.AllowedOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}
	return false
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return isOriginAllowed(origin)
	},
}

type Handler struct {
	hub      *ws.Hub
	resolver stats.IdentityResolver
	store    stats.Store
}

func NewHandler(hub *ws.Hub, resolver stats.IdentityResolver, store stats.Store) *Handler {
	return &Handler{
		hub:      hub,
		resolver: resolver,
		store:    store,
	}
}

// sessionUsername resolves the connecting user's identity from the session
// cookie or a token query parameter. Unresolvable tokens yield a guest.
func (h *Handler) sessionUsername(r *http.Request) string {
	token := ""
	if cookie, err := r.Cookie("session_token"); err == nil {
		token = cookie.Value
	}
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return ""
	}
	username, ok := h.resolver.Resolve(token)
	if !ok {
		return ""
	}
	return username
}

// HandleGame upgrades the connection and registers the player with the hub.
// A username that already has a live session gets an error message and an
// immediate policy-violation close; the existing session is never replaced.
func (h *Handler) HandleGame(w http.ResponseWriter, r *http.Request) {
	username := h.sessionUsername(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn, username)
	if err := h.hub.Register(client); err != nil {
		if errors.Is(err, domain.ErrDuplicateSession) {
			conn.WriteJSON(domain.ErrorMessage{
				Type:    domain.MessageTypeError,
				Message: domain.DuplicateSessionReason,
			})
			conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, domain.DuplicateSessionReason),
				time.Now().Add(time.Second),
			)
		}
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// HandleStats returns a user's lifetime totals and unlocked achievements.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		username = h.sessionUsername(r)
	}
	if username == "" {
		http.Error(w, "username required", http.StatusBadRequest)
		return
	}

	totals, err := h.store.Totals(username)
	if err != nil {
		http.Error(w, "stats unavailable", http.StatusServiceUnavailable)
		return
	}
	unlocked, err := h.store.UnlockedAchievements(username)
	if err != nil {
		http.Error(w, "stats unavailable", http.StatusServiceUnavailable)
		return
	}

	ids := make([]string, 0, len(unlocked))
	for id := range unlocked {
		ids = append(ids, id)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"username":     username,
		"score":        totals.Score,
		"games_played": totals.GamesPlayed,
		"kills":        totals.Kills,
		"pellets":      totals.Pellets,
		"achievements": ids,
	})
}

// HandleLeaderboard returns the top lifetime scores.
func (h *Handler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.TopScores(10)
	if err != nil {
		http.Error(w, "leaderboard unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

package domain

// MessageType is the wire discriminator carried in every server message.
type MessageType string

const (
	MessageTypeID                  MessageType = "id"
	MessageTypePlayers             MessageType = "players"
	MessageTypeFoodUpdate          MessageType = "food_update"
	MessageTypeEaten               MessageType = "eaten"
	MessageTypeRespawn             MessageType = "respawn"
	MessageTypeRemove              MessageType = "remove"
	MessageTypeGameOver            MessageType = "game_over"
	MessageTypePreResetTimer       MessageType = "pre_reset_timer"
	MessageTypeGameReset           MessageType = "game_reset"
	MessageTypeAchievementUnlocked MessageType = "achievement_unlocked"
	MessageTypeError               MessageType = "error"
)

// PlayerInfo is the public view of one player inside a state snapshot.
type PlayerInfo struct {
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Power          int     `json:"power"`
	Username       string  `json:"username"`
	IsRespawning   bool    `json:"is_respawning"`
	IsInvulnerable bool    `json:"is_invulnerable"`
}

// FoodInfo is one pellet as serialized to clients.
type FoodInfo struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// WelcomeMessage assigns the player id and delivers the initial snapshot.
type WelcomeMessage struct {
	Type          MessageType `json:"type"`
	ID            string      `json:"id"`
	X             float64     `json:"x"`
	Y             float64     `json:"y"`
	Food          []FoodInfo  `json:"food"`
	TimeRemaining float64     `json:"time_remaining"`
}

// StateMessage is the periodic full snapshot broadcast every tick.
type StateMessage struct {
	Type          MessageType           `json:"type"`
	Players       map[string]PlayerInfo `json:"players"`
	Food          []FoodInfo            `json:"food"`
	TimeRemaining float64               `json:"time_remaining"`
}

// FoodUpdateMessage lists pellets consumed during one tick.
type FoodUpdateMessage struct {
	Type        MessageType `json:"type"`
	RemovedFood []string    `json:"removed_food"`
}

// EatenMessage tells the losing side of a collision that it was consumed.
type EatenMessage struct {
	Type MessageType `json:"type"`
}

// RespawnMessage carries the freshly assigned post-respawn position.
type RespawnMessage struct {
	Type MessageType `json:"type"`
	X    float64     `json:"x"`
	Y    float64     `json:"y"`
}

// RemoveMessage tells clients to drop a departed player's avatar. Snapshots
// carry only live players, so clients rely on this to prune their scenes.
type RemoveMessage struct {
	Type MessageType `json:"type"`
	ID   string      `json:"id"`
}

// GameOverMessage announces the round winner.
type GameOverMessage struct {
	Type   MessageType `json:"type"`
	Winner string      `json:"winner"`
}

// PreResetTimerMessage starts the client-side reset countdown display.
type PreResetTimerMessage struct {
	Type     MessageType `json:"type"`
	Duration float64     `json:"duration"`
}

// GameResetMessage starts a fresh round with regenerated food.
type GameResetMessage struct {
	Type          MessageType `json:"type"`
	TimeRemaining float64     `json:"time_remaining"`
	Food          []FoodInfo  `json:"food"`
}

// AchievementInfo is the public shape of an unlocked achievement.
type AchievementInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AchievementUnlockedMessage notifies a single player of a new unlock.
type AchievementUnlockedMessage struct {
	Type        MessageType     `json:"type"`
	Achievement AchievementInfo `json:"achievement"`
}

// ErrorMessage precedes a server-initiated close, e.g. on duplicate sessions.
type ErrorMessage struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

// PositionReport is the only client-to-server message: the intended position.
type PositionReport struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

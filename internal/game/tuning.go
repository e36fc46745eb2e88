package game

import "time"

// World dimensions match the client's 9x9 grid of 1920x1080 background tiles.
const (
	WorldWidth  = 1920.0 * 9
	WorldHeight = 1080.0 * 9

	FoodPickupRadius = 50.0
	CombatRadius     = 75.0

	DefaultFoodCount = 150

	TickRate = 30 // ticks per second

	RoundDuration        = 300 * time.Second
	RespawnDelay         = 10 * time.Second
	InvulnerabilityTime  = 10 * time.Second
	GameOverDisplayDelay = 5 * time.Second
	ResetCountdown       = 10 * time.Second
)

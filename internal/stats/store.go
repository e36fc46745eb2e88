// Package stats defines the persistence collaborators the game core calls
// out to. The game never blocks on these: failed writes are logged by the
// caller and dropped.
package stats

// Totals is a user's lifetime record.
type Totals struct {
	Score       int `json:"score"`
	GamesPlayed int `json:"games_played"`
	Kills       int `json:"kills"`
	Pellets     int `json:"pellets"`
}

// LeaderboardEntry pairs a username with its lifetime score.
type LeaderboardEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Store persists lifetime stats and unlocked achievements. Writes are
// idempotent where noted; all methods must be safe for concurrent use.
type Store interface {
	// AddScore adds delta to the user's lifetime score. Non-positive
	// deltas are ignored.
	AddScore(username string, delta int) error

	// IncrementGamesPlayed bumps the games-played counter for every
	// listed username in one batch.
	IncrementGamesPlayed(usernames []string) error

	IncrementKills(username string) error
	IncrementPellets(username string, n int) error

	Totals(username string) (Totals, error)
	TopScores(n int) ([]LeaderboardEntry, error)

	// UnlockedAchievements returns the set of achievement ids already
	// recorded for the user.
	UnlockedAchievements(username string) (map[string]bool, error)

	// GrantAchievements records the given ids; granting an id that is
	// already present is a no-op.
	GrantAchievements(username string, ids []string) error
}

// IdentityResolver maps a session token to the username it was issued for.
// Token issuance and verification live outside the game core.
type IdentityResolver interface {
	Resolve(token string) (username string, ok bool)
}

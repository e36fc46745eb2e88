package usecase

import (
	"fmt"

	"github.com/rbecker2075/cse312-mergeconflict/internal/stats"
)

// Stat selects which metric an achievement threshold is compared against.
type Stat string

const (
	StatPower   Stat = "power"   // current round power
	StatKills   Stat = "kills"   // lifetime kills
	StatPellets Stat = "pellets" // lifetime pellets eaten
	StatGames   Stat = "games"   // lifetime games played
)

// Achievement is one threshold-based definition from the static catalog.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Stat        Stat
	Threshold   int
}

// Catalog is the fixed set of achievements. Unlocks are evaluated against
// it every time a qualifying stat changes.
var Catalog = []Achievement{
	{ID: "power_10", Name: "Growing Planet", Description: "Reach power 10 in a single round.", Stat: StatPower, Threshold: 10},
	{ID: "power_50", Name: "Gas Giant", Description: "Reach power 50 in a single round.", Stat: StatPower, Threshold: 50},
	{ID: "power_100", Name: "Supernova", Description: "Reach power 100 in a single round.", Stat: StatPower, Threshold: 100},
	{ID: "kills_1", Name: "First Blood", Description: "Eat another player for the first time.", Stat: StatKills, Threshold: 1},
	{ID: "kills_10", Name: "Apex Predator", Description: "Eat 10 players.", Stat: StatKills, Threshold: 10},
	{ID: "kills_50", Name: "Black Hole", Description: "Eat 50 players.", Stat: StatKills, Threshold: 50},
	{ID: "pellets_100", Name: "Sun Eater", Description: "Collect 100 pellets.", Stat: StatPellets, Threshold: 100},
	{ID: "games_1", Name: "Welcome Aboard", Description: "Finish your first game.", Stat: StatGames, Threshold: 1},
	{ID: "games_10", Name: "Regular", Description: "Finish 10 games.", Stat: StatGames, Threshold: 10},
}

// PlayerStats is the typed snapshot achievements are evaluated against.
type PlayerStats struct {
	Power       int
	Kills       int
	Pellets     int
	GamesPlayed int
}

func (s PlayerStats) value(stat Stat) int {
	switch stat {
	case StatPower:
		return s.Power
	case StatKills:
		return s.Kills
	case StatPellets:
		return s.Pellets
	case StatGames:
		return s.GamesPlayed
	default:
		return 0
	}
}

// Evaluator checks the catalog against fresh stats and records new unlocks.
type Evaluator struct {
	store stats.Store
}

func NewEvaluator(store stats.Store) *Evaluator {
	return &Evaluator{store: store}
}

// Unlock returns every achievement newly satisfied by s that the store has
// not recorded yet, granting them in one idempotent batch. Anonymous users
// (empty username) never unlock anything.
func (e *Evaluator) Unlock(username string, s PlayerStats) ([]Achievement, error) {
	if username == "" {
		return nil, nil
	}

	unlocked, err := e.store.UnlockedAchievements(username)
	if err != nil {
		return nil, fmt.Errorf("read unlocked achievements: %w", err)
	}

	var newly []Achievement
	for _, a := range Catalog {
		if unlocked[a.ID] || s.value(a.Stat) < a.Threshold {
			continue
		}
		newly = append(newly, a)
	}
	if len(newly) == 0 {
		return nil, nil
	}

	ids := make([]string, len(newly))
	for i, a := range newly {
		ids[i] = a.ID
	}
	if err := e.store.GrantAchievements(username, ids); err != nil {
		return nil, fmt.Errorf("grant achievements: %w", err)
	}
	return newly, nil
}

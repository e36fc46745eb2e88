package stats

import (
	"sort"
	"sync"
)

// MemoryStore is a mutex-guarded in-process Store. It backs tests and
// single-node deployments; a durable driver can replace it behind the
// same interface.
type MemoryStore struct {
	mu           sync.Mutex
	totals       map[string]*Totals
	achievements map[string]map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		totals:       make(map[string]*Totals),
		achievements: make(map[string]map[string]bool),
	}
}

// entry returns the totals record for username, creating it if needed.
// Caller must hold mu.
func (s *MemoryStore) entry(username string) *Totals {
	t, ok := s.totals[username]
	if !ok {
		t = &Totals{}
		s.totals[username] = t
	}
	return t
}

func (s *MemoryStore) AddScore(username string, delta int) error {
	if delta <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(username).Score += delta
	return nil
}

func (s *MemoryStore) IncrementGamesPlayed(usernames []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range usernames {
		s.entry(u).GamesPlayed++
	}
	return nil
}

func (s *MemoryStore) IncrementKills(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(username).Kills++
	return nil
}

func (s *MemoryStore) IncrementPellets(username string, n int) error {
	if n <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(username).Pellets += n
	return nil
}

func (s *MemoryStore) Totals(username string) (Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.totals[username]; ok {
		return *t, nil
	}
	return Totals{}, nil
}

func (s *MemoryStore) TopScores(n int) ([]LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]LeaderboardEntry, 0, len(s.totals))
	for u, t := range s.totals {
		entries = append(entries, LeaderboardEntry{Username: u, Score: t.Score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Username < entries[j].Username
	})
	if n < len(entries) {
		entries = entries[:n]
	}
	return entries, nil
}

func (s *MemoryStore) UnlockedAchievements(username string) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlocked := make(map[string]bool, len(s.achievements[username]))
	for id := range s.achievements[username] {
		unlocked[id] = true
	}
	return unlocked, nil
}

func (s *MemoryStore) GrantAchievements(username string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.achievements[username]
	if !ok {
		set = make(map[string]bool)
		s.achievements[username] = set
	}
	for _, id := range ids {
		set[id] = true
	}
	return nil
}

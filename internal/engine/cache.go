package engine

import "sync"

// CacheEntry is a finished resolution. A nil Historical records that the user
// had no history, so the live data is shown without another query.
type CacheEntry struct {
	Historical *Resolved
}

// MatchCache holds resolutions for the active game only. It is cleared when a
// snapshot for a different game id is observed and at no other time.
type MatchCache struct {
	mu      sync.Mutex
	gameID  int64
	players map[int64]CacheEntry
	resets  int
}

func NewMatchCache() *MatchCache {
	return &MatchCache{players: make(map[int64]CacheEntry)}
}

// Observe makes gameID the active game. The compare and clear happen under one
// lock so concurrent snapshots cannot both see the old id.
func (c *MatchCache) Observe(gameID int64) (previous int64, changed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	previous = c.gameID
	if gameID == c.gameID {
		return previous, false
	}
	c.gameID = gameID
	clear(c.players)
	c.resets++
	return previous, true
}

func (c *MatchCache) Lookup(gameID, userID int64) (CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gameID != c.gameID {
		return CacheEntry{}, false
	}
	e, ok := c.players[userID]
	return e, ok
}

// Store records a resolution made for gameID. It is dropped if another game
// became active while the query ran.
func (c *MatchCache) Store(gameID, userID int64, e CacheEntry) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gameID != c.gameID {
		return false
	}
	c.players[userID] = e
	return true
}

func (c *MatchCache) CurrentGameID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gameID
}

func (c *MatchCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.players)
}

// Resets counts invalidations since construction.
func (c *MatchCache) Resets() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resets
}

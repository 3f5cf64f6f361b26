package shop

import "sync"

// Guard admits at most one redemption per user at a time. It is a
// fast-path gate against double-click races; the database transaction
// remains the authority on balances.
type Guard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewGuard creates an empty admission guard.
func NewGuard() *Guard {
	return &Guard{inflight: make(map[string]struct{})}
}

// TryAcquire reserves the user's redemption slot. It returns false if
// a redemption for that user is already in flight.
func (g *Guard) TryAcquire(discordID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inflight[discordID]; busy {
		return false
	}
	g.inflight[discordID] = struct{}{}
	return true
}

// Release frees the user's slot. Releasing a slot that is not held is
// a no-op.
func (g *Guard) Release(discordID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inflight, discordID)
}

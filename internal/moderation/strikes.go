package moderation

import "sync"

// StrikeLedger counts profanity strikes per connection. Strikes are keyed
// by the ephemeral connection ID, so a reconnect starts from zero.
type StrikeLedger struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewStrikeLedger creates an empty ledger.
func NewStrikeLedger() *StrikeLedger {
	return &StrikeLedger{counts: make(map[string]int)}
}

// Increment adds a strike for the connection and returns the new total.
func (l *StrikeLedger) Increment(connID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[connID]++
	return l.counts[connID]
}

// Count returns the connection's current strike total.
func (l *StrikeLedger) Count(connID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[connID]
}

// Clear drops the connection's strikes. Called on disconnect.
func (l *StrikeLedger) Clear(connID string) {
	l.mu.Lock()
	delete(l.counts, connID)
	l.mu.Unlock()
}

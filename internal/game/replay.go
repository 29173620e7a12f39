package game

import (
	"sync"
)

// Replay is the in-memory history of a game: one snapshot after every
// accepted action, oldest first. When the limit is reached the oldest
// snapshot is dropped.
type Replay struct {
	GameID       string
	States       []Snapshot
	CurrentIndex int
	limit        int
	dropped      int
	mu           sync.RWMutex
}

// NewReplay creates a new replay holding at most limit snapshots. A limit of
// zero or less means unbounded.
func NewReplay(gameID string, limit int) *Replay {
	return &Replay{
		GameID: gameID,
		States: make([]Snapshot, 0, 64),
		limit:  limit,
	}
}

// Record appends a snapshot.
func (r *Replay) Record(snapshot Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.States = append(r.States, snapshot)
	if r.limit > 0 && len(r.States) > r.limit {
		over := len(r.States) - r.limit
		r.States = append(r.States[:0:0], r.States[over:]...)
		r.dropped += over
		r.CurrentIndex = max(0, r.CurrentIndex-over)
	}
}

// Start rewinds to the first recorded snapshot.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.CurrentIndex = 0
}

// Next returns the snapshot at the cursor and advances it.
func (r *Replay) Next() (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex < len(r.States) {
		state := r.States[r.CurrentIndex]
		r.CurrentIndex++
		return state, true
	}
	return Snapshot{}, false
}

// Previous moves the cursor back and returns the snapshot there.
func (r *Replay) Previous() (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		return r.States[r.CurrentIndex], true
	}
	return Snapshot{}, false
}

// Skip moves the cursor by count, clamped to the recorded range.
func (r *Replay) Skip(count int) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.States) == 0 {
		return Snapshot{}, false
	}

	newIndex := r.CurrentIndex + count
	if newIndex >= len(r.States) {
		newIndex = len(r.States) - 1
	}
	if newIndex < 0 {
		newIndex = 0
	}

	r.CurrentIndex = newIndex
	return r.States[r.CurrentIndex], true
}

// Size returns the number of recorded snapshots.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.States)
}

// Dropped returns how many snapshots were evicted by the limit.
func (r *Replay) Dropped() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.dropped
}

// GetStateAt returns the snapshot at index.
func (r *Replay) GetStateAt(index int) (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= 0 && index < len(r.States) {
		return r.States[index], true
	}
	return Snapshot{}, false
}

// Last returns the most recent snapshot.
func (r *Replay) Last() (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.States) == 0 {
		return Snapshot{}, false
	}
	return r.States[len(r.States)-1], true
}

// Package conversation tracks per-channel message history with a sliding
// window. The RAG engine only reads slices handed to it per query; this
// package owns and mutates the history.
package conversation

import (
	"sync"

	"github.com/pollinet/knowledgebot/internal/provider"
)

// Manager maps channel IDs to bounded conversation histories.
// It is safe for concurrent use.
//
// Two bounds apply: each channel keeps at most maxHistory messages (oldest
// dropped first), and the total channel count is capped at maxChannels so an
// attacker opening many channels cannot exhaust memory. When the cap is hit,
// the least recently touched channel is evicted.
type Manager struct {
	mu          sync.RWMutex
	channels    map[int64][]provider.Message
	lastTouched map[int64]uint64 // logical clock per channel
	clock       uint64
	maxHistory  int
	maxChannels int
}

// Defaults applied when NewManager receives non-positive bounds.
const (
	DefaultMaxHistory  = 10
	DefaultMaxChannels = 1000
)

// NewManager creates a Manager with the given per-channel window and total
// channel bound.
func NewManager(maxHistory, maxChannels int) *Manager {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	if maxChannels <= 0 {
		maxChannels = DefaultMaxChannels
	}
	return &Manager{
		channels:    make(map[int64][]provider.Message),
		lastTouched: make(map[int64]uint64),
		maxHistory:  maxHistory,
		maxChannels: maxChannels,
	}
}

// AppendUser appends a user message to the channel's history.
func (m *Manager) AppendUser(channelID int64, content string) {
	m.append(channelID, provider.Message{Role: provider.RoleUser, Content: content})
}

// AppendAssistant appends an assistant message to the channel's history.
func (m *Manager) AppendAssistant(channelID int64, content string) {
	m.append(channelID, provider.Message{Role: provider.RoleAssistant, Content: content})
}

func (m *Manager) append(channelID int64, msg provider.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.channels[channelID]; !exists {
		m.evictIfFull()
	}

	history := append(m.channels[channelID], msg)
	if len(history) > m.maxHistory {
		// Copy the surviving window so the backing array of the old
		// slice can be collected.
		trimmed := make([]provider.Message, m.maxHistory)
		copy(trimmed, history[len(history)-m.maxHistory:])
		history = trimmed
	}
	m.channels[channelID] = history
	m.touch(channelID)
}

// History returns a copy of the channel's history in chronological order.
// The copy keeps callers from observing later mutations.
func (m *Manager) History(channelID int64) []provider.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.channels[channelID]
	if len(history) == 0 {
		return nil
	}
	out := make([]provider.Message, len(history))
	copy(out, history)
	return out
}

// Clear removes the channel's history entirely.
func (m *Manager) Clear(channelID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.channels, channelID)
	delete(m.lastTouched, channelID)
}

// Len reports the number of tracked channels.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.channels)
}

// touch records channel activity for eviction ordering. Caller holds mu.
func (m *Manager) touch(channelID int64) {
	m.clock++
	m.lastTouched[channelID] = m.clock
}

// evictIfFull drops the least recently touched channel when the channel cap
// is reached. Caller holds mu.
func (m *Manager) evictIfFull() {
	if len(m.channels) < m.maxChannels {
		return
	}

	var (
		oldestID    int64
		oldestClock uint64
		found       bool
	)
	for id, at := range m.lastTouched {
		if !found || at < oldestClock {
			oldestID, oldestClock, found = id, at, true
		}
	}
	if found {
		delete(m.channels, oldestID)
		delete(m.lastTouched, oldestID)
	}
}

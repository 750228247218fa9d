// Package session stores per-user conversation state between turns and
// serializes concurrent runs for the same user.
package session

import (
	"log/slog"
	"sync"

	"github.com/analyza-ai/analyza/pkg/models"
)

// DefaultMaxHistory bounds the stored history per user.
const DefaultMaxHistory = 100

// User holds one requester's identity and bounded conversation history.
// History keeps only user and assistant turns; intermediate tool traffic
// belongs to a single run and is never persisted.
type User struct {
	ID      string
	Name    string
	Role    string
	Context string

	mu         sync.Mutex
	runMu      sync.Mutex
	history    []models.Message
	maxHistory int
}

// History returns a copy of the stored conversation.
func (u *User) History() models.Conversation {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make(models.Conversation, len(u.history))
	copy(out, u.history)
	return out
}

// Append records a user or assistant turn, evicting the oldest entries once
// the bound is reached.
func (u *User) Append(role models.Role, content string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.history = append(u.history, models.Message{Role: role, Content: content})
	if len(u.history) > u.maxHistory {
		u.history = u.history[len(u.history)-u.maxHistory:]
	}
}

// LockRun gives the caller exclusive access to this user's history for the
// duration of one orchestration run. A second message from the same user
// waits here until the first run finishes; runs for different users proceed
// in parallel.
func (u *User) LockRun() func() {
	u.runMu.Lock()
	return u.runMu.Unlock
}

// Manager creates and retrieves users and deduplicates channel events.
type Manager struct {
	mu         sync.Mutex
	users      map[string]*User
	eventIDs   map[string]struct{}
	eventOrder []string
	maxHistory int
	logger     *slog.Logger

	defaultRole    string
	defaultContext string
}

// Option customizes a Manager.
type Option func(*Manager)

// WithMaxHistory overrides the per-user history bound.
func WithMaxHistory(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxHistory = n
		}
	}
}

// WithUserDefaults sets the role and context attributed to new users until
// the channel learns better.
func WithUserDefaults(role, context string) Option {
	return func(m *Manager) {
		m.defaultRole = role
		m.defaultContext = context
	}
}

// NewManager creates an empty session manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		users:      make(map[string]*User),
		eventIDs:   make(map[string]struct{}),
		maxHistory: DefaultMaxHistory,
		logger:     slog.Default().With("component", "session"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetOrCreate returns the existing user or creates one. The display name is
// refreshed on every call since channels let users rename themselves.
func (m *Manager) GetOrCreate(userID, userName string) *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		user = &User{
			ID:         userID,
			Name:       userName,
			Role:       m.defaultRole,
			Context:    m.defaultContext,
			maxHistory: m.maxHistory,
		}
		m.users[userID] = user
		m.logger.Info("Created session", "user_id", userID, "user_name", userName)
	} else if userName != "" {
		user.Name = userName
	}
	return user
}

// eventID bounds matching the upstream channel's redelivery window
const (
	maxTrackedEvents = 1000
	keptAfterPruning = 500
)

// IsDuplicateEvent reports whether the event ID was already seen, recording
// it otherwise. The tracked set is pruned to its newest half once full.
func (m *Manager) IsDuplicateEvent(eventID string) bool {
	if eventID == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, seen := m.eventIDs[eventID]; seen {
		return true
	}
	m.eventIDs[eventID] = struct{}{}
	m.eventOrder = append(m.eventOrder, eventID)
	if len(m.eventOrder) > maxTrackedEvents {
		cut := len(m.eventOrder) - keptAfterPruning
		for _, old := range m.eventOrder[:cut] {
			delete(m.eventIDs, old)
		}
		m.eventOrder = append([]string(nil), m.eventOrder[cut:]...)
	}
	return false
}

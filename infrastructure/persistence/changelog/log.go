// Package changelog keeps the per-project, capped, append-only history of
// user-visible actions.
package changelog

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"nexusboard/domain/config"
	"nexusboard/domain/events"
	"nexusboard/infrastructure/persistence/abstractions"
)

// Entry is one recorded action. The id is collision-tolerant, not unique: it
// is a render key, never a lookup key.
type Entry struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	User      string `json:"user"`
}

// Log is the append-only change log. Appends trim to the newest
// ChangeLogCapacity entries; the oldest are silently dropped. Unbounded
// history is a non-goal.
type Log struct {
	store    abstractions.ProjectStore
	capacity int
	user     string

	mu  sync.Mutex
	now func() time.Time
}

// NewLog creates a log over the given store. user tags every entry.
func NewLog(store abstractions.ProjectStore, cfg *config.DomainConfig, user string) *Log {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if user == "" {
		user = "current_user"
	}
	return &Log{
		store:    store,
		capacity: cfg.ChangeLogCapacity,
		user:     user,
		now:      time.Now,
	}
}

// SetClock overrides the timestamp source. Tests only.
func (l *Log) SetClock(now func() time.Time) {
	l.now = now
}

// Append constructs an entry, appends it, trims to capacity, and persists the
// truncated log.
func (l *Log) Append(projectID, action, details string) (Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry := Entry{
		ID:        fmt.Sprintf("%d_%s", now.UnixMilli(), randomSuffix(9)),
		Timestamp: now.UTC().Format(time.RFC3339),
		Action:    action,
		Details:   details,
		User:      l.user,
	}

	var entries []Entry
	if _, err := l.store.Get(projectID, abstractions.KeyChangeLogs, &entries); err != nil {
		return Entry{}, err
	}
	entries = append(entries, entry)
	if len(entries) > l.capacity {
		entries = entries[len(entries)-l.capacity:]
	}

	if err := l.store.Set(projectID, abstractions.KeyChangeLogs, entries); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// List returns the stored sequence, oldest first.
func (l *Log) List(projectID string) ([]Entry, error) {
	var entries []Entry
	if _, err := l.store.Get(projectID, abstractions.KeyChangeLogs, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Replace overwrites the stored log wholesale, trimming to capacity. Used on
// pull.
func (l *Log) Replace(projectID string, entries []Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(entries) > l.capacity {
		entries = entries[len(entries)-l.capacity:]
	}
	return l.store.Set(projectID, abstractions.KeyChangeLogs, entries)
}

// Recorder subscribes a Log to domain events for one project. It is the only
// place mutations turn into history entries; the engine itself never logs.
type Recorder struct {
	log       *Log
	projectID string
}

// NewRecorder binds a log to a project id.
func NewRecorder(log *Log, projectID string) *Recorder {
	return &Recorder{log: log, projectID: projectID}
}

var _ events.Publisher = (*Recorder)(nil)

// Publish appends one entry per event. Append failures are swallowed: history
// is best-effort and must never fail a mutation.
func (r *Recorder) Publish(event events.DomainEvent) {
	_, _ = r.log.Append(r.projectID, event.GetAction(), event.GetDetails())
}

const suffixCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixCharset[rand.Intn(len(suffixCharset))]
	}
	return string(b)
}

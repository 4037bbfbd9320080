// Package shapememory persists per-node metadata independently of the node's
// presence in the working set, so content survives delete/recreate cycles and
// is recoverable on load and select.
package shapememory

import (
	"sync"
	"time"

	"nexusboard/domain/core/entities"
	"nexusboard/domain/events"
	"nexusboard/infrastructure/persistence/abstractions"
)

// Store is a read-through/write-through cache of shape memory records for one
// project.
type Store struct {
	store     abstractions.ProjectStore
	projectID string
	publisher events.Publisher

	mu    sync.Mutex
	cache map[string]entities.ShapeMemoryRecord

	now func() time.Time
}

// NewStore creates a store bound to a project. The publisher receives a
// ShapeMemorySaved event for every persisted patch.
func NewStore(store abstractions.ProjectStore, projectID string, publisher events.Publisher) *Store {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Store{
		store:     store,
		projectID: projectID,
		publisher: publisher,
		cache:     make(map[string]entities.ShapeMemoryRecord),
		now:       time.Now,
	}
}

// SetClock overrides the timestamp source. Tests only.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Save merges patch over the existing record (field-level last-writer-wins),
// stamps lastModified, persists, and emits shape_memory_saved naming the
// patched fields.
func (s *Store) Save(nodeID string, patch entities.ShapeMemoryPatch) (entities.ShapeMemoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.cache[nodeID]
	if !ok {
		// Fall back to the durable copy; an orphaned record may exist from
		// a previous session.
		if _, err := s.store.Get(s.projectID, abstractions.ShapeKey(nodeID), &record); err != nil {
			return entities.ShapeMemoryRecord{}, err
		}
	}

	merged, fields := entities.MergePatch(record, patch)
	merged.NodeID = nodeID
	modified := s.now()
	merged.LastModified = &modified

	if err := s.store.Set(s.projectID, abstractions.ShapeKey(nodeID), merged); err != nil {
		return entities.ShapeMemoryRecord{}, err
	}
	s.cache[nodeID] = merged

	s.publisher.Publish(events.NewShapeMemorySaved(nodeID, merged.Label, fields))
	return merged, nil
}

// Load returns the persisted record and refreshes the cache. The second
// return is false when no record exists.
func (s *Store) Load(nodeID string) (entities.ShapeMemoryRecord, bool, error) {
	var record entities.ShapeMemoryRecord
	found, err := s.store.Get(s.projectID, abstractions.ShapeKey(nodeID), &record)
	if err != nil || !found {
		return entities.ShapeMemoryRecord{}, false, err
	}

	s.mu.Lock()
	s.cache[nodeID] = record
	s.mu.Unlock()
	return record, true, nil
}

// LoadAll is the bulk form of Load, run whenever the active node set changes
// so the cache never lags the visible nodes.
func (s *Store) LoadAll(nodeIDs []string) map[string]entities.ShapeMemoryRecord {
	out := make(map[string]entities.ShapeMemoryRecord)
	for _, id := range nodeIDs {
		if record, found, err := s.Load(id); err == nil && found {
			out[id] = record
		}
	}
	return out
}

// Delete eagerly removes a node's record from the cache and the store. Called
// when the node is deleted; the deletion itself is logged by the engine.
func (s *Store) Delete(nodeID string) error {
	s.mu.Lock()
	delete(s.cache, nodeID)
	s.mu.Unlock()
	return s.store.Delete(s.projectID, abstractions.ShapeKey(nodeID))
}

// Cached returns a copy of the in-memory record map, keyed by node id.
func (s *Store) Cached() map[string]entities.ShapeMemoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]entities.ShapeMemoryRecord, len(s.cache))
	for id, record := range s.cache {
		out[id] = record
	}
	return out
}

// Replace overwrites all records wholesale. Used on pull, where the remote
// snapshot is authoritative.
func (s *Store) Replace(records map[string]entities.ShapeMemoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.cache {
		if _, keep := records[id]; !keep {
			if err := s.store.Delete(s.projectID, abstractions.ShapeKey(id)); err != nil {
				return err
			}
		}
	}

	s.cache = make(map[string]entities.ShapeMemoryRecord, len(records))
	for id, record := range records {
		record.NodeID = id
		if err := s.store.Set(s.projectID, abstractions.ShapeKey(id), record); err != nil {
			return err
		}
		s.cache[id] = record
	}
	return nil
}

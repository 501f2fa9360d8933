package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// SnapshotKey is the fixed namespace key the collection is stored under.
const SnapshotKey = "atelier.library.v1"

// Snapshotter is the persistence boundary the Repository writes through.
// Load returns (nil, nil) when no snapshot exists under the key.
type Snapshotter interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

// Repository is the single source of truth for the entity collection.
// The collection is ordered most-recent-first; every successful mutation
// re-serializes the whole collection through the Snapshotter. Mutations are
// single atomic read-modify-write steps under the repository lock, so a
// reader never observes a half-updated relation.
type Repository struct {
	mu       sync.RWMutex
	entities []*Entity
	byID     map[string]*Entity
	snap     Snapshotter
	log      *log.Logger
	onChange func()
}

// Open creates a Repository backed by the given snapshot store. It loads the
// stored collection, falling back to the seed dataset when the snapshot is
// absent or unparsable. Corrupt data never fails initialization.
func Open(snap Snapshotter, logger *log.Logger) *Repository {
	if logger == nil {
		logger = log.Default()
	}

	r := &Repository{
		snap: snap,
		log:  logger,
		byID: make(map[string]*Entity),
	}

	data, err := snap.Load(SnapshotKey)
	switch {
	case err != nil:
		logger.Warn("snapshot load failed, starting from seed dataset", "key", SnapshotKey, "err", err)
		r.replaceLocked(SeedEntities())
	case data == nil:
		logger.Debug("no snapshot found, starting from seed dataset", "key", SnapshotKey)
		r.replaceLocked(SeedEntities())
	default:
		var entities []*Entity
		if err := json.Unmarshal(data, &entities); err != nil {
			logger.Warn("snapshot unparsable, starting from seed dataset", "key", SnapshotKey, "err", err)
			r.replaceLocked(SeedEntities())
		} else if err := validateCollection(entities); err != nil {
			logger.Warn("snapshot invalid, starting from seed dataset", "key", SnapshotKey, "err", err)
			r.replaceLocked(SeedEntities())
		} else {
			r.replaceLocked(entities)
		}
	}

	return r
}

// OnChange registers a callback fired after every successful mutation.
// The view layer uses this to re-render; the callback runs outside the
// repository lock.
func (r *Repository) OnChange(fn func()) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

// validateCollection rejects snapshots that parse as JSON but cannot back a
// repository: null entries, blank ids, duplicate ids. Callers treat these
// like unparsable data.
func validateCollection(entities []*Entity) error {
	seen := make(map[string]bool, len(entities))
	for i, e := range entities {
		if e == nil {
			return fmt.Errorf("null entity at index %d", i)
		}
		if e.ID == "" {
			return fmt.Errorf("entity at index %d has no id", i)
		}
		if seen[e.ID] {
			return fmt.Errorf("duplicate entity id %q", e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

// replaceLocked swaps in a full collection. Caller holds no lock during Open;
// used only before the Repository is shared.
func (r *Repository) replaceLocked(entities []*Entity) {
	r.entities = entities
	r.byID = make(map[string]*Entity, len(entities))
	for _, e := range entities {
		r.byID[e.ID] = e
	}
}

// Create inserts the entity at the front of the collection. The caller is
// responsible for generating a unique id; a duplicate or empty id is the only
// error case. CreatedAt is assigned when unset.
func (r *Repository) Create(e Entity) error {
	if e.ID == "" {
		return fmt.Errorf("catalog: entity id is required")
	}

	r.mu.Lock()
	if _, exists := r.byID[e.ID]; exists {
		r.mu.Unlock()
		return fmt.Errorf("catalog: duplicate entity id %q", e.ID)
	}

	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UnixMilli()
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	// An entity never relates to itself; drop stray self references on entry.
	related := make([]string, 0, len(e.RelatedIDs))
	for _, id := range e.RelatedIDs {
		if id != e.ID {
			related = append(related, id)
		}
	}
	e.RelatedIDs = related

	stored := e.clone()
	r.entities = append([]*Entity{stored}, r.entities...)
	r.byID[stored.ID] = stored
	r.persistLocked()
	r.mu.Unlock()

	r.notify()
	return nil
}

// Update merges the patch into the entity. Returns false without touching
// anything when the id is unknown — a silent miss, observable to callers who
// care.
func (r *Repository) Update(id string, p Patch) bool {
	r.mu.Lock()
	e, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return false
	}

	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Content != nil {
		e.Content = *p.Content
	}
	if p.MediaURL != nil {
		e.MediaURL = *p.MediaURL
	}
	if p.Tags != nil {
		e.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Metadata != nil {
		meta := make(map[string]string, len(*p.Metadata))
		for k, v := range *p.Metadata {
			meta[k] = v
		}
		e.Metadata = meta
	}

	r.persistLocked()
	r.mu.Unlock()

	r.notify()
	return true
}

// Delete removes the entity and cascade-removes its id from every other
// entity's RelatedIDs, so no dangling reference survives. Returns false when
// the id is unknown.
func (r *Repository) Delete(id string) bool {
	r.mu.Lock()
	if _, ok := r.byID[id]; !ok {
		r.mu.Unlock()
		return false
	}

	kept := make([]*Entity, 0, len(r.entities)-1)
	for _, e := range r.entities {
		if e.ID == id {
			continue
		}
		e.RelatedIDs = removeID(e.RelatedIDs, id)
		kept = append(kept, e)
	}
	r.entities = kept
	delete(r.byID, id)
	r.persistLocked()
	r.mu.Unlock()

	r.notify()
	return true
}

// Get returns a copy of the entity, or false when the id is unknown.
func (r *Repository) Get(id string) (Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return Entity{}, false
	}
	return *e.clone(), true
}

// All returns copies of every entity in collection order (most recent first).
func (r *Repository) All() []Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entity, 0, len(r.entities))
	for _, e := range r.entities {
		out = append(out, *e.clone())
	}
	return out
}

// Len returns the number of entities in the collection.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entities)
}

// Search returns entities whose title, any tag, or content contains the query
// (case-insensitive substring), preserving collection order. A blank query is
// no filter: the full collection is returned.
func (r *Repository) Search(query string) []Entity {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return r.All()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Entity
	for _, e := range r.entities {
		if entityMatches(e, query) {
			out = append(out, *e.clone())
		}
	}
	return out
}

func entityMatches(e *Entity, query string) bool {
	if strings.Contains(strings.ToLower(e.Title), query) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	if e.Content != "" && strings.Contains(strings.ToLower(e.Content), query) {
		return true
	}
	return false
}

// Link records the undirected relation between two entities, adding each id
// to the other's RelatedIDs where missing. Idempotent: linking an already
// linked (or half-linked) pair converges on symmetric presence without
// duplicates. Returns false when either id is unknown or the ids are equal.
func (r *Repository) Link(idA, idB string) bool {
	if idA == idB {
		return false
	}

	r.mu.Lock()
	a, okA := r.byID[idA]
	b, okB := r.byID[idB]
	if !okA || !okB {
		r.mu.Unlock()
		return false
	}

	changed := false
	if !containsID(a.RelatedIDs, idB) {
		a.RelatedIDs = append(a.RelatedIDs, idB)
		changed = true
	}
	if !containsID(b.RelatedIDs, idA) {
		b.RelatedIDs = append(b.RelatedIDs, idA)
		changed = true
	}
	if changed {
		r.persistLocked()
	}
	r.mu.Unlock()

	if changed {
		r.notify()
	}
	return true
}

// Unlink removes the relation in both directions. Unlinking a pair that is
// not linked is a no-op. Returns false when either id is unknown.
func (r *Repository) Unlink(idA, idB string) bool {
	r.mu.Lock()
	a, okA := r.byID[idA]
	b, okB := r.byID[idB]
	if !okA || !okB {
		r.mu.Unlock()
		return false
	}

	lenA, lenB := len(a.RelatedIDs), len(b.RelatedIDs)
	a.RelatedIDs = removeID(a.RelatedIDs, idB)
	b.RelatedIDs = removeID(b.RelatedIDs, idA)
	changed := len(a.RelatedIDs) != lenA || len(b.RelatedIDs) != lenB
	if changed {
		r.persistLocked()
	}
	r.mu.Unlock()

	if changed {
		r.notify()
	}
	return true
}

// Flush writes the current collection to the snapshot store. Called on
// shutdown; mutations already persist eagerly, so this is a final safety net.
func (r *Repository) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(r.entities)
	if err != nil {
		return fmt.Errorf("catalog: marshal collection: %w", err)
	}
	if err := r.snap.Save(SnapshotKey, data); err != nil {
		return fmt.Errorf("catalog: write snapshot: %w", err)
	}
	return nil
}

// Close flushes the collection. The snapshot store itself is owned and
// closed by the caller.
func (r *Repository) Close() error {
	return r.Flush()
}

// persistLocked serializes the full collection under the snapshot key.
// A write failure is fatal to that write only: it is logged and the
// in-memory state remains authoritative for the session.
func (r *Repository) persistLocked() {
	data, err := json.Marshal(r.entities)
	if err != nil {
		r.log.Error("snapshot marshal failed", "err", err)
		return
	}
	if err := r.snap.Save(SnapshotKey, data); err != nil {
		r.log.Error("snapshot write failed", "key", SnapshotKey, "err", err)
	}
}

func (r *Repository) notify() {
	r.mu.RLock()
	fn := r.onChange
	r.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

package catalog

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
)

// memSnap is an in-memory Snapshotter for tests.
type memSnap struct {
	data    map[string][]byte
	saves   int
	loadErr error
	saveErr error
}

func newMemSnap() *memSnap {
	return &memSnap{data: make(map[string][]byte)}
}

func (m *memSnap) Load(key string) ([]byte, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data[key], nil
}

func (m *memSnap) Save(key string, data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func testLogger() *log.Logger {
	l := log.Default()
	l.SetLevel(log.FatalLevel)
	return l
}

func openEmpty(t *testing.T) (*Repository, *memSnap) {
	t.Helper()
	snap := newMemSnap()
	// Pre-seed an empty collection so tests start from a clean slate
	// instead of the seed dataset.
	snap.data[SnapshotKey] = []byte(`[]`)
	return Open(snap, testLogger()), snap
}

func mustCreate(t *testing.T, r *Repository, e Entity) {
	t.Helper()
	if err := r.Create(e); err != nil {
		t.Fatalf("create %q failed: %v", e.ID, err)
	}
}

func TestOpenFallsBackToSeed(t *testing.T) {
	cases := []struct {
		name string
		snap *memSnap
	}{
		{"absent snapshot", newMemSnap()},
		{"load error", &memSnap{data: map[string][]byte{}, loadErr: errors.New("disk gone")}},
		{"corrupt snapshot", &memSnap{data: map[string][]byte{SnapshotKey: []byte(`{not json`)}}},
		{"null entity", &memSnap{data: map[string][]byte{SnapshotKey: []byte(`[null]`)}}},
		{"blank id", &memSnap{data: map[string][]byte{SnapshotKey: []byte(`[{"type":"prompt","title":"A"}]`)}}},
		{"duplicate ids", &memSnap{data: map[string][]byte{
			SnapshotKey: []byte(`[{"id":"a","type":"prompt","title":"A"},{"id":"a","type":"image","title":"B"}]`),
		}}},
	}

	want := len(SeedEntities())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Open(tc.snap, testLogger())
			if r.Len() != want {
				t.Errorf("expected %d seed entities, got %d", want, r.Len())
			}
		})
	}
}

func TestOpenLoadsStoredCollection(t *testing.T) {
	snap := newMemSnap()
	stored := []*Entity{
		{ID: "a", Type: TypeImage, Title: "A", Tags: []string{}, CreatedAt: 1, RelatedIDs: []string{}},
	}
	data, _ := json.Marshal(stored)
	snap.data[SnapshotKey] = data

	r := Open(snap, testLogger())
	if r.Len() != 1 {
		t.Fatalf("expected 1 entity, got %d", r.Len())
	}
	got, ok := r.Get("a")
	if !ok || got.Title != "A" {
		t.Errorf("stored entity not loaded: ok=%v got=%+v", ok, got)
	}
}

func TestCreateFrontInserts(t *testing.T) {
	r, _ := openEmpty(t)

	mustCreate(t, r, Entity{ID: "first", Type: TypePrompt, Title: "First"})
	mustCreate(t, r, Entity{ID: "second", Type: TypeImage, Title: "Second"})

	all := r.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(all))
	}
	if all[0].ID != "second" || all[1].ID != "first" {
		t.Errorf("expected most-recent-first order, got %s, %s", all[0].ID, all[1].ID)
	}
	if all[0].CreatedAt == 0 {
		t.Errorf("expected CreatedAt to be assigned")
	}
}

func TestCreateRejectsDuplicateAndEmptyID(t *testing.T) {
	r, _ := openEmpty(t)

	mustCreate(t, r, Entity{ID: "dup", Type: TypePrompt, Title: "One"})
	if err := r.Create(Entity{ID: "dup", Type: TypePrompt, Title: "Two"}); err == nil {
		t.Errorf("expected error for duplicate id")
	}
	if err := r.Create(Entity{Type: TypePrompt, Title: "No ID"}); err == nil {
		t.Errorf("expected error for empty id")
	}
	if r.Len() != 1 {
		t.Errorf("failed creates must not mutate collection, len=%d", r.Len())
	}
}

func TestCreateDropsSelfReference(t *testing.T) {
	r, _ := openEmpty(t)

	mustCreate(t, r, Entity{ID: "x", Type: TypeProject, Title: "X", RelatedIDs: []string{"x", "y"}})
	got, _ := r.Get("x")
	if len(got.RelatedIDs) != 1 || got.RelatedIDs[0] != "y" {
		t.Errorf("expected self reference dropped, got %v", got.RelatedIDs)
	}
}

func TestUpdatePartialPatch(t *testing.T) {
	r, _ := openEmpty(t)
	mustCreate(t, r, Entity{
		ID: "e", Type: TypePrompt, Title: "Old", Content: "keep me",
		Tags:     []string{"old"},
		Metadata: map[string]string{"model": "sdxl"},
	})

	title := "New"
	tags := []string{"fresh", "new"}
	if !r.Update("e", Patch{Title: &title, Tags: &tags}) {
		t.Fatalf("update of existing id returned false")
	}

	got, _ := r.Get("e")
	if got.Title != "New" {
		t.Errorf("title not updated: %q", got.Title)
	}
	if got.Content != "keep me" {
		t.Errorf("unpatched field changed: %q", got.Content)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "fresh" {
		t.Errorf("tags not replaced wholesale: %v", got.Tags)
	}
	if got.Metadata["model"] != "sdxl" {
		t.Errorf("metadata changed without patch: %v", got.Metadata)
	}
}

func TestUpdateUnknownIDIsSilentMiss(t *testing.T) {
	r, snap := openEmpty(t)
	mustCreate(t, r, Entity{ID: "e", Type: TypePrompt, Title: "T"})
	savesBefore := snap.saves

	title := "Nope"
	if r.Update("ghost", Patch{Title: &title}) {
		t.Errorf("update of unknown id must return false")
	}
	if snap.saves != savesBefore {
		t.Errorf("miss must not persist, saves went %d -> %d", savesBefore, snap.saves)
	}
}

func TestDeleteCascadesRelations(t *testing.T) {
	r, _ := openEmpty(t)
	mustCreate(t, r, Entity{ID: "a", Type: TypeProject, Title: "A"})
	mustCreate(t, r, Entity{ID: "b", Type: TypeCharacter, Title: "B"})
	mustCreate(t, r, Entity{ID: "c", Type: TypePrompt, Title: "C"})
	r.Link("a", "b")
	r.Link("a", "c")

	if !r.Delete("a") {
		t.Fatalf("delete of existing id returned false")
	}
	if _, ok := r.Get("a"); ok {
		t.Errorf("deleted entity still retrievable")
	}
	for _, id := range []string{"b", "c"} {
		got, _ := r.Get(id)
		if containsID(got.RelatedIDs, "a") {
			t.Errorf("entity %s still references deleted id: %v", id, got.RelatedIDs)
		}
	}
	if r.Delete("a") {
		t.Errorf("second delete must return false")
	}
}

func TestSearch(t *testing.T) {
	r, _ := openEmpty(t)
	mustCreate(t, r, Entity{ID: "1", Type: TypePrompt, Title: "Neon Alley", Tags: []string{"night"}})
	mustCreate(t, r, Entity{ID: "2", Type: TypeCharacter, Title: "Kira", Content: "walks the neon streets"})
	mustCreate(t, r, Entity{ID: "3", Type: TypeTool, Title: "Upscaler", Tags: []string{"postprocess"}})

	tests := []struct {
		query string
		want  []string
	}{
		{"NEON", []string{"2", "1"}},       // title and content, case-insensitive
		{"night", []string{"1"}},           // tag match
		{"postpro", []string{"3"}},         // substring of tag
		{"", []string{"3", "2", "1"}},      // blank query returns everything
		{"   ", []string{"3", "2", "1"}},   // whitespace-only too
		{"zzz", nil},                       // no match
	}

	for _, tc := range tests {
		got := r.Search(tc.query)
		if len(got) != len(tc.want) {
			t.Errorf("Search(%q): expected %d results, got %d", tc.query, len(tc.want), len(got))
			continue
		}
		for i, e := range got {
			if e.ID != tc.want[i] {
				t.Errorf("Search(%q)[%d]: expected %s, got %s", tc.query, i, tc.want[i], e.ID)
			}
		}
	}
}

func TestLinkSymmetricIdempotent(t *testing.T) {
	r, _ := openEmpty(t)
	mustCreate(t, r, Entity{ID: "a", Type: TypeProject, Title: "A"})
	mustCreate(t, r, Entity{ID: "b", Type: TypePrompt, Title: "B"})

	if !r.Link("a", "b") {
		t.Fatalf("link returned false for existing pair")
	}
	// Repeat in both orders; must stay symmetric with no duplicates.
	r.Link("a", "b")
	r.Link("b", "a")

	a, _ := r.Get("a")
	b, _ := r.Get("b")
	if len(a.RelatedIDs) != 1 || a.RelatedIDs[0] != "b" {
		t.Errorf("a.RelatedIDs = %v, want [b]", a.RelatedIDs)
	}
	if len(b.RelatedIDs) != 1 || b.RelatedIDs[0] != "a" {
		t.Errorf("b.RelatedIDs = %v, want [a]", b.RelatedIDs)
	}

	if r.Link("a", "a") {
		t.Errorf("self-link must return false")
	}
	if r.Link("a", "ghost") {
		t.Errorf("link to unknown id must return false")
	}
}

func TestUnlinkSymmetric(t *testing.T) {
	r, _ := openEmpty(t)
	mustCreate(t, r, Entity{ID: "a", Type: TypeProject, Title: "A"})
	mustCreate(t, r, Entity{ID: "b", Type: TypePrompt, Title: "B"})
	r.Link("a", "b")

	if !r.Unlink("b", "a") {
		t.Fatalf("unlink returned false for existing pair")
	}
	a, _ := r.Get("a")
	b, _ := r.Get("b")
	if len(a.RelatedIDs) != 0 || len(b.RelatedIDs) != 0 {
		t.Errorf("relation survived unlink: a=%v b=%v", a.RelatedIDs, b.RelatedIDs)
	}

	// Unlinking an unlinked pair is a no-op, still true.
	if !r.Unlink("a", "b") {
		t.Errorf("unlink of unlinked pair must return true")
	}
}

func TestEveryMutationPersists(t *testing.T) {
	r, snap := openEmpty(t)

	mustCreate(t, r, Entity{ID: "a", Type: TypeProject, Title: "A"})
	mustCreate(t, r, Entity{ID: "b", Type: TypePrompt, Title: "B"})
	title := "A2"
	r.Update("a", Patch{Title: &title})
	r.Link("a", "b")
	r.Unlink("a", "b")
	r.Delete("b")

	if snap.saves != 6 {
		t.Errorf("expected 6 snapshot writes, got %d", snap.saves)
	}

	// The stored document must round-trip to the live collection.
	var stored []*Entity
	if err := json.Unmarshal(snap.data[SnapshotKey], &stored); err != nil {
		t.Fatalf("stored snapshot unparsable: %v", err)
	}
	if len(stored) != r.Len() {
		t.Errorf("snapshot has %d entities, repository has %d", len(stored), r.Len())
	}
}

func TestWriteFailureKeepsMemoryAuthoritative(t *testing.T) {
	r, snap := openEmpty(t)
	snap.saveErr = errors.New("disk full")

	mustCreate(t, r, Entity{ID: "a", Type: TypePrompt, Title: "A"})
	if _, ok := r.Get("a"); !ok {
		t.Errorf("in-memory state must survive a failed snapshot write")
	}
}

func TestOnChangeFires(t *testing.T) {
	r, _ := openEmpty(t)
	fired := 0
	r.OnChange(func() { fired++ })

	mustCreate(t, r, Entity{ID: "a", Type: TypePrompt, Title: "A"})
	mustCreate(t, r, Entity{ID: "b", Type: TypePrompt, Title: "B"})
	r.Link("a", "b")
	r.Link("a", "b") // no change, no callback

	if fired != 3 {
		t.Errorf("expected 3 change notifications, got %d", fired)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	r, _ := openEmpty(t)
	mustCreate(t, r, Entity{ID: "a", Type: TypePrompt, Title: "A", Tags: []string{"t"}})

	got, _ := r.Get("a")
	got.Tags[0] = "mutated"
	got.Title = "mutated"

	again, _ := r.Get("a")
	if again.Tags[0] != "t" || again.Title != "A" {
		t.Errorf("repository state aliased by returned copy: %+v", again)
	}
}

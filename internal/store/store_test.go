package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/techtrack/internal/domain"
	"github.com/MrSnakeDoc/techtrack/internal/logger"
	"github.com/MrSnakeDoc/techtrack/internal/storage"
	"github.com/MrSnakeDoc/techtrack/internal/validation"
	"github.com/goccy/go-json"
)

var testNow = time.Date(2026, 5, 10, 14, 30, 0, 0, time.UTC)

// newTestStore returns an opened store over a fresh memory backend, seeded
// with techs and running on a fixed clock.
func newTestStore(t *testing.T, techs ...domain.Technology) (*Store, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	s := New(storage.NewAdapter(mem, logger.NewNop()),
		WithClock(func() time.Time { return testNow }),
		WithSeed(func(time.Time) []domain.Technology { return techs }),
	)
	s.Open(context.Background())
	return s, mem
}

func tech(id int64, title string, status domain.Status) domain.Technology {
	return domain.Technology{
		ID:          id,
		Title:       title,
		Description: title + " description text",
		Category:    domain.CategoryBackend,
		Difficulty:  domain.DifficultyBeginner,
		Status:      status,
		CreatedAt:   testNow.Add(-time.Hour),
	}
}

func TestOpenSeedsWhenNothingStored(t *testing.T) {
	mem := storage.NewMemory()
	s := New(storage.NewAdapter(mem, nil), WithClock(func() time.Time { return testNow }))

	if seeded := s.Open(context.Background()); !seeded {
		t.Fatal("Open() should seed an empty backend")
	}
	if s.Len() != 3 {
		t.Errorf("starter set has %d records, want 3", s.Len())
	}
	if _, err := mem.Get(context.Background(), DefaultKey); !errors.Is(err, storage.ErrNotFound) {
		t.Error("seeding should not write to storage")
	}
}

func TestOpenLoadsStoredCollection(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	adapter := storage.NewAdapter(mem, nil)
	if err := adapter.Save(ctx, DefaultKey, []domain.Technology{tech(42, "Go", domain.StatusCompleted)}); err != nil {
		t.Fatal(err)
	}

	s := New(adapter)
	if seeded := s.Open(ctx); seeded {
		t.Error("Open() should not seed when a collection is stored")
	}
	got, ok := s.Get(42)
	if !ok || got.Title != "Go" {
		t.Errorf("Get(42) = (%+v, %v)", got, ok)
	}
}

func TestOpenFallsBackOnCorruptPayload(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	if err := mem.Set(ctx, DefaultKey, []byte("{corrupt")); err != nil {
		t.Fatal(err)
	}

	s := New(storage.NewAdapter(mem, nil))
	if seeded := s.Open(ctx); !seeded {
		t.Error("a corrupt payload should fall back to the starter set")
	}
}

// Adding to an empty collection fills the defaults.
func TestAddFillsDefaults(t *testing.T) {
	s, mem := newTestStore(t)

	got, err := s.Add(context.Background(), Input{Title: "Go", Description: "A systems language from Google"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if got.Status != domain.StatusNotStarted {
		t.Errorf("status = %q, want not-started", got.Status)
	}
	if got.Notes != "" {
		t.Errorf("notes = %q, want empty", got.Notes)
	}
	if got.ID != testNow.UnixMilli() {
		t.Errorf("id = %d, want %d", got.ID, testNow.UnixMilli())
	}
	if !got.CreatedAt.Equal(testNow) {
		t.Errorf("createdAt = %v, want %v", got.CreatedAt, testNow)
	}
	if got.Difficulty != domain.DefaultDifficulty || got.Category != domain.DefaultCategory {
		t.Errorf("defaults = (%s, %s)", got.Difficulty, got.Category)
	}
	if p := s.ProgressPercent(); p != 0 {
		t.Errorf("ProgressPercent() = %d, want 0", p)
	}

	stored, ok := storage.NewAdapter(mem, nil).Load(context.Background(), DefaultKey)
	if !ok || len(stored) != 1 {
		t.Errorf("Add() should persist the collection, stored = %v", stored)
	}
}

func TestAddGeneratesIncreasingIDs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	seen := map[int64]bool{}
	var last int64
	for i := 0; i < 5; i++ {
		got, err := s.Add(ctx, Input{Title: "Go", Description: "A systems language from Google"})
		if err != nil {
			t.Fatal(err)
		}
		if seen[got.ID] || got.ID <= last {
			t.Fatalf("id %d is not unique and increasing (previous %d)", got.ID, last)
		}
		seen[got.ID] = true
		last = got.ID
	}
}

func TestAddTrimsAndDropsEmptyResources(t *testing.T) {
	s, _ := newTestStore(t)

	got, err := s.Add(context.Background(), Input{
		Title:       "  Kubernetes  ",
		Description: "Container orchestration at scale",
		Resources:   []string{"https://kubernetes.io", "", "  "},
		Deadline:    "2026-06-01T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if got.Title != "Kubernetes" {
		t.Errorf("title = %q, want trimmed", got.Title)
	}
	if len(got.Resources) != 1 || got.Resources[0] != "https://kubernetes.io" {
		t.Errorf("resources = %v", got.Resources)
	}
	if got.Deadline != "2026-06-01" {
		t.Errorf("deadline = %q, want normalized date", got.Deadline)
	}
}

// A too short description is rejected and nothing changes.
func TestAddRejectsShortDescription(t *testing.T) {
	s, mem := newTestStore(t)

	_, err := s.Add(context.Background(), Input{Title: "X", Description: "short"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Add() error = %v, want ErrValidation", err)
	}
	ve, ok := validation.AsErrors(err)
	if !ok {
		t.Fatalf("error %v does not carry field errors", err)
	}
	if fe := ve.Field("description"); fe == nil || fe.Message != "description too short: at least 10 characters" {
		t.Errorf("description error = %v", fe)
	}
	if s.Len() != 0 {
		t.Errorf("collection changed: %d records", s.Len())
	}
	if _, err := mem.Get(context.Background(), DefaultKey); !errors.Is(err, storage.ErrNotFound) {
		t.Error("a rejected add should not write")
	}
}

func TestAddPersistFailureKeepsChange(t *testing.T) {
	s, mem := newTestStore(t)
	mem.FailWrites(errors.New("quota exceeded"))

	got, err := s.Add(context.Background(), Input{Title: "Go", Description: "A systems language from Google"})
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("Add() error = %v, want ErrPersist", err)
	}
	if got.ID == 0 {
		t.Error("the added record should still be returned")
	}
	if s.Len() != 1 {
		t.Errorf("in-memory collection has %d records, want 1", s.Len())
	}
}

func TestUpdate(t *testing.T) {
	s, _ := newTestStore(t, tech(1, "Go", domain.StatusNotStarted))
	ctx := context.Background()

	title := "Go generics"
	status := domain.StatusInProgress
	deadline := "2026-07-01"
	got, found, err := s.Update(ctx, 1, Patch{Title: &title, Status: &status, Deadline: &deadline})
	if err != nil || !found {
		t.Fatalf("Update() = (%v, %v)", found, err)
	}
	if got.Title != title || got.Status != status || got.Deadline != deadline {
		t.Errorf("Update() = %+v", got)
	}
	if got.ID != 1 || !got.CreatedAt.Equal(testNow.Add(-time.Hour)) {
		t.Error("id and createdAt must not change")
	}

	bad := "X"
	if _, _, err := s.Update(ctx, 1, Patch{Title: &bad}); !errors.Is(err, ErrValidation) {
		t.Errorf("Update() with short title error = %v, want ErrValidation", err)
	}
	if cur, _ := s.Get(1); cur.Title != title {
		t.Error("a rejected update must not change the record")
	}

	if _, found, err := s.Update(ctx, 99, Patch{Title: &title}); found || err != nil {
		t.Errorf("Update() of missing id = (%v, %v), want (false, nil)", found, err)
	}
}

func TestUpdateKeepsUnpatchedPastDeadline(t *testing.T) {
	old := tech(1, "Go", domain.StatusInProgress)
	old.Deadline = "2026-01-01"
	s, _ := newTestStore(t, old)

	notes := "still going"
	if _, _, err := s.Update(context.Background(), 1, Patch{Notes: &notes}); err != nil {
		t.Errorf("an existing past deadline should not block other edits: %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	s, _ := newTestStore(t, tech(1, "Go", domain.StatusNotStarted))
	ctx := context.Background()

	found, err := s.UpdateStatus(ctx, 1, domain.StatusCompleted)
	if err != nil || !found {
		t.Fatalf("UpdateStatus() = (%v, %v)", found, err)
	}
	if got, _ := s.Get(1); got.Status != domain.StatusCompleted {
		t.Errorf("status = %s", got.Status)
	}

	if found, err := s.UpdateStatus(ctx, 2, domain.StatusCompleted); found || err != nil {
		t.Errorf("UpdateStatus() of missing id = (%v, %v)", found, err)
	}
	if _, err := s.UpdateStatus(ctx, 1, "done"); !errors.Is(err, ErrValidation) {
		t.Errorf("UpdateStatus() with unknown status error = %v", err)
	}
	if _, err := s.UpdateStatus(ctx, 1, ""); !errors.Is(err, ErrValidation) {
		t.Errorf("UpdateStatus() with empty status error = %v", err)
	}
}

func TestCycleStatus(t *testing.T) {
	s, _ := newTestStore(t, tech(1, "Go", domain.StatusNotStarted))
	ctx := context.Background()

	want := []domain.Status{domain.StatusInProgress, domain.StatusCompleted, domain.StatusNotStarted}
	for _, w := range want {
		got, found, err := s.CycleStatus(ctx, 1)
		if err != nil || !found {
			t.Fatalf("CycleStatus() = (%v, %v)", found, err)
		}
		if got.Status != w {
			t.Errorf("status = %s, want %s", got.Status, w)
		}
	}
}

func TestNotesAndDeadline(t *testing.T) {
	s, _ := newTestStore(t, tech(1, "Go", domain.StatusNotStarted))
	ctx := context.Background()

	if found, err := s.UpdateNotes(ctx, 1, "read the memory model notes"); !found || err != nil {
		t.Fatalf("UpdateNotes() = (%v, %v)", found, err)
	}
	if found, err := s.UpdateDeadline(ctx, 1, "2026-05-10"); !found || err != nil {
		t.Fatalf("UpdateDeadline() same day = (%v, %v)", found, err)
	}
	got, _ := s.Get(1)
	if got.Notes != "read the memory model notes" || got.Deadline != "2026-05-10" {
		t.Errorf("record = %+v", got)
	}

	if _, err := s.UpdateDeadline(ctx, 1, "2026-05-09"); !errors.Is(err, ErrValidation) {
		t.Errorf("past deadline error = %v, want ErrValidation", err)
	}
	if found, err := s.UpdateDeadline(ctx, 1, ""); !found || err != nil {
		t.Fatalf("clearing deadline = (%v, %v)", found, err)
	}
	if got, _ := s.Get(1); got.HasDeadline() {
		t.Error("deadline should be cleared")
	}
	if found, err := s.UpdateNotes(ctx, 9, "x"); found || err != nil {
		t.Errorf("UpdateNotes() of missing id = (%v, %v)", found, err)
	}
}

func TestUpdateDeadlinesIsAllOrNothing(t *testing.T) {
	s, _ := newTestStore(t,
		tech(1, "Go", domain.StatusNotStarted),
		tech(2, "Rust", domain.StatusNotStarted),
	)
	ctx := context.Background()

	_, err := s.UpdateDeadlines(ctx, map[int64]string{1: "2026-06-01", 2: "2020-01-01"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("UpdateDeadlines() error = %v, want ErrValidation", err)
	}
	if got, _ := s.Get(1); got.HasDeadline() {
		t.Error("no deadline should be applied when one is invalid")
	}

	n, err := s.UpdateDeadlines(ctx, map[int64]string{1: "2026-06-01", 2: "2026-06-02", 3: "2026-06-03"})
	if err != nil {
		t.Fatalf("UpdateDeadlines() error = %v", err)
	}
	if n != 2 {
		t.Errorf("UpdateDeadlines() = %d, want 2", n)
	}
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t, tech(1, "Go", domain.StatusNotStarted), tech(2, "Rust", domain.StatusNotStarted))
	ctx := context.Background()

	if found, err := s.Delete(ctx, 1); !found || err != nil {
		t.Fatalf("Delete() = (%v, %v)", found, err)
	}
	if found, err := s.Delete(ctx, 1); found || err != nil {
		t.Errorf("second Delete() = (%v, %v), want no-op", found, err)
	}
	all := s.All()
	if len(all) != 1 || all[0].ID != 2 {
		t.Errorf("All() = %v", all)
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	rec := tech(1, "Go", domain.StatusNotStarted)
	rec.Resources = []string{"https://go.dev"}
	s, _ := newTestStore(t, rec)

	got, _ := s.Get(1)
	got.Title = "changed"
	got.Resources[0] = "https://evil.example"

	again, _ := s.Get(1)
	if again.Title != "Go" || again.Resources[0] != "https://go.dev" {
		t.Errorf("store state leaked through a returned copy: %+v", again)
	}
}

func TestImportMerge(t *testing.T) {
	s, _ := newTestStore(t, tech(5, "Go", domain.StatusNotStarted))
	records := []ImportRecord{
		{Title: "Rust"},
		{Description: "no title"},
		{ID: json.Number("5"), Title: "Duplicate id", Status: "completed", CreatedAt: "2025-01-02T03:04:05Z"},
	}

	n, err := s.ImportMerge(context.Background(), records)
	if err != nil {
		t.Fatalf("ImportMerge() error = %v", err)
	}
	if n != 2 {
		t.Fatalf("ImportMerge() = %d, want 2", n)
	}

	all := s.All()
	rust := all[1]
	if rust.Status != domain.StatusNotStarted || rust.Notes != "" || rust.ID <= 5 || rust.CreatedAt.IsZero() {
		t.Errorf("imported record defaults = %+v", rust)
	}
	dup := all[2]
	if dup.ID != 5 {
		t.Errorf("supplied id should be kept verbatim, got %d", dup.ID)
	}
	if dup.Status != domain.StatusCompleted || dup.CreatedAt.Year() != 2025 {
		t.Errorf("supplied fields should be kept: %+v", dup)
	}
}

func TestBulkPersistFailure(t *testing.T) {
	s, mem := newTestStore(t, tech(1, "Go", domain.StatusNotStarted))
	mem.FailWrites(errors.New("read-only"))

	if err := s.MarkAllCompleted(context.Background()); !errors.Is(err, ErrPersist) {
		t.Fatalf("MarkAllCompleted() error = %v, want ErrPersist", err)
	}
	if got, _ := s.Get(1); !got.IsCompleted() {
		t.Error("in-memory change should stay applied")
	}
}

// cancelAwareBackend fails writes made with a cancelled context.
type cancelAwareBackend struct{ *storage.Memory }

func (b cancelAwareBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.Memory.Set(ctx, key, value)
}

func TestMutationPersistsAfterCallerCancels(t *testing.T) {
	mem := storage.NewMemory()
	s := New(storage.NewAdapter(cancelAwareBackend{mem}, nil),
		WithClock(func() time.Time { return testNow }),
		WithSeed(func(time.Time) []domain.Technology { return nil }),
	)
	s.Open(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := s.Add(ctx, Input{Title: "Go", Description: "A systems language from Google"})
	if err != nil {
		t.Fatalf("Add() with a cancelled context error = %v", err)
	}

	reopened := New(storage.NewAdapter(mem, nil))
	reopened.Open(context.Background())
	if _, ok := reopened.Get(got.ID); !ok {
		t.Error("the added record should be in storage")
	}
}

func TestImportWithoutTitlesLeavesStoreUntouched(t *testing.T) {
	records := []ImportRecord{{Description: "no title"}, {Title: "   "}}

	tests := []struct {
		name string
		run  func(*Store) (int, error)
	}{
		{"merge", func(s *Store) (int, error) { return s.ImportMerge(context.Background(), records) }},
		{"replace", func(s *Store) (int, error) { return s.ImportReplace(context.Background(), records) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mem := newTestStore(t, tech(1, "Go", domain.StatusNotStarted))

			n, err := tt.run(s)
			if !errors.Is(err, ErrMalformedImport) {
				t.Fatalf("error = %v, want ErrMalformedImport", err)
			}
			if n != 0 || s.Len() != 1 {
				t.Errorf("imported %d, collection has %d; want 0 and 1", n, s.Len())
			}
			if _, err := mem.Get(context.Background(), DefaultKey); !errors.Is(err, storage.ErrNotFound) {
				t.Error("nothing should be written")
			}
		})
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore(t, tech(1, "Go", domain.StatusNotStarted))

	if _, err := s.Add(ctx, Input{Title: "Rust", Description: "Memory safety without a collector"}); err != nil {
		t.Fatal(err)
	}
	s.Export(ctx)

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("collection has %d records after reset, want the 1 seeded", s.Len())
	}
	if _, ok := s.Get(1); !ok {
		t.Error("the starter record should be back")
	}
	if _, err := mem.Get(ctx, DefaultKey); !errors.Is(err, storage.ErrNotFound) {
		t.Error("the stored collection should be deleted")
	}
	if _, ok := s.LastExportAt(ctx); ok {
		t.Error("the last export time should be deleted")
	}
}

func TestResetFailureKeepsCollection(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore(t, tech(1, "Go", domain.StatusNotStarted))
	if _, err := s.Add(ctx, Input{Title: "Rust", Description: "Memory safety without a collector"}); err != nil {
		t.Fatal(err)
	}
	mem.FailWrites(errors.New("read-only"))

	if err := s.Reset(ctx); !errors.Is(err, ErrPersist) {
		t.Fatalf("Reset() error = %v, want ErrPersist", err)
	}
	if s.Len() != 2 {
		t.Errorf("collection has %d records, want the 2 it had", s.Len())
	}
}

func TestReplaceAll(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore(t, tech(1, "Go", domain.StatusNotStarted))

	restored := []domain.Technology{tech(7, "Zig", domain.StatusCompleted), tech(8, "Elixir", domain.StatusInProgress)}
	if err := s.ReplaceAll(ctx, restored); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}
	restored[0].Title = "changed"

	all := s.All()
	if len(all) != 2 || all[0].Title != "Zig" || all[1].ID != 8 {
		t.Errorf("All() = %+v", all)
	}
	if _, err := mem.Get(ctx, DefaultKey); err != nil {
		t.Errorf("ReplaceAll() should persist: %v", err)
	}
}

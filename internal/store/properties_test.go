package store

import (
	"context"
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"github.com/MrSnakeDoc/techtrack/internal/domain"
	"github.com/goccy/go-json"
)

// randomCollection builds n records with pseudo-random statuses.
func randomCollection(r *rand.Rand, n int) []domain.Technology {
	out := make([]domain.Technology, n)
	for i := range out {
		out[i] = tech(int64(i+1), fmt.Sprintf("Tech %d", i), domain.Statuses[r.Intn(len(domain.Statuses))])
		if r.Intn(2) == 0 {
			out[i].Deadline = testNow.AddDate(0, 0, r.Intn(20)-10).Format(domain.DateLayout)
		}
		if r.Intn(3) == 0 {
			out[i].Resources = []string{"https://example.com/" + fmt.Sprint(i)}
		}
	}
	return out
}

func TestMarkAllCompletedIsIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	s, _ := newTestStore(t, randomCollection(r, 12)...)
	ctx := context.Background()

	if err := s.MarkAllCompleted(ctx); err != nil {
		t.Fatal(err)
	}
	once := s.All()
	if err := s.MarkAllCompleted(ctx); err != nil {
		t.Fatal(err)
	}
	if twice := s.All(); !reflect.DeepEqual(once, twice) {
		t.Error("a second MarkAllCompleted() changed the collection")
	}
	if s.ProgressPercent() != 100 {
		t.Errorf("ProgressPercent() = %d, want 100", s.ProgressPercent())
	}

	if err := s.ResetAllStatuses(ctx); err != nil {
		t.Fatal(err)
	}
	if s.ProgressPercent() != 0 {
		t.Errorf("ProgressPercent() after reset = %d, want 0", s.ProgressPercent())
	}
}

func TestExportReplaceAllRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	s, _ := newTestStore(t, randomCollection(r, 8)...)
	ctx := context.Background()
	before := s.All()

	data, err := json.Marshal(s.Export(ctx))
	if err != nil {
		t.Fatal(err)
	}
	var doc ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}

	if err := s.ResetAllStatuses(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplaceAll(ctx, doc.Technologies); err != nil {
		t.Fatal(err)
	}

	after := s.All()
	if len(after) != len(before) {
		t.Fatalf("restored %d records, want %d", len(after), len(before))
	}
	for i := range before {
		b, a := before[i], after[i]
		if a.ID != b.ID || a.Title != b.Title || a.Status != b.Status || a.Deadline != b.Deadline ||
			!a.CreatedAt.Equal(b.CreatedAt) || !reflect.DeepEqual(a.Resources, b.Resources) {
			t.Errorf("record %d: restored %+v, want %+v", i, a, b)
		}
	}
}

func TestProgressIsBounded(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for n := 0; n < 30; n++ {
		s, _ := newTestStore(t, randomCollection(r, n)...)
		p := s.ProgressPercent()
		if p < 0 || p > 100 {
			t.Fatalf("ProgressPercent() = %d for %d records", p, n)
		}
		if n == 0 && p != 0 {
			t.Fatalf("ProgressPercent() of empty collection = %d", p)
		}
	}
}

func TestFilterAgreesWithGroups(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for n := 0; n < 20; n++ {
		s, _ := newTestStore(t, randomCollection(r, n)...)
		groups := s.GroupByStatus()
		for _, st := range domain.Statuses {
			if got, want := len(s.Filter(domain.Filter{Status: st})), len(groups.Get(st)); got != want {
				t.Fatalf("n=%d status=%s: Filter() = %d, GroupByStatus() = %d", n, st, got, want)
			}
		}
	}
}

func TestBulkUpdateCountsOnlyExistingIDs(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	s, _ := newTestStore(t, randomCollection(r, 10)...)
	ctx := context.Background()
	if err := s.ResetAllStatuses(ctx); err != nil {
		t.Fatal(err)
	}

	existing := []int64{2, 4, 6}
	missing := []int64{100, 200}
	n, err := s.BulkUpdateStatus(ctx, append(append([]int64{}, existing...), missing...), domain.StatusInProgress)
	if err != nil {
		t.Fatalf("BulkUpdateStatus() error = %v", err)
	}
	if n != len(existing) {
		t.Errorf("BulkUpdateStatus() = %d, want %d", n, len(existing))
	}

	changed := s.Filter(domain.Filter{Status: domain.StatusInProgress})
	if len(changed) != len(existing) {
		t.Fatalf("%d records changed, want %d", len(changed), len(existing))
	}
	for i, id := range existing {
		if changed[i].ID != id {
			t.Errorf("changed[%d] = %d, want %d", i, changed[i].ID, id)
		}
	}

	if n, err := s.BulkUpdateStatus(ctx, []int64{2, 2, 2}, domain.StatusCompleted); err != nil || n != 1 {
		t.Errorf("repeated ids = (%d, %v), want (1, nil)", n, err)
	}
}

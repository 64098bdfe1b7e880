package store

import (
	"sort"

	"github.com/MrSnakeDoc/techtrack/internal/domain"
)

// StatusGroups partitions the collection into the three status buckets.
type StatusGroups struct {
	NotStarted []domain.Technology `json:"not-started"`
	InProgress []domain.Technology `json:"in-progress"`
	Completed  []domain.Technology `json:"completed"`
}

// Get returns the bucket for st, nil for an unknown status.
func (g StatusGroups) Get(st domain.Status) []domain.Technology {
	switch st {
	case domain.StatusNotStarted:
		return g.NotStarted
	case domain.StatusInProgress:
		return g.InProgress
	case domain.StatusCompleted:
		return g.Completed
	}
	return nil
}

// Breakdown counts records of one bucket.
type Breakdown struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Progress  int `json:"progress"`
}

// Stats summarizes the collection.
type Stats struct {
	Total        int                  `json:"total"`
	NotStarted   int                  `json:"notStarted"`
	InProgress   int                  `json:"inProgress"`
	Completed    int                  `json:"completed"`
	Progress     int                  `json:"progress"`
	Overdue      int                  `json:"overdue"`
	WithDeadline int                  `json:"withDeadline"`
	ByCategory   map[string]Breakdown `json:"byCategory"`
	ByDifficulty map[string]Breakdown `json:"byDifficulty"`
}

// All returns a copy of the collection in stored order.
func (s *Store) All() []domain.Technology {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneAll(s.techs)
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.techs)
}

// Get returns a copy of record id.
func (s *Store) Get(id int64) (domain.Technology, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.techs[i].Clone(), true
	}
	return domain.Technology{}, false
}

// Filter returns the records matching every predicate of f, in stored order.
func (s *Store) Filter(f domain.Filter) []domain.Technology {
	return s.collect(f.Matches)
}

// GroupByStatus partitions the collection by status. Buckets are never nil;
// records with an unknown status land in NotStarted.
func (s *Store) GroupByStatus() StatusGroups {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g := StatusGroups{
		NotStarted: []domain.Technology{},
		InProgress: []domain.Technology{},
		Completed:  []domain.Technology{},
	}
	for i := range s.techs {
		t := s.techs[i].Clone()
		switch t.Status {
		case domain.StatusInProgress:
			g.InProgress = append(g.InProgress, t)
		case domain.StatusCompleted:
			g.Completed = append(g.Completed, t)
		default:
			g.NotStarted = append(g.NotStarted, t)
		}
	}
	return g
}

// GroupByCategory partitions the collection by category.
func (s *Store) GroupByCategory() map[string][]domain.Technology {
	return s.GroupByField(func(t domain.Technology) string { return t.Category })
}

// GroupByDifficulty partitions the collection by difficulty.
func (s *Store) GroupByDifficulty() map[string][]domain.Technology {
	return s.GroupByField(func(t domain.Technology) string { return string(t.Difficulty) })
}

// GroupByField partitions the collection by the value selector returns.
// Records with an empty value go to the domain.NoValue bucket.
func (s *Store) GroupByField(selector func(domain.Technology) string) map[string][]domain.Technology {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make(map[string][]domain.Technology)
	for i := range s.techs {
		t := s.techs[i].Clone()
		key := selector(t)
		if key == "" {
			key = domain.NoValue
		}
		groups[key] = append(groups[key], t)
	}
	return groups
}

// SuggestNext picks one not-started record, using intn to draw an index in
// [0, n). ok is false when every record is started or completed.
func (s *Store) SuggestNext(intn func(n int) int) (domain.Technology, bool) {
	candidates := s.collect(func(t *domain.Technology) bool {
		return t.Status == domain.StatusNotStarted
	})
	if len(candidates) == 0 {
		return domain.Technology{}, false
	}
	return candidates[intn(len(candidates))], true
}

// ProgressPercent returns round(100*completed/total), 0 for an empty collection.
func (s *Store) ProgressPercent() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	completed := 0
	for i := range s.techs {
		if s.techs[i].IsCompleted() {
			completed++
		}
	}
	return percent(completed, len(s.techs))
}

// Overdue returns unfinished records whose deadline is before today,
// earliest deadline first.
func (s *Store) Overdue() []domain.Technology {
	now := s.now()
	return sortByDeadline(s.collect(func(t *domain.Technology) bool {
		return t.IsOverdue(now)
	}))
}

// Upcoming returns unfinished records due between today and today+days,
// both inclusive, earliest deadline first.
func (s *Store) Upcoming(days int) []domain.Technology {
	now := s.now()
	return sortByDeadline(s.collect(func(t *domain.Technology) bool {
		return t.IsDueWithin(now, days)
	}))
}

// Stats computes totals per status, overall progress and per category and
// difficulty breakdowns.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	st := Stats{
		Total:        len(s.techs),
		ByCategory:   make(map[string]Breakdown),
		ByDifficulty: make(map[string]Breakdown),
	}
	for i := range s.techs {
		t := &s.techs[i]
		switch t.Status {
		case domain.StatusInProgress:
			st.InProgress++
		case domain.StatusCompleted:
			st.Completed++
		default:
			st.NotStarted++
		}
		if t.HasDeadline() {
			st.WithDeadline++
		}
		if t.IsOverdue(now) {
			st.Overdue++
		}
		addBreakdown(st.ByCategory, t.Category, t.IsCompleted())
		addBreakdown(st.ByDifficulty, string(t.Difficulty), t.IsCompleted())
	}
	st.Progress = percent(st.Completed, st.Total)
	for _, m := range []map[string]Breakdown{st.ByCategory, st.ByDifficulty} {
		for k, b := range m {
			b.Progress = percent(b.Completed, b.Total)
			m[k] = b
		}
	}
	return st
}

func (s *Store) collect(match func(*domain.Technology) bool) []domain.Technology {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Technology{}
	for i := range s.techs {
		if match(&s.techs[i]) {
			out = append(out, s.techs[i].Clone())
		}
	}
	return out
}

func addBreakdown(m map[string]Breakdown, key string, completed bool) {
	if key == "" {
		key = domain.NoValue
	}
	b := m[key]
	b.Total++
	if completed {
		b.Completed++
	}
	m[key] = b
}

// percent rounds half up, like the progress bar does.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return (200*part + total) / (2 * total)
}

func sortByDeadline(techs []domain.Technology) []domain.Technology {
	sort.SliceStable(techs, func(i, j int) bool {
		di, _ := techs[i].DeadlineDay()
		dj, _ := techs[j].DeadlineDay()
		return di.Before(dj)
	})
	return techs
}

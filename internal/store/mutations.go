package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/techtrack/internal/domain"
	"github.com/MrSnakeDoc/techtrack/internal/logger"
	"github.com/MrSnakeDoc/techtrack/internal/metrics"
	"github.com/MrSnakeDoc/techtrack/internal/validation"
)

// Input is a candidate record for Add.
type Input struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Difficulty  domain.Difficulty `json:"difficulty"`
	Status      domain.Status     `json:"status"`
	Notes       string            `json:"notes"`
	Resources   []string          `json:"resources"`
	Deadline    string            `json:"deadline"`
}

// Patch lists the fields to replace in Update. Nil fields, and empty
// difficulty or status, are left as is.
type Patch struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Category    *string            `json:"category,omitempty"`
	Difficulty  *domain.Difficulty `json:"difficulty,omitempty"`
	Status      *domain.Status     `json:"status,omitempty"`
	Notes       *string            `json:"notes,omitempty"`
	Resources   *[]string          `json:"resources,omitempty"`
	Deadline    *string            `json:"deadline,omitempty"`
}

// Add validates in and appends a new record with a generated id, createdAt,
// and default status, notes, category and difficulty.
func (s *Store) Add(ctx context.Context, in Input) (domain.Technology, error) {
	var added domain.Technology
	err := s.mutate(ctx, "add", func(now time.Time) (bool, error) {
		form := validation.Form{
			Title:       in.Title,
			Description: in.Description,
			Category:    in.Category,
			Difficulty:  string(in.Difficulty),
			Status:      string(in.Status),
			Resources:   in.Resources,
			Deadline:    in.Deadline,
		}
		if err := validation.Validate(form, now); err != nil {
			return false, fmt.Errorf("%w: %w", ErrValidation, err)
		}

		deadline, _ := domain.NormalizeDate(in.Deadline)
		t := domain.Technology{
			ID:          s.nextID(now),
			CreatedAt:   createdAt(now),
			Title:       strings.TrimSpace(in.Title),
			Description: strings.TrimSpace(in.Description),
			Category:    orDefault(strings.TrimSpace(in.Category), domain.DefaultCategory),
			Difficulty:  domain.Difficulty(orDefault(string(in.Difficulty), string(domain.DefaultDifficulty))),
			Status:      domain.Status(orDefault(string(in.Status), string(domain.StatusNotStarted))),
			Notes:       in.Notes,
			Resources:   cleanResources(in.Resources),
			Deadline:    deadline,
		}
		s.techs = append(s.techs, t)
		added = t.Clone()
		return true, nil
	})
	return added, err
}

// Update replaces the patched fields of record id. id and createdAt never
// change. The resulting record is validated; the deadline only when patched.
// found is false when id does not exist.
func (s *Store) Update(ctx context.Context, id int64, p Patch) (updated domain.Technology, found bool, err error) {
	err = s.mutate(ctx, "update", func(now time.Time) (bool, error) {
		i := s.indexOf(id)
		if i < 0 {
			return false, nil
		}
		found = true

		t := s.techs[i].Clone()
		if p.Title != nil {
			t.Title = strings.TrimSpace(*p.Title)
		}
		if p.Description != nil {
			t.Description = strings.TrimSpace(*p.Description)
		}
		if p.Category != nil {
			t.Category = strings.TrimSpace(*p.Category)
		}
		if p.Difficulty != nil && *p.Difficulty != "" {
			t.Difficulty = *p.Difficulty
		}
		if p.Status != nil && *p.Status != "" {
			t.Status = *p.Status
		}
		if p.Notes != nil {
			t.Notes = *p.Notes
		}
		if p.Resources != nil {
			t.Resources = cleanResources(*p.Resources)
		}

		form := validation.Form{
			Title:       t.Title,
			Description: t.Description,
			Category:    t.Category,
			Difficulty:  string(t.Difficulty),
			Status:      string(t.Status),
			Resources:   t.Resources,
		}
		if p.Deadline != nil {
			form.Deadline = *p.Deadline
		}
		if err := validation.Validate(form, now); err != nil {
			return false, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		if p.Deadline != nil {
			t.Deadline, _ = domain.NormalizeDate(*p.Deadline)
		}

		s.techs[i] = t
		updated = t.Clone()
		return true, nil
	})
	return updated, found, err
}

// UpdateStatus sets the status of record id.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status domain.Status) (found bool, err error) {
	if fe := validation.Status(string(status)); fe != nil || status == "" {
		return false, invalid(statusRequired(fe))
	}
	err = s.mutate(ctx, "update_status", func(time.Time) (bool, error) {
		i := s.indexOf(id)
		if i < 0 {
			return false, nil
		}
		found = true
		s.techs[i].Status = status
		return true, nil
	})
	return found, err
}

// CycleStatus moves record id to the next status in the fixed cycle
// not-started, in-progress, completed.
func (s *Store) CycleStatus(ctx context.Context, id int64) (updated domain.Technology, found bool, err error) {
	err = s.mutate(ctx, "cycle_status", func(time.Time) (bool, error) {
		i := s.indexOf(id)
		if i < 0 {
			return false, nil
		}
		found = true
		s.techs[i].Status = s.techs[i].Status.Next()
		updated = s.techs[i].Clone()
		return true, nil
	})
	return updated, found, err
}

// BulkUpdateStatus sets status on every existing record whose id is in ids
// and returns how many records were updated. Unknown ids are ignored.
func (s *Store) BulkUpdateStatus(ctx context.Context, ids []int64, status domain.Status) (updated int, err error) {
	if fe := validation.Status(string(status)); fe != nil || status == "" {
		return 0, invalid(statusRequired(fe))
	}

	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	err = s.mutate(ctx, "bulk_update_status", func(time.Time) (bool, error) {
		for i := range s.techs {
			if _, ok := wanted[s.techs[i].ID]; ok {
				s.techs[i].Status = status
				updated++
			}
		}
		return updated > 0, nil
	})
	return updated, err
}

// UpdateNotes replaces the notes of record id.
func (s *Store) UpdateNotes(ctx context.Context, id int64, notes string) (found bool, err error) {
	err = s.mutate(ctx, "update_notes", func(time.Time) (bool, error) {
		i := s.indexOf(id)
		if i < 0 {
			return false, nil
		}
		found = true
		s.techs[i].Notes = notes
		return true, nil
	})
	return found, err
}

// UpdateDeadline sets the deadline of record id. An empty date clears it.
func (s *Store) UpdateDeadline(ctx context.Context, id int64, date string) (found bool, err error) {
	err = s.mutate(ctx, "update_deadline", func(now time.Time) (bool, error) {
		if fe := validation.Deadline(date, now); fe != nil {
			return false, invalid(fe)
		}
		i := s.indexOf(id)
		if i < 0 {
			return false, nil
		}
		found = true
		s.techs[i].Deadline, _ = domain.NormalizeDate(date)
		return true, nil
	})
	return found, err
}

// UpdateDeadlines assigns several deadlines at once. Every date is validated
// first; if any is rejected nothing changes. Returns the number of existing
// records updated.
func (s *Store) UpdateDeadlines(ctx context.Context, deadlines map[int64]string) (updated int, err error) {
	err = s.mutate(ctx, "update_deadlines", func(now time.Time) (bool, error) {
		ve := validation.NewErrors()
		normalized := make(map[int64]string, len(deadlines))
		for id, date := range deadlines {
			if fe := validation.Deadline(date, now); fe != nil {
				fe.Field = fmt.Sprintf("deadline[%d]", id)
				ve.Add(fe)
				continue
			}
			normalized[id], _ = domain.NormalizeDate(date)
		}
		if err := ve.Err(); err != nil {
			return false, fmt.Errorf("%w: %w", ErrValidation, err)
		}

		for i := range s.techs {
			if date, ok := normalized[s.techs[i].ID]; ok {
				s.techs[i].Deadline = date
				updated++
			}
		}
		return updated > 0, nil
	})
	return updated, err
}

// Delete removes record id.
func (s *Store) Delete(ctx context.Context, id int64) (found bool, err error) {
	err = s.mutate(ctx, "delete", func(time.Time) (bool, error) {
		i := s.indexOf(id)
		if i < 0 {
			return false, nil
		}
		found = true
		s.techs = append(s.techs[:i], s.techs[i+1:]...)
		return true, nil
	})
	return found, err
}

// MarkAllCompleted sets every record to completed.
func (s *Store) MarkAllCompleted(ctx context.Context) error {
	return s.setAll(ctx, "mark_all_completed", domain.StatusCompleted)
}

// ResetAllStatuses sets every record back to not-started.
func (s *Store) ResetAllStatuses(ctx context.Context) error {
	return s.setAll(ctx, "reset_all_statuses", domain.StatusNotStarted)
}

func (s *Store) setAll(ctx context.Context, op string, status domain.Status) error {
	return s.mutate(ctx, op, func(time.Time) (bool, error) {
		for i := range s.techs {
			s.techs[i].Status = status
		}
		return true, nil
	})
}

// ImportMerge appends imported records. Missing id, createdAt, status and
// notes are filled in; supplied ids are kept verbatim even if they collide
// with existing ones. Records without a title are skipped.
// Returns the number of records appended. Without a single titled record
// nothing changes and ErrMalformedImport is returned.
func (s *Store) ImportMerge(ctx context.Context, records []ImportRecord) (imported int, err error) {
	if !anyTitled(records) {
		return 0, fmt.Errorf("%w: no technology with a title", ErrMalformedImport)
	}
	err = s.mutate(ctx, "import_merge", func(now time.Time) (bool, error) {
		for _, r := range records {
			if !r.HasTitle() {
				continue
			}
			s.techs = append(s.techs, r.toTechnology(now, s.nextID))
			imported++
		}
		return imported > 0, nil
	})
	return imported, err
}

// ImportReplace swaps the collection for the imported records, filled in
// the same way as ImportMerge. Records without a title are skipped, and a
// payload with none leaves the collection untouched.
func (s *Store) ImportReplace(ctx context.Context, records []ImportRecord) (imported int, err error) {
	if !anyTitled(records) {
		return 0, fmt.Errorf("%w: no technology with a title", ErrMalformedImport)
	}
	err = s.mutate(ctx, "import_replace", func(now time.Time) (bool, error) {
		s.techs = make([]domain.Technology, 0, len(records))
		for _, r := range records {
			if !r.HasTitle() {
				continue
			}
			s.techs = append(s.techs, r.toTechnology(now, s.nextID))
			imported++
		}
		return true, nil
	})
	return imported, err
}

// Reset drops the stored collection and the last export time, then starts
// over from the starter set. The starter set is not written back, as on Open.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delCtx, cancel := persistContext(ctx)
	defer cancel()
	for _, key := range []string{s.key, LastExportKey} {
		if err := s.adapter.Delete(delCtx, key); err != nil {
			s.log.Error("collection reset failed",
				logger.String("key", key),
				logger.Error(err))
			return fmt.Errorf("%w: reset: %w", ErrPersist, err)
		}
	}

	s.techs = domain.CloneAll(s.seed(s.now()))
	metrics.RecordMutation("reset")
	s.publishMetrics()
	s.log.Info("collection reset to starter set",
		logger.String("key", s.key),
		logger.Int("technologies", len(s.techs)))
	return nil
}

// ReplaceAll replaces the whole collection, as when restoring an export.
// Records are stored as given.
func (s *Store) ReplaceAll(ctx context.Context, techs []domain.Technology) error {
	return s.mutate(ctx, "replace_all", func(time.Time) (bool, error) {
		s.techs = domain.CloneAll(techs)
		return true, nil
	})
}

func anyTitled(records []ImportRecord) bool {
	for _, r := range records {
		if r.HasTitle() {
			return true
		}
	}
	return false
}

func statusRequired(fe *validation.FieldError) *validation.FieldError {
	if fe != nil {
		return fe
	}
	return &validation.FieldError{Field: "status", Rule: "required", Message: "status is required"}
}

// cleanResources trims entries and drops empty ones, keeping order.
func cleanResources(in []string) []string {
	out := make([]string, 0, len(in))
	for _, r := range in {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

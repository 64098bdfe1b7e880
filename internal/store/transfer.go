package store

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/techtrack/internal/domain"
	"github.com/MrSnakeDoc/techtrack/internal/logger"
	"github.com/goccy/go-json"
)

// ExportVersion is written in every export document.
const ExportVersion = "1.0"

// CSVHeader is the first line of a CSV export.
var CSVHeader = []string{"title", "description", "category", "difficulty", "status", "notes"}

// ExportDocument is the portable JSON export format.
type ExportDocument struct {
	Version           string              `json:"version"`
	ExportedAt        time.Time           `json:"exportedAt"`
	TotalTechnologies int                 `json:"totalTechnologies"`
	Technologies      []domain.Technology `json:"technologies"`
}

// ImportRecord is one record of an import payload. Every field is optional
// at this stage; records without a title are dropped.
type ImportRecord struct {
	ID          json.Number `json:"id,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Difficulty  string      `json:"difficulty"`
	Status      string      `json:"status"`
	Notes       string      `json:"notes"`
	Resources   []string    `json:"resources"`
	Deadline    string      `json:"deadline"`
	CreatedAt   string      `json:"createdAt"`
}

// HasTitle reports whether the record carries a non-blank title.
func (r ImportRecord) HasTitle() bool {
	return strings.TrimSpace(r.Title) != ""
}

// toTechnology fills the missing fields. Supplied ids are truncated to
// integers and kept; zero or missing ids come from nextID.
func (r ImportRecord) toTechnology(now time.Time, nextID func(time.Time) int64) domain.Technology {
	t := domain.Technology{
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
		Category:    strings.TrimSpace(r.Category),
		Difficulty:  domain.DefaultDifficulty,
		Status:      domain.StatusNotStarted,
		Notes:       r.Notes,
		Resources:   cleanResources(r.Resources),
	}

	if id, ok := r.importedID(); ok {
		t.ID = id
	} else {
		t.ID = nextID(now)
	}

	t.CreatedAt = createdAt(now)
	if r.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339Nano, r.CreatedAt); err == nil {
			t.CreatedAt = ts.UTC()
		}
	}

	if st, ok := domain.ParseStatus(r.Status); ok {
		t.Status = st
	}
	if d := domain.Difficulty(strings.ToLower(strings.TrimSpace(r.Difficulty))); d.Valid() {
		t.Difficulty = d
	}
	if deadline, err := domain.NormalizeDate(r.Deadline); err == nil {
		t.Deadline = deadline
	}
	return t
}

// importedID returns the supplied id. Integers are kept exactly, fractions
// are truncated. Zero, missing or out of range ids report false.
func (r ImportRecord) importedID() (int64, bool) {
	if r.ID == "" {
		return 0, false
	}
	if id, err := strconv.ParseInt(string(r.ID), 10, 64); err == nil {
		return id, id != 0
	}
	f, err := strconv.ParseFloat(string(r.ID), 64)
	if err != nil || math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	id := int64(f)
	return id, id != 0
}

// ParseImport decodes an import payload: either a bare array of records or
// an object with a "technologies" array. Anything else yields
// ErrMalformedImport, as does a payload without a single titled record.
// Entries that are not objects or have no title are skipped and counted in
// dropped.
func ParseImport(data []byte) (records []ImportRecord, dropped int, err error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, 0, fmt.Errorf("%w: empty payload", ErrMalformedImport)
	}

	var raw []json.RawMessage
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrMalformedImport, err)
		}
	case '{':
		var doc struct {
			Technologies *[]json.RawMessage `json:"technologies"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrMalformedImport, err)
		}
		if doc.Technologies == nil {
			return nil, 0, fmt.Errorf("%w: missing technologies array", ErrMalformedImport)
		}
		raw = *doc.Technologies
	default:
		return nil, 0, fmt.Errorf("%w: expected an array or an object", ErrMalformedImport)
	}

	records = make([]ImportRecord, 0, len(raw))
	for _, item := range raw {
		var r ImportRecord
		if err := json.Unmarshal(item, &r); err != nil || !r.HasTitle() {
			dropped++
			continue
		}
		records = append(records, r)
	}
	if len(records) == 0 {
		return nil, dropped, fmt.Errorf("%w: no technology with a title", ErrMalformedImport)
	}
	return records, dropped, nil
}

// ParseExport decodes a document written by Export. The technologies array
// is required and every record must carry an id and a title.
func ParseExport(data []byte) (ExportDocument, error) {
	var doc struct {
		Version      string               `json:"version"`
		ExportedAt   time.Time            `json:"exportedAt"`
		Technologies *[]domain.Technology `json:"technologies"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(data), &doc); err != nil {
		return ExportDocument{}, fmt.Errorf("%w: %w", ErrMalformedImport, err)
	}
	if doc.Technologies == nil {
		return ExportDocument{}, fmt.Errorf("%w: missing technologies array", ErrMalformedImport)
	}
	for i, t := range *doc.Technologies {
		if t.ID == 0 || strings.TrimSpace(t.Title) == "" {
			return ExportDocument{}, fmt.Errorf("%w: technology %d has no id or title", ErrMalformedImport, i)
		}
	}

	return ExportDocument{
		Version:           doc.Version,
		ExportedAt:        doc.ExportedAt,
		TotalTechnologies: len(*doc.Technologies),
		Technologies:      *doc.Technologies,
	}, nil
}

// Export snapshots the collection into an export document and records the
// export time under LastExportKey. Failing to record the time is only logged.
func (s *Store) Export(ctx context.Context) ExportDocument {
	techs := s.All()
	now := s.now().UTC().Truncate(time.Millisecond)

	saveCtx, cancel := persistContext(ctx)
	defer cancel()
	if err := s.adapter.SaveValue(saveCtx, LastExportKey, now.Format(time.RFC3339Nano)); err != nil {
		s.log.Warn("failed to record export time", logger.Error(err))
	}

	return ExportDocument{
		Version:           ExportVersion,
		ExportedAt:        now,
		TotalTechnologies: len(techs),
		Technologies:      techs,
	}
}

// LastExportAt returns the time of the last export, if any.
func (s *Store) LastExportAt(ctx context.Context) (time.Time, bool) {
	v, ok := s.adapter.LoadValue(ctx, LastExportKey)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// WriteCSV writes techs as a flat table: an unquoted header line, then one
// line per record with every field double-quoted and inner quotes doubled.
func WriteCSV(w io.Writer, techs []domain.Technology) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(CSVHeader, ",") + "\n"); err != nil {
		return err
	}
	for i := range techs {
		t := &techs[i]
		fields := []string{t.Title, t.Description, t.Category, string(t.Difficulty), string(t.Status), t.Notes}
		for j, f := range fields {
			if j > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(quoteCSV(f)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

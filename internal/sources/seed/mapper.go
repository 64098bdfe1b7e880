package seed

import (
	"strings"
	"time"

	"github.com/MrSnakeDoc/techtrack/internal/domain"
	"github.com/MrSnakeDoc/techtrack/internal/logger"
	"github.com/MrSnakeDoc/techtrack/internal/validation"
)

// ToTechnologies converts seed entries into records numbered from 1.
// Entries failing validation are skipped and logged. Deadlines are kept as
// written: a starter record may already be overdue.
func ToTechnologies(f File, now time.Time, log logger.Logger) []domain.Technology {
	created := now.UTC().Truncate(time.Millisecond)
	out := make([]domain.Technology, 0, len(f.Technologies))

	for i, e := range f.Technologies {
		form := validation.Form{
			Title:       e.Title,
			Description: e.Description,
			Category:    e.Category,
			Difficulty:  e.Difficulty,
			Status:      e.Status,
			Resources:   e.Resources,
		}
		if err := validation.Validate(form, now); err != nil {
			log.Warn("skipping seed entry",
				logger.Int("index", i),
				logger.String("title", e.Title),
				logger.Error(err))
			continue
		}

		deadline, err := domain.NormalizeDate(e.Deadline)
		if err != nil {
			log.Warn("ignoring seed deadline",
				logger.String("title", e.Title),
				logger.Error(err))
		}

		out = append(out, domain.Technology{
			ID:          int64(len(out) + 1),
			CreatedAt:   created,
			Title:       strings.TrimSpace(e.Title),
			Description: strings.TrimSpace(e.Description),
			Category:    withDefault(strings.TrimSpace(e.Category), domain.DefaultCategory),
			Difficulty:  domain.Difficulty(withDefault(e.Difficulty, string(domain.DefaultDifficulty))),
			Status:      domain.Status(withDefault(e.Status, string(domain.StatusNotStarted))),
			Notes:       e.Notes,
			Resources:   nonEmpty(e.Resources),
			Deadline:    deadline,
		})
	}
	return out
}

// Func returns a starter-set builder reading path on every call. An empty
// path, an unreadable file or a file without valid entries falls back to the
// built-in starter set.
func Func(path string, log logger.Logger) func(time.Time) []domain.Technology {
	return func(now time.Time) []domain.Technology {
		if path == "" {
			return domain.StarterSet(now)
		}

		f, err := NewLoader(path).Load()
		if err != nil {
			log.Warn("seed file unusable, using built-in starter set",
				logger.String("path", path),
				logger.Error(err))
			return domain.StarterSet(now)
		}

		techs := ToTechnologies(f, now, log)
		if len(techs) == 0 {
			log.Warn("seed file has no valid entries, using built-in starter set",
				logger.String("path", path))
			return domain.StarterSet(now)
		}

		log.Info("loaded seed file",
			logger.String("path", path),
			logger.Int("technologies", len(techs)))
		return techs
	}
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

package domain

import "time"

// StarterSet returns the built-in collection used when nothing is stored yet.
func StarterSet(now time.Time) []Technology {
	created := now.UTC().Truncate(time.Millisecond)
	return []Technology{
		{
			ID:          1,
			Title:       "React Components",
			Description: "Learning the basic building blocks of React",
			Category:    CategoryFrontend,
			Difficulty:  DifficultyBeginner,
			Status:      StatusNotStarted,
			Resources:   []string{"https://react.dev"},
			CreatedAt:   created,
		},
		{
			ID:          2,
			Title:       "Node.js Basics",
			Description: "Fundamentals of server-side JavaScript",
			Category:    CategoryBackend,
			Difficulty:  DifficultyBeginner,
			Status:      StatusNotStarted,
			Resources:   []string{"https://nodejs.org"},
			CreatedAt:   created,
		},
		{
			ID:          3,
			Title:       "HTML & CSS",
			Description: "Foundations of web development",
			Category:    CategoryFrontend,
			Difficulty:  DifficultyBeginner,
			Status:      StatusCompleted,
			Notes:       "Important groundwork for frontend",
			Resources:   []string{"https://developer.mozilla.org"},
			CreatedAt:   created,
		},
	}
}

package entity

import "time"

type CategoryCount struct {
	Category string
	Count    int
}

type AuthorCount struct {
	AuthorID        string
	AuthorName      string
	Count           int
	LastSubmittedAt time.Time
}

type Stats struct {
	Total       int
	PerCategory []CategoryCount
	TopAuthors  []AuthorCount
}

// TopCategory returns the most submitted category, or false when there is none.
func (s *Stats) TopCategory() (CategoryCount, bool) {
	if s == nil || len(s.PerCategory) == 0 {
		return CategoryCount{}, false
	}
	return s.PerCategory[0], true
}

type LeaderboardEntry struct {
	AuthorID        string
	AuthorName      string
	Submissions     int
	Categories      []string
	LastSubmittedAt time.Time
	AvgFollowups    float64
}

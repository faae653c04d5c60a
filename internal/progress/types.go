package progress

import (
	"errors"

	"webdojo/internal/catalog"
)

var (
	ErrNotFound = catalog.ErrNotFound
	ErrLocked   = errors.New("challenge is locked")
)

// Progress is the single user's cumulative state. The JSON shape is the
// persisted record.
type Progress struct {
	CompletedChallenges []int    `json:"completedChallenges"`
	CurrentStreak       int      `json:"currentStreak"`
	TotalPoints         int      `json:"totalPoints"`
	Level               int      `json:"level"`
	Achievements        []string `json:"achievements"`
}

// New returns the first-run record.
func New(welcome string) Progress {
	return Progress{
		CompletedChallenges: []int{},
		Level:               1,
		Achievements:        []string{welcome},
	}
}

func (p Progress) Completed(id int) bool {
	for _, c := range p.CompletedChallenges {
		if c == id {
			return true
		}
	}
	return false
}

func (p Progress) Clone() Progress {
	out := p
	out.CompletedChallenges = append(make([]int, 0, len(p.CompletedChallenges)), p.CompletedChallenges...)
	out.Achievements = append(make([]string, 0, len(p.Achievements)), p.Achievements...)
	return out
}

func levelFor(completed int) int {
	return completed/5 + 1
}

type Status string

const (
	StatusCompleted Status = "completed"
	StatusUnlocked  Status = "unlocked"
	StatusLocked    Status = "locked"
)

type Stats struct {
	Completed         int `json:"completed"`
	Total             int `json:"total"`
	CompletionPercent int `json:"completion_percent"`
	// skill tracks fill up after 5, 8 and 10 completions.
	HTMLCSSPercent        int `json:"html_css_percent"`
	ProblemSolvingPercent int `json:"problem_solving_percent"`
	JavaScriptPercent     int `json:"javascript_percent"`
}

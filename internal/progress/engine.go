package progress

import (
	"math"

	"webdojo/internal/catalog"
)

// Engine holds the state-transition rules over one catalog. All methods
// are pure: they never mutate the Progress they are given.
type Engine struct {
	catalog *catalog.Catalog
}

func NewEngine(cat *catalog.Catalog) *Engine {
	return &Engine{catalog: cat}
}

func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Defaults is the record a user starts with.
func (e *Engine) Defaults() Progress {
	return New(e.catalog.WelcomeAchievement())
}

// IsUnlocked applies strict linear gating: challenge k needs k-1 completed.
func (e *Engine) IsUnlocked(id int, p Progress) (bool, error) {
	if _, err := e.catalog.Get(id); err != nil {
		return false, err
	}
	if id == 1 {
		return true, nil
	}
	return p.Completed(id - 1), nil
}

func (e *Engine) Status(id int, p Progress) (Status, error) {
	if _, err := e.catalog.Get(id); err != nil {
		return "", err
	}
	if p.Completed(id) {
		return StatusCompleted, nil
	}
	unlocked, _ := e.IsUnlocked(id, p)
	if unlocked {
		return StatusUnlocked, nil
	}
	return StatusLocked, nil
}

// Next returns the lowest-id challenge not yet completed.
func (e *Engine) Next(p Progress) (catalog.Challenge, bool) {
	for _, ch := range e.catalog.Challenges() {
		if !p.Completed(ch.ID) {
			return ch, true
		}
	}
	return catalog.Challenge{}, false
}

// Complete records a completion. Completing an already completed
// challenge returns the record unchanged.
func (e *Engine) Complete(id int, p Progress) (Progress, error) {
	ch, err := e.catalog.Get(id)
	if err != nil {
		return p, err
	}
	out := p.Clone()
	if p.Completed(id) {
		return out, nil
	}
	out.CompletedChallenges = append(out.CompletedChallenges, id)
	out.TotalPoints += ch.Points
	// streak counts completions; there is no calendar window.
	out.CurrentStreak++
	out.Level = levelFor(len(out.CompletedChallenges))
	if m, ok := e.catalog.Milestone(id); ok && !contains(out.Achievements, m.Achievement) {
		out.Achievements = append(out.Achievements, m.Achievement)
	}
	return out, nil
}

// Normalize repairs a loaded record: unknown and repeated ids are dropped
// and the derived fields are recomputed from what remains.
func (e *Engine) Normalize(p Progress) Progress {
	out := p.Clone()
	seen := make(map[int]struct{}, len(p.CompletedChallenges))
	kept := make([]int, 0, len(p.CompletedChallenges))
	points := 0
	for _, id := range p.CompletedChallenges {
		ch, err := e.catalog.Get(id)
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, id)
		points += ch.Points
	}
	out.CompletedChallenges = kept
	out.TotalPoints = points
	out.Level = levelFor(len(kept))
	if out.CurrentStreak < 0 {
		out.CurrentStreak = 0
	}
	if p.Achievements == nil {
		out.Achievements = []string{e.catalog.WelcomeAchievement()}
	}
	return out
}

func (e *Engine) Stats(p Progress) Stats {
	completed := len(p.CompletedChallenges)
	total := e.catalog.Len()
	s := Stats{Completed: completed, Total: total}
	if total > 0 {
		s.CompletionPercent = int(math.Round(float64(completed) / float64(total) * 100))
	}
	s.HTMLCSSPercent = track(completed, 5)
	s.ProblemSolvingPercent = track(completed, 8)
	s.JavaScriptPercent = track(completed, 10)
	return s
}

func track(completed, full int) int {
	return min(100, int(float64(completed)/float64(full)*100))
}

func contains(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}

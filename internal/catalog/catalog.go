package catalog

import (
	"errors"
	"fmt"
	"slices"
)

var ErrNotFound = errors.New("challenge not found")

// Catalog is the immutable, id-ordered list of challenges for one build.
type Catalog struct {
	id         string
	name       string
	version    string
	welcome    string
	challenges []Challenge
	milestones map[int]Milestone
}

func newCatalog(m Manifest, challenges []Challenge) *Catalog {
	ms := make(map[int]Milestone, len(m.Milestones))
	for _, milestone := range m.Milestones {
		ms[milestone.ChallengeID] = milestone
	}
	return &Catalog{
		id:         m.CatalogID,
		name:       m.Name,
		version:    m.Version,
		welcome:    m.WelcomeAchievement,
		challenges: challenges,
		milestones: ms,
	}
}

func (c *Catalog) ID() string      { return c.id }
func (c *Catalog) Name() string    { return c.name }
func (c *Catalog) Version() string { return c.version }
func (c *Catalog) Len() int        { return len(c.challenges) }

func (c *Catalog) WelcomeAchievement() string { return c.welcome }

func (c *Catalog) Challenges() []Challenge {
	out := make([]Challenge, len(c.challenges))
	for i, ch := range c.challenges {
		out[i] = ch.clone()
	}
	return out
}

func (c *Catalog) Get(id int) (Challenge, error) {
	// ids are dense, so the slice index is id-1.
	if id < 1 || id > len(c.challenges) {
		return Challenge{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return c.challenges[id-1].clone(), nil
}

// clone detaches the slices so callers cannot edit the catalog.
func (ch Challenge) clone() Challenge {
	ch.Languages = slices.Clone(ch.Languages)
	ch.Skills = slices.Clone(ch.Skills)
	return ch
}

func (c *Catalog) Milestone(id int) (Milestone, bool) {
	m, ok := c.milestones[id]
	return m, ok
}

func (c *Catalog) TotalPoints() int {
	total := 0
	for _, ch := range c.challenges {
		total += ch.Points
	}
	return total
}

package catalog

import (
	"fmt"
	"strings"
)

const (
	CatalogKind            = "catalog"
	ChallengeKind          = "challenge"
	SupportedSchemaVersion = 1
)

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Language names one editor pane. The yaml values match the pane ids
// used by the catalog files.
type Language string

const (
	Markup Language = "html"
	Style  Language = "css"
	Script Language = "js"
)

type Manifest struct {
	Kind               string         `yaml:"kind"`
	SchemaVersion      int            `yaml:"schema_version"`
	CatalogID          string         `yaml:"catalog_id"`
	Name               string         `yaml:"name"`
	Version            string         `yaml:"version"`
	DescriptionMD      string         `yaml:"description_md"`
	WelcomeAchievement string         `yaml:"welcome_achievement"`
	Milestones         []Milestone    `yaml:"milestones"`
	Challenges         []ChallengeRef `yaml:"challenges"`
}

type ChallengeRef struct {
	ID      int    `yaml:"id"`
	Path    string `yaml:"path"`
	Enabled *bool  `yaml:"enabled"`
}

// Milestone maps a challenge id to the achievement awarded on its
// completion. Exactly one milestone is final and it must sit on the
// last challenge of the catalog.
type Milestone struct {
	ChallengeID int    `yaml:"challenge_id"`
	Achievement string `yaml:"achievement"`
	Final       bool   `yaml:"final"`
}

type Challenge struct {
	Kind          string     `yaml:"kind" json:"-"`
	SchemaVersion int        `yaml:"schema_version" json:"-"`
	ID            int        `yaml:"id" json:"id"`
	Title         string     `yaml:"title" json:"title"`
	Description   string     `yaml:"description" json:"description"`
	Difficulty    Difficulty `yaml:"difficulty" json:"difficulty"`
	Languages     []Language `yaml:"languages" json:"languages"`
	Points        int        `yaml:"points" json:"points"`
	Skills        []string   `yaml:"skills" json:"skills"`
	TheoryHTML    string     `yaml:"theory_html" json:"theory_html"`
	Example       string     `yaml:"example" json:"example"`
	Solution      string     `yaml:"solution" json:"solution"`

	Path string `yaml:"-" json:"-"`
}

func (c Challenge) Uses(lang Language) bool {
	for _, l := range c.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

func (c Challenge) LanguageLabel() string {
	parts := make([]string, 0, len(c.Languages))
	for _, l := range c.Languages {
		parts = append(parts, strings.ToUpper(string(l)))
	}
	return strings.Join(parts, ", ")
}

func (m Manifest) Validate() error {
	if m.Kind != CatalogKind {
		return fmt.Errorf("kind must be %q", CatalogKind)
	}
	if m.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if m.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported catalog schema_version %d (max supported %d)", m.SchemaVersion, SupportedSchemaVersion)
	}
	if m.CatalogID == "" {
		return fmt.Errorf("catalog_id is required")
	}
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(m.WelcomeAchievement) == "" {
		return fmt.Errorf("welcome_achievement is required")
	}
	seen := map[int]struct{}{}
	for _, ref := range m.Challenges {
		if ref.ID <= 0 {
			return fmt.Errorf("challenges[].id must be > 0")
		}
		if ref.Path == "" {
			return fmt.Errorf("challenges[%d].path is required", ref.ID)
		}
		if _, ok := seen[ref.ID]; ok {
			return fmt.Errorf("duplicate challenge id %d in catalog.yaml", ref.ID)
		}
		seen[ref.ID] = struct{}{}
	}
	return nil
}

func (c Challenge) Validate() error {
	if c.Kind != ChallengeKind {
		return fmt.Errorf("kind must be %q", ChallengeKind)
	}
	if c.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if c.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported challenge schema_version %d (max supported %d)", c.SchemaVersion, SupportedSchemaVersion)
	}
	if c.ID <= 0 {
		return fmt.Errorf("id must be > 0")
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("title is required")
	}
	switch c.Difficulty {
	case Beginner, Intermediate, Advanced:
	default:
		return fmt.Errorf("invalid difficulty %q", c.Difficulty)
	}
	if len(c.Languages) == 0 {
		return fmt.Errorf("languages must contain at least one item")
	}
	seen := map[Language]struct{}{}
	for _, l := range c.Languages {
		switch l {
		case Markup, Style, Script:
		default:
			return fmt.Errorf("invalid language %q", l)
		}
		if _, ok := seen[l]; ok {
			return fmt.Errorf("duplicate language %q", l)
		}
		seen[l] = struct{}{}
	}
	if c.Points <= 0 {
		return fmt.Errorf("points must be > 0")
	}
	return nil
}

// validateMilestones checks the milestone table against a catalog of n
// challenges.
func validateMilestones(ms []Milestone, n int) error {
	ids := map[int]struct{}{}
	labels := map[string]struct{}{}
	finals := 0
	for _, m := range ms {
		if m.ChallengeID < 1 || m.ChallengeID > n {
			return fmt.Errorf("milestone challenge_id %d outside 1..%d", m.ChallengeID, n)
		}
		if _, ok := ids[m.ChallengeID]; ok {
			return fmt.Errorf("duplicate milestone for challenge %d", m.ChallengeID)
		}
		ids[m.ChallengeID] = struct{}{}
		label := strings.TrimSpace(m.Achievement)
		if label == "" {
			return fmt.Errorf("milestone %d achievement is required", m.ChallengeID)
		}
		if _, ok := labels[label]; ok {
			return fmt.Errorf("duplicate milestone achievement %q", label)
		}
		labels[label] = struct{}{}
		if m.Final {
			finals++
			if m.ChallengeID != n {
				return fmt.Errorf("final milestone is on challenge %d but the catalog has %d challenges", m.ChallengeID, n)
			}
		}
	}
	if len(ms) > 0 && finals != 1 {
		return fmt.Errorf("exactly one final milestone is required, got %d", finals)
	}
	return nil
}

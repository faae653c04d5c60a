package catalog

import "testing"

func validChallenge() Challenge {
	return Challenge{
		Kind:          ChallengeKind,
		SchemaVersion: 1,
		ID:            1,
		Title:         "x",
		Difficulty:    Beginner,
		Languages:     []Language{Markup},
		Points:        10,
	}
}

func TestManifestValidateRejectsUnsupportedSchemaVersion(t *testing.T) {
	m := Manifest{
		Kind:               CatalogKind,
		SchemaVersion:      SupportedSchemaVersion + 1,
		CatalogID:          "c",
		Name:               "x",
		WelcomeAchievement: "hi",
	}
	if err := m.Validate(); err == nil {
		t.Fatalf("expected unsupported schema version error")
	}
}

func TestChallengeValidateRejectsUnknownLanguage(t *testing.T) {
	c := validChallenge()
	c.Languages = []Language{"python"}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestChallengeValidateRequiresLanguagesAndPoints(t *testing.T) {
	c := validChallenge()
	c.Languages = nil
	if err := c.Validate(); err == nil {
		t.Fatalf("expected languages error")
	}
	c = validChallenge()
	c.Points = 0
	if err := c.Validate(); err == nil {
		t.Fatalf("expected points error")
	}
	if err := validChallenge().Validate(); err != nil {
		t.Fatalf("expected valid challenge, got %v", err)
	}
}

func TestValidateMilestonesRejectsDuplicatesAndMissingFinal(t *testing.T) {
	if err := validateMilestones([]Milestone{{ChallengeID: 1, Achievement: "a"}, {ChallengeID: 1, Achievement: "b", Final: true}}, 1); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if err := validateMilestones([]Milestone{{ChallengeID: 1, Achievement: "a"}}, 2); err == nil {
		t.Fatalf("expected missing final error")
	}
	if err := validateMilestones([]Milestone{{ChallengeID: 3, Achievement: "a", Final: true}}, 2); err == nil {
		t.Fatalf("expected out of range error")
	}
	if err := validateMilestones(nil, 2); err != nil {
		t.Fatalf("empty milestone table should be valid: %v", err)
	}
}

func TestLanguageLabel(t *testing.T) {
	c := validChallenge()
	c.Languages = []Language{Markup, Style, Script}
	if got := c.LanguageLabel(); got != "HTML, CSS, JS" {
		t.Fatalf("unexpected label %q", got)
	}
}

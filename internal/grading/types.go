package grading

import "webdojo/internal/catalog"

const (
	CheckNotEmpty     = "not_empty"
	CheckMarkupLength = "markup_min_length"
	CheckStyleLength  = "style_min_length"
	CheckScriptLength = "script_min_length"
)

// Minimum trimmed fragment lengths, in characters.
const (
	MinMarkupChars = 10
	MinStyleChars  = 5
	MinScriptChars = 5
)

const (
	EmptyMessage = "Please write some code before submitting!"
	RetryMessage = "Solution needs more work. Keep trying!"
)

type CheckSpec struct {
	ID       string
	Type     string
	Language catalog.Language
	Min      int
}

type CheckResult struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Language catalog.Language `json:"language,omitempty"`
	Passed   bool             `json:"passed"`
	Summary  string           `json:"summary,omitempty"`
	Message  string           `json:"message,omitempty"`
}

type Result struct {
	ChallengeID int           `json:"challenge_id"`
	Passed      bool          `json:"passed"`
	Checks      []CheckResult `json:"checks"`
}

// Message is the single line shown to the user after a submission.
func (r Result) Message() string {
	if r.Passed {
		return "ok"
	}
	for _, c := range r.Checks {
		if !c.Passed && c.Type == CheckNotEmpty {
			return EmptyMessage
		}
	}
	return RetryMessage
}

// ChecksFor lists the checks a submission for ch must pass, in order.
func ChecksFor(ch catalog.Challenge) []CheckSpec {
	checks := []CheckSpec{{ID: "has_content", Type: CheckNotEmpty}}
	if ch.Uses(catalog.Markup) {
		checks = append(checks, CheckSpec{ID: "html", Type: CheckMarkupLength, Language: catalog.Markup, Min: MinMarkupChars})
	}
	if ch.Uses(catalog.Style) {
		checks = append(checks, CheckSpec{ID: "css", Type: CheckStyleLength, Language: catalog.Style, Min: MinStyleChars})
	}
	if ch.Uses(catalog.Script) {
		checks = append(checks, CheckSpec{ID: "js", Type: CheckScriptLength, Language: catalog.Script, Min: MinScriptChars})
	}
	return checks
}

type evaluation struct {
	Passed  bool
	Summary string
	Message string
}

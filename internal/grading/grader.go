package grading

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"webdojo/internal/catalog"
	"webdojo/internal/sandbox"
)

type evaluatorFunc func(fragments, CheckSpec) evaluation

// fragments holds the trimmed submission.
type fragments struct {
	markup string
	style  string
	script string
}

func (f fragments) of(lang catalog.Language) string {
	switch lang {
	case catalog.Markup:
		return f.markup
	case catalog.Style:
		return f.style
	case catalog.Script:
		return f.script
	}
	return ""
}

type DefaultGrader struct {
	registry map[string]evaluatorFunc
}

func NewGrader() *DefaultGrader {
	g := &DefaultGrader{registry: map[string]evaluatorFunc{}}
	g.registry[CheckNotEmpty] = evalNotEmpty
	g.registry[CheckMarkupLength] = evalMinLength
	g.registry[CheckStyleLength] = evalMinLength
	g.registry[CheckScriptLength] = evalMinLength
	return g
}

// Validate applies the length heuristic. It never looks at what the code
// does, only at how much of it there is for each language the challenge
// uses.
func (g *DefaultGrader) Validate(ch catalog.Challenge, in sandbox.Input) Result {
	f := fragments{
		markup: strings.TrimSpace(in.Markup),
		style:  strings.TrimSpace(in.Style),
		script: strings.TrimSpace(in.Script),
	}
	result := Result{ChallengeID: ch.ID, Passed: true}
	for _, check := range ChecksFor(ch) {
		eval := g.evaluateCheck(f, check)
		result.Checks = append(result.Checks, CheckResult{
			ID:       check.ID,
			Type:     check.Type,
			Language: check.Language,
			Passed:   eval.Passed,
			Summary:  eval.Summary,
			Message:  eval.Message,
		})
		if !eval.Passed {
			result.Passed = false
		}
	}
	return result
}

func (g *DefaultGrader) evaluateCheck(f fragments, check CheckSpec) evaluation {
	evaluator, ok := g.registry[check.Type]
	if !ok {
		return evaluation{Passed: false, Summary: "unknown check", Message: "unknown check type: " + check.Type}
	}
	return evaluator(f, check)
}

func evalNotEmpty(f fragments, _ CheckSpec) evaluation {
	if f.markup == "" && f.style == "" && f.script == "" {
		return evaluation{Passed: false, Summary: "no code", Message: EmptyMessage}
	}
	return evaluation{Passed: true, Summary: "has code", Message: "ok"}
}

func evalMinLength(f fragments, check CheckSpec) evaluation {
	n := utf16Len(f.of(check.Language))
	if n < check.Min {
		return evaluation{
			Passed:  false,
			Summary: string(check.Language) + " too short",
			Message: fmt.Sprintf("need at least %d characters of %s, got %d", check.Min, strings.ToUpper(string(check.Language)), n),
		}
	}
	return evaluation{Passed: true, Summary: string(check.Language) + " present", Message: "ok"}
}

// utf16Len counts UTF-16 code units, the unit browsers use for string
// length. Characters outside the BMP count twice.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

package ui

import (
	"fmt"
	"strings"

	"webdojo/internal/account"
	"webdojo/internal/app"
	"webdojo/internal/catalog"
	"webdojo/internal/grading"
	"webdojo/internal/progress"
	"webdojo/internal/sandbox"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type Options struct {
	Dark      bool
	ASCIIOnly bool
	// Width is the terminal width in cells. Zero means wide.
	Width int
}

// Renderer turns application state into terminal text.
type Renderer struct {
	theme    Theme
	glyphs   glyphs
	width    int
	mode     LayoutMode
	markdown *glamour.TermRenderer
}

type glyphs struct {
	completed string
	unlocked  string
	locked    string
	bullet    string
	trophy    string
	barFull   string
	barEmpty  string
	sep       string
}

var unicodeGlyphs = glyphs{completed: "✓", unlocked: "▶", locked: "🔒", bullet: "•", trophy: "🏆", barFull: "█", barEmpty: "░", sep: " · "}

var asciiGlyphs = glyphs{completed: "[x]", unlocked: "[>]", locked: "[ ]", bullet: "-", trophy: "*", barFull: "#", barEmpty: ".", sep: " | "}

func NewRenderer(opts Options) *Renderer {
	g := unicodeGlyphs
	style := "light"
	if opts.Dark {
		style = "dark"
	}
	if opts.ASCIIOnly {
		g = asciiGlyphs
		style = "ascii"
	}
	wrap := opts.Width
	if wrap <= 0 || wrap > 100 {
		wrap = 78
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		md = nil
	}
	return &Renderer{
		theme:    ThemeFor(opts.Dark, opts.ASCIIOnly),
		glyphs:   g,
		width:    opts.Width,
		mode:     DetermineLayoutMode(opts.Width),
		markdown: md,
	}
}

func (r *Renderer) statusGlyph(s progress.Status) string {
	switch s {
	case progress.StatusCompleted:
		return r.theme.Pass.Render(r.glyphs.completed)
	case progress.StatusUnlocked:
		return r.theme.Accent.Render(r.glyphs.unlocked)
	default:
		return r.theme.Muted.Render(r.glyphs.locked)
	}
}

// ChallengeList renders the challenge grid, or a table on narrow terminals.
func (r *Renderer) ChallengeList(cards []app.Card) string {
	if r.mode.Columns() == 0 {
		return r.challengeTable(cards)
	}
	width := cardWidth(r.width, r.mode)
	cols := r.mode.Columns()
	var rows []string
	for start := 0; start < len(cards); start += cols {
		end := min(start+cols, len(cards))
		cells := make([]string, 0, cols)
		for _, c := range cards[start:end] {
			cells = append(cells, r.card(c, width))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (r *Renderer) card(c app.Card, width int) string {
	style := r.theme.Card
	switch c.Status {
	case progress.StatusCompleted:
		style = r.theme.CardDone
	case progress.StatusLocked:
		style = r.theme.CardLocked
	}
	ch := c.Challenge
	body := strings.Join([]string{
		fmt.Sprintf("%s Day %d", r.statusGlyph(c.Status), ch.ID),
		r.theme.Title.Render(truncate(ch.Title, width-2)),
		r.theme.Muted.Render(strings.Join([]string{string(ch.Difficulty), ch.LanguageLabel(), fmt.Sprintf("%d pts", ch.Points)}, r.glyphs.sep)),
	}, "\n")
	return style.Width(width).Render(body)
}

func (r *Renderer) challengeTable(cards []app.Card) string {
	var b strings.Builder
	for _, c := range cards {
		ch := c.Challenge
		fmt.Fprintf(&b, "%s %2d  %s  %s\n", r.statusGlyph(c.Status), ch.ID, ch.Title, r.theme.Muted.Render(fmt.Sprintf("(%d pts)", ch.Points)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Challenge renders the detail view: description, theory and the worked
// example.
func (r *Renderer) Challenge(ch catalog.Challenge, status progress.Status) string {
	var b strings.Builder
	b.WriteString(r.theme.Header.Render(fmt.Sprintf("Day %d: %s", ch.ID, ch.Title)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s  %s  %s\n\n",
		r.statusGlyph(status),
		r.theme.Accent.Render(string(status)),
		r.theme.Muted.Render(fmt.Sprintf("%s, %d pts", ch.Difficulty, ch.Points)),
		r.theme.Muted.Render("Languages: "+ch.LanguageLabel()),
	)
	b.WriteString(ch.Description)
	b.WriteString("\n\n")
	if len(ch.Skills) > 0 {
		b.WriteString(r.theme.Subtitle.Render("Skills"))
		b.WriteString("\n")
		for _, s := range ch.Skills {
			fmt.Fprintf(&b, "%s %s\n", r.glyphs.bullet, s)
		}
		b.WriteString("\n")
	}
	if theory := TheoryText(ch.TheoryHTML, r.glyphs.bullet); theory != "" {
		b.WriteString(r.theme.Subtitle.Render("Theory"))
		b.WriteString("\n")
		b.WriteString(theory)
		b.WriteString("\n\n")
	}
	if ch.Example != "" {
		b.WriteString(r.theme.Subtitle.Render("Example"))
		b.WriteString("\n")
		b.WriteString(r.code(ch.Example, exampleLang(ch)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func exampleLang(ch catalog.Challenge) string {
	if ch.Uses(catalog.Markup) {
		return "html"
	}
	if ch.Uses(catalog.Style) {
		return "css"
	}
	return "javascript"
}

func (r *Renderer) code(src, lang string) string {
	if r.markdown != nil {
		if out, err := r.markdown.Render("```" + lang + "\n" + strings.TrimRight(src, "\n") + "\n```\n"); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	lines := strings.Split(strings.TrimRight(src, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}

// Dashboard renders the stats panel and achievements.
func (r *Renderer) Dashboard(p progress.Progress, s progress.Stats, user *account.User) string {
	var b strings.Builder
	title := "Dashboard"
	if user != nil {
		title = "Welcome back, " + user.Name
	}
	b.WriteString(r.theme.Header.Render(title))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Completed  %d/%d (%d%%)\n", s.Completed, s.Total, s.CompletionPercent)
	fmt.Fprintf(&b, "Points     %d\n", p.TotalPoints)
	fmt.Fprintf(&b, "Level      %d\n", p.Level)
	fmt.Fprintf(&b, "Streak     %d\n\n", p.CurrentStreak)

	b.WriteString(r.theme.Subtitle.Render("Skills"))
	b.WriteString("\n")
	for _, row := range []struct {
		label   string
		percent int
	}{
		{"HTML/CSS       ", s.HTMLCSSPercent},
		{"Problem Solving", s.ProblemSolvingPercent},
		{"JavaScript     ", s.JavaScriptPercent},
	} {
		fmt.Fprintf(&b, "%s %s %3d%%\n", row.label, r.bar(row.percent, 20), row.percent)
	}
	b.WriteString("\n")
	b.WriteString(r.theme.Subtitle.Render("Achievements"))
	b.WriteString("\n")
	for _, a := range p.Achievements {
		fmt.Fprintf(&b, "%s %s\n", r.glyphs.trophy, a)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Renderer) bar(percent, width int) string {
	percent = max(0, min(100, percent))
	full := percent * width / 100
	return r.theme.BarFull.Render(strings.Repeat(r.glyphs.barFull, full)) +
		r.theme.BarEmpty.Render(strings.Repeat(r.glyphs.barEmpty, width-full))
}

// Console renders captured script output.
func (r *Renderer) Console(out sandbox.Output) string {
	if out.Failed() {
		return r.theme.Fail.Render(out.Err)
	}
	if out.Silent {
		return r.theme.Muted.Render(out.Text())
	}
	return out.Text()
}

func (r *Renderer) Submitted(res app.SubmitResult) string {
	var b strings.Builder
	if res.AlreadyCompleted {
		b.WriteString(r.theme.Muted.Render(fmt.Sprintf("Day %d was already completed.", res.Challenge.ID)))
	} else {
		b.WriteString(r.theme.Pass.Render("Congratulations! Challenge completed successfully!"))
		fmt.Fprintf(&b, "\n+%d points, %d total, level %d", res.PointsAwarded, res.Progress.TotalPoints, res.Progress.Level)
	}
	for _, a := range res.NewAchievements {
		fmt.Fprintf(&b, "\n%s %s", r.glyphs.trophy, r.theme.Accent.Render(a))
	}
	if res.Next != nil {
		fmt.Fprintf(&b, "\nNext up: Day %d, %s", res.Next.ID, res.Next.Title)
	}
	return b.String()
}

// Rejected explains a failed validation, one line per check.
func (r *Renderer) Rejected(res grading.Result) string {
	var b strings.Builder
	b.WriteString(r.theme.Fail.Render(res.Message()))
	for _, c := range res.Checks {
		mark := r.theme.Pass.Render(r.glyphs.completed)
		if !c.Passed {
			mark = r.theme.Fail.Render("x")
		}
		fmt.Fprintf(&b, "\n%s %s", mark, c.Message)
	}
	return b.String()
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

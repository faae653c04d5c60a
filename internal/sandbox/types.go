package sandbox

import (
	"html"
	"strings"
	"time"
)

// NoConsoleOutput is reported when a script ran cleanly but logged nothing.
const NoConsoleOutput = "No console output"

// Input is the transient triple a user edits. It is never persisted.
type Input struct {
	Markup string `json:"markup"`
	Style  string `json:"style"`
	Script string `json:"script"`
}

// Document is the composed preview page.
type Document struct {
	HTML string
}

// Frame wraps the document in a sandboxed iframe. Without
// allow-same-origin the frame gets an opaque origin, so user code cannot
// reach the host page, its storage or its navigation.
func (d Document) Frame() string {
	return `<iframe sandbox="allow-scripts" referrerpolicy="no-referrer" srcdoc="` + html.EscapeString(d.HTML) + `"></iframe>`
}

// Output is the captured console of one script execution. Exactly one of
// Lines or Err carries the result.
type Output struct {
	Lines []string `json:"lines,omitempty"`
	Err   string   `json:"error,omitempty"`
	// Silent is set when Lines holds only the NoConsoleOutput placeholder.
	Silent bool `json:"silent,omitempty"`
}

func (o Output) Failed() bool { return o.Err != "" }

// Text is what a console pane shows.
func (o Output) Text() string {
	if o.Err != "" {
		return o.Err
	}
	return strings.Join(o.Lines, "\n")
}

type Run struct {
	Document Document
	Output   Output
	Elapsed  time.Duration
}

type Options struct {
	Timeout      time.Duration
	MaxCallStack int
}

package ui

import (
	"strings"

	"golang.org/x/net/html"
)

// TheoryText flattens the catalog's theory HTML into wrapped-friendly
// terminal text. Headings and paragraphs become blocks, list items become
// bullets, and entities are decoded.
func TheoryText(src string, bullet string) string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return src
	}
	w := &textWriter{bullet: bullet}
	w.walk(doc, false)
	return w.String()
}

type textWriter struct {
	b      strings.Builder
	bullet string
}

func (w *textWriter) walk(n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data, pre)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "head":
			return
		case "br":
			w.b.WriteByte('\n')
			return
		case "li":
			w.newline()
			w.b.WriteString(w.bullet + " ")
			w.children(n, pre)
			w.newline()
			return
		case "p", "div", "section", "blockquote", "ul", "ol", "table", "tr",
			"h1", "h2", "h3", "h4", "h5", "h6":
			w.blank()
			w.children(n, pre)
			w.blank()
			return
		case "pre":
			w.blank()
			w.children(n, true)
			w.blank()
			return
		}
	}
	w.children(n, pre)
}

func (w *textWriter) children(n *html.Node, pre bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, pre)
	}
}

func (w *textWriter) text(s string, pre bool) {
	if pre {
		w.b.WriteString(s)
		return
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		if s != "" && !w.atBreak() {
			w.b.WriteByte(' ')
		}
		return
	}
	if isSpace(s[0]) && !w.atBreak() {
		w.b.WriteByte(' ')
	}
	w.b.WriteString(strings.Join(words, " "))
	if isSpace(s[len(s)-1]) {
		w.b.WriteByte(' ')
	}
}

func (w *textWriter) atBreak() bool {
	s := w.b.String()
	return s == "" || strings.HasSuffix(s, "\n") || strings.HasSuffix(s, " ")
}

func (w *textWriter) newline() {
	s := w.b.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		w.b.WriteByte('\n')
	}
}

func (w *textWriter) blank() {
	w.newline()
	s := w.b.String()
	if s != "" && !strings.HasSuffix(s, "\n\n") {
		w.b.WriteByte('\n')
	}
}

func (w *textWriter) String() string {
	lines := strings.Split(w.b.String(), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"webdojo/internal/app"
	"webdojo/internal/progress"

	"github.com/charmbracelet/x/ansi"
)

func execute(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--data-dir", dataDir, "--store", "sqlite", "--ascii"}, args...))
	err := root.Execute()
	return ansi.Strip(out.String()), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestListShowsAllChallenges(t *testing.T) {
	out, err := execute(t, t.TempDir(), "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Day 1 ") || !strings.Contains(out, "Day 20") {
		t.Fatalf("unexpected list output:\n%s", out)
	}
}

func TestShowRejectsBadID(t *testing.T) {
	if _, err := execute(t, t.TempDir(), "show", "abc"); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
	_, err := execute(t, t.TempDir(), "show", "42")
	if err == nil || !strings.Contains(friendlyError(err), "not found") {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSignupSubmitAndProgressAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	html := writeFile(t, t.TempDir(), "index.html", "<h1>Hello, Gambia!</h1>")

	if _, err := execute(t, dir, "submit", "1", "--html", html); !errors.Is(err, app.ErrSignedOut) {
		t.Fatalf("expected signed-out error, got %v", err)
	}

	out, err := execute(t, dir, "signup", "--name", "Awa", "--email", "awa@example.com", "--password", "secret")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if !strings.Contains(out, "Signed in as Awa") {
		t.Fatalf("unexpected signup output: %q", out)
	}

	out, err = execute(t, dir, "submit", "1", "--html", html)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !strings.Contains(out, "+10 points") || !strings.Contains(out, "First Web Page Created!") {
		t.Fatalf("unexpected submit output:\n%s", out)
	}

	out, err = execute(t, dir, "progress")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	for _, want := range []string{"Welcome back, Awa", "Completed  1/20 (5%)", "Points     10"} {
		if !strings.Contains(out, want) {
			t.Fatalf("progress output missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, dir, "submit", "3", "--html", html); !errors.Is(err, progress.ErrLocked) {
		t.Fatalf("expected locked error, got %v", err)
	}
}

func TestSubmitRejectsShortSolution(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, dir, "signup", "--name", "Awa", "--email", "awa@example.com", "--password", "secret"); err != nil {
		t.Fatal(err)
	}
	html := writeFile(t, t.TempDir(), "index.html", "<p>hi</p>")
	out, err := execute(t, dir, "submit", "1", "--html", html)
	if !errors.Is(err, app.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(out, "Solution needs more work. Keep trying!") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestRunPrintsConsoleAndWritesPreview(t *testing.T) {
	src := t.TempDir()
	js := writeFile(t, src, "app.js", `console.log("Dalasi", 50)`)
	page := filepath.Join(src, "preview.html")
	out, err := execute(t, t.TempDir(), "run", "--js", js, "--out", page)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Dalasi 50") {
		t.Fatalf("expected console output, got:\n%s", out)
	}
	b, err := os.ReadFile(page)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `<script>console.log("Dalasi", 50)</script>`) {
		t.Fatalf("preview page missing script:\n%s", b)
	}
}

func TestThemeToggles(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, dir, "theme")
	if err != nil || !strings.Contains(out, "Theme: light") {
		t.Fatalf("expected light default, got %q %v", out, err)
	}
	if out, err = execute(t, dir, "theme", "toggle"); err != nil || !strings.Contains(out, "Theme: dark") {
		t.Fatalf("expected dark after toggle, got %q %v", out, err)
	}
	if out, err = execute(t, dir, "theme", "dark"); err != nil || !strings.Contains(out, "Theme: dark") {
		t.Fatalf("expected dark to stay dark, got %q %v", out, err)
	}
	if _, err = execute(t, dir, "theme", "sepia"); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
}

func TestSigninReadsPasswordFromStdin(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, dir, "signup", "--name", "Awa", "--email", "awa@example.com", "--password", "secret"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, dir, "signout"); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, dir, "whoami")
	if err != nil || !strings.Contains(out, "Not signed in.") {
		t.Fatalf("expected signed out, got %q %v", out, err)
	}

	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetIn(strings.NewReader("secret\n"))
	root.SetArgs([]string{"--data-dir", dir, "--store", "sqlite", "signin", "--email", "AWA@example.com"})
	if err := root.Execute(); err != nil {
		t.Fatalf("signin: %v", err)
	}
	if !strings.Contains(buf.String(), "Welcome back, Awa!") {
		t.Fatalf("unexpected signin output: %q", buf.String())
	}
}

func TestFriendlyError(t *testing.T) {
	locked := fmt.Errorf("%w: challenge 3", progress.ErrLocked)
	if got := friendlyError(locked); !strings.Contains(got, "locked") {
		t.Fatalf("unexpected message %q", got)
	}
	if got := friendlyError(app.ErrSignedOut); !strings.Contains(got, "webdojo signin") {
		t.Fatalf("unexpected message %q", got)
	}
}

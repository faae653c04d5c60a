package app

import (
	"context"
	"errors"
	"testing"

	"webdojo/internal/catalog"
	"webdojo/internal/progress"
	"webdojo/internal/sandbox"
	"webdojo/internal/state"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/crypto/bcrypt"
)

func newTestApp(t *testing.T, store string) *App {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Store = store
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	a.accounts.WithCost(bcrypt.MinCost)
	t.Cleanup(a.Close)
	return a
}

func signIn(t *testing.T, a *App) {
	t.Helper()
	if _, err := a.Register(context.Background(), "Fatou", "fatou@example.gm", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
}

var passing = sandbox.Input{
	Markup: "<h1>Hello Gambia</h1>",
	Style:  "h1 { color: green; }",
	Script: "console.log('hello');",
}

type failingStore struct{}

func (failingStore) Load(context.Context) (progress.Progress, error) {
	return progress.Progress{}, &state.StorageError{Op: "get", Err: errors.New("disk full")}
}

func (failingStore) Save(context.Context, progress.Progress) error {
	return &state.StorageError{Op: "set", Err: errors.New("disk full")}
}

func TestNewStartsWithDefaults(t *testing.T) {
	a := newTestApp(t, StoreMemory)
	p := a.Progress()
	if len(p.CompletedChallenges) != 0 || p.Level != 1 {
		t.Fatalf("unexpected initial progress %#v", p)
	}
	if diff := cmp.Diff([]string{"Welcome to the Challenge!"}, p.Achievements); diff != "" {
		t.Fatalf("achievements mismatch:\n%s", diff)
	}
	next, ok := a.Next()
	if !ok || next.ID != 1 {
		t.Fatalf("expected challenge 1 next, got %d", next.ID)
	}
}

func TestSubmitRequiresSignIn(t *testing.T) {
	a := newTestApp(t, StoreMemory)
	if _, err := a.Submit(context.Background(), 1, passing); !errors.Is(err, ErrSignedOut) {
		t.Fatalf("expected ErrSignedOut, got %v", err)
	}
}

func TestSubmitRecordsAndPersists(t *testing.T) {
	a := newTestApp(t, StoreSQLite)
	signIn(t, a)
	ctx := context.Background()

	res, err := a.Submit(ctx, 1, passing)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.PointsAwarded != 10 || res.AlreadyCompleted {
		t.Fatalf("unexpected result %#v", res)
	}
	if diff := cmp.Diff([]string{"First Web Page Created!"}, res.NewAchievements); diff != "" {
		t.Fatalf("new achievements mismatch:\n%s", diff)
	}
	if res.Next == nil || res.Next.ID != 2 {
		t.Fatalf("expected challenge 2 next, got %#v", res.Next)
	}

	again, err := a.Submit(ctx, 1, passing)
	if err != nil {
		t.Fatal(err)
	}
	if !again.AlreadyCompleted || again.PointsAwarded != 0 {
		t.Fatalf("expected idempotent resubmit, got %#v", again)
	}

	stored, err := progress.NewStore(a.kv, a.engine.Defaults).Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a.Progress(), stored); diff != "" {
		t.Fatalf("persisted progress differs (-memory +stored):\n%s", diff)
	}
}

func TestSubmitReloadsAfterRestart(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Store = StoreSQLite
	ctx := context.Background()

	a, err := New(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	a.accounts.WithCost(bcrypt.MinCost)
	signIn(t, a)
	for id := 1; id <= 5; id++ {
		if _, err := a.Submit(ctx, id, passing); err != nil {
			t.Fatalf("submit %d: %v", id, err)
		}
	}
	want := a.Progress()
	a.Close()

	b, err := New(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if diff := cmp.Diff(want, b.Progress()); diff != "" {
		t.Fatalf("progress lost across restart (-before +after):\n%s", diff)
	}
	if b.Progress().Level != 2 {
		t.Fatalf("expected level 2, got %d", b.Progress().Level)
	}
}

func TestSubmitRejectsLockedUnknownAndInvalid(t *testing.T) {
	a := newTestApp(t, StoreMemory)
	signIn(t, a)
	ctx := context.Background()

	if _, err := a.Submit(ctx, 3, passing); !errors.Is(err, progress.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if _, err := a.Submit(ctx, 21, passing); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	res, err := a.Submit(ctx, 1, sandbox.Input{Markup: "<p>"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if res.Validation.Passed {
		t.Fatalf("validation should have failed")
	}
	if len(a.Progress().CompletedChallenges) != 0 {
		t.Fatalf("failed submissions must not change progress")
	}
}

func TestSubmitSaveFailureKeepsProgress(t *testing.T) {
	a := newTestApp(t, StoreMemory)
	signIn(t, a)
	a.store = failingStore{}
	before := a.Progress()
	if _, err := a.Submit(context.Background(), 1, passing); !errors.Is(err, state.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if diff := cmp.Diff(before, a.Progress()); diff != "" {
		t.Fatalf("progress changed despite failed save:\n%s", diff)
	}
}

func TestCardsAndStats(t *testing.T) {
	a := newTestApp(t, StoreMemory)
	signIn(t, a)
	if _, err := a.Submit(context.Background(), 1, passing); err != nil {
		t.Fatal(err)
	}
	cards := a.Cards()
	if len(cards) != 20 {
		t.Fatalf("expected 20 cards, got %d", len(cards))
	}
	want := []progress.Status{progress.StatusCompleted, progress.StatusUnlocked, progress.StatusLocked}
	got := []progress.Status{cards[0].Status, cards[1].Status, cards[2].Status}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("statuses mismatch:\n%s", diff)
	}
	if s := a.Stats(); s.Completed != 1 || s.CompletionPercent != 5 {
		t.Fatalf("unexpected stats %#v", s)
	}
}

func TestRunCapturesConsole(t *testing.T) {
	a := newTestApp(t, StoreMemory)
	run := a.Run(context.Background(), sandbox.Input{Markup: "<p>x</p>", Script: "console.log('a'); console.log('b')"})
	if diff := cmp.Diff([]string{"a", "b"}, run.Output.Lines); diff != "" {
		t.Fatalf("console mismatch:\n%s", diff)
	}
	failed := a.Run(context.Background(), sandbox.Input{Script: "throw new Error('boom')"})
	if failed.Output.Err != "Error: boom" {
		t.Fatalf("unexpected error output %#v", failed.Output)
	}
}

func TestToggleThemePersists(t *testing.T) {
	a := newTestApp(t, StoreMemory)
	ctx := context.Background()
	if th, err := a.Theme(ctx); err != nil || th != ThemeLight {
		t.Fatalf("expected light default, got %s %v", th, err)
	}
	th, err := a.ToggleTheme(ctx)
	if err != nil || th != ThemeDark {
		t.Fatalf("expected dark, got %s %v", th, err)
	}
	raw, _, _ := a.kv.Get(ctx, state.KeyDarkMode)
	if raw != "true" {
		t.Fatalf("expected darkMode=true, got %q", raw)
	}
	if th, _ := a.ToggleTheme(ctx); th != ThemeLight {
		t.Fatalf("expected light after second toggle, got %s", th)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Store = "floppy"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatalf("expected invalid store to fail")
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"webdojo/internal/account"
	"webdojo/internal/catalog"
	"webdojo/internal/grading"
	"webdojo/internal/progress"
	"webdojo/internal/sandbox"
	"webdojo/internal/state"
	"webdojo/internal/telemetry"

	"github.com/google/uuid"
)

// App is the explicit application context. It is built once at startup,
// loads progress once and saves after every committed change. The mutex
// keeps concurrent preview-server requests sequential.
type App struct {
	cfg Config

	mu sync.Mutex

	logger   Logger
	kv       state.KV
	catalog  *catalog.Catalog
	engine   *progress.Engine
	grader   grading.Grader
	sandbox  sandbox.Runner
	store    ProgressStore
	accounts *account.Accounts

	sessionID string
	progress  progress.Progress
}

func New(ctx context.Context, cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	logger, err := telemetry.NewJSONLogger(cfg.LogPath)
	if err != nil {
		return nil, err
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	kv, err := openKV(ctx, cfg)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	engine := progress.NewEngine(cat)
	a := &App{
		cfg:     cfg,
		logger:  logger,
		kv:      kv,
		catalog: cat,
		engine:  engine,
		grader:  grading.NewGrader(),
		sandbox: sandbox.NewManager(sandbox.Options{
			Timeout:      time.Duration(cfg.Sandbox.TimeoutMS) * time.Millisecond,
			MaxCallStack: cfg.Sandbox.MaxCallStack,
		}),
		store:     progress.NewStore(kv, engine.Defaults),
		accounts:  account.NewAccounts(kv),
		sessionID: uuid.NewString(),
	}

	p, err := a.store.Load(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.progress = engine.Normalize(p)

	a.logger.Info("app.start", map[string]any{
		"session":   a.sessionID,
		"store":     cfg.Store,
		"catalog":   cat.ID(),
		"completed": len(a.progress.CompletedChallenges),
	})
	return a, nil
}

func loadCatalog(cfg Config) (*catalog.Catalog, error) {
	loader := catalog.NewLoader()
	if cfg.CatalogDir != "" {
		return loader.LoadDir(cfg.CatalogDir)
	}
	return loader.LoadEmbedded()
}

func openKV(ctx context.Context, cfg Config) (state.KV, error) {
	switch cfg.Store {
	case StoreMemory:
		return state.NewMemory(), nil
	case StoreRedis:
		return state.NewRedis(ctx, state.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	default:
		kv, err := state.NewSQLite(filepath.Join(cfg.DataDir, "state.db"))
		if err != nil {
			return nil, err
		}
		if err := kv.EnsureSchema(ctx); err != nil {
			_ = kv.Close()
			return nil, err
		}
		return kv, nil
	}
}

func (a *App) Close() {
	a.logger.Info("app.stop", map[string]any{"session": a.sessionID})
	if a.kv != nil {
		_ = a.kv.Close()
	}
	_ = a.logger.Close()
}

func (a *App) Config() Config { return a.cfg }

func (a *App) SessionID() string { return a.sessionID }

func (a *App) Logger() Logger { return a.logger }

func (a *App) Catalog() *catalog.Catalog { return a.catalog }

func (a *App) Challenge(id int) (catalog.Challenge, error) {
	return a.catalog.Get(id)
}

func (a *App) Progress() progress.Progress {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.progress.Clone()
}

func (a *App) IsUnlocked(id int) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.IsUnlocked(id, a.progress)
}

func (a *App) Status(id int) (progress.Status, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Status(id, a.progress)
}

func (a *App) Next() (catalog.Challenge, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Next(a.progress)
}

func (a *App) Stats() progress.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.Stats(a.progress)
}

// Cards lists every challenge with its current status.
func (a *App) Cards() []Card {
	a.mu.Lock()
	defer a.mu.Unlock()
	all := a.catalog.Challenges()
	cards := make([]Card, 0, len(all))
	for _, ch := range all {
		st, _ := a.engine.Status(ch.ID, a.progress)
		cards = append(cards, Card{Challenge: ch, Status: st})
	}
	return cards
}

// Run renders the preview and captures the console. Script failures are
// reported in the output, never as an error.
func (a *App) Run(ctx context.Context, in sandbox.Input) sandbox.Run {
	run := a.sandbox.Run(ctx, in)
	fields := map[string]any{"elapsed_ms": run.Elapsed.Milliseconds(), "lines": len(run.Output.Lines)}
	if run.Output.Failed() {
		fields["error"] = run.Output.Err
		a.logger.Error("sandbox.error", fields)
	} else {
		a.logger.Info("sandbox.run", fields)
	}
	return run
}

// Submit validates a solution and, when it passes, records the completion
// and saves it before returning. The in-memory progress only changes once
// the save succeeded.
func (a *App) Submit(ctx context.Context, id int, in sandbox.Input) (SubmitResult, error) {
	if _, ok, err := a.accounts.Current(ctx); err != nil {
		return SubmitResult{}, err
	} else if !ok {
		return SubmitResult{}, ErrSignedOut
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	ch, err := a.catalog.Get(id)
	if err != nil {
		return SubmitResult{}, err
	}
	unlocked, err := a.engine.IsUnlocked(id, a.progress)
	if err != nil {
		return SubmitResult{}, err
	}
	if !unlocked {
		return SubmitResult{Challenge: ch}, fmt.Errorf("%w: challenge %d", progress.ErrLocked, id)
	}

	res := SubmitResult{Challenge: ch, Validation: a.grader.Validate(ch, in)}
	if !res.Validation.Passed {
		a.logger.Info("progress.rejected", map[string]any{"challenge_id": id})
		res.Progress = a.progress.Clone()
		return res, fmt.Errorf("%w: %s", ErrValidation, res.Validation.Message())
	}

	before := a.progress
	next, err := a.engine.Complete(id, before)
	if err != nil {
		return SubmitResult{}, err
	}
	res.AlreadyCompleted = before.Completed(id)
	if !res.AlreadyCompleted {
		if err := a.store.Save(ctx, next); err != nil {
			a.logger.Error("progress.save_failed", map[string]any{"challenge_id": id, "error": err.Error()})
			return SubmitResult{}, err
		}
		a.progress = next
		res.PointsAwarded = next.TotalPoints - before.TotalPoints
		res.NewAchievements = append([]string(nil), next.Achievements[len(before.Achievements):]...)
		a.logger.Info("progress.complete", map[string]any{
			"challenge_id": id,
			"points":       res.PointsAwarded,
			"total_points": next.TotalPoints,
			"level":        next.Level,
		})
	}
	res.Progress = a.progress.Clone()
	if n, ok := a.engine.Next(a.progress); ok {
		res.Next = &n
	}
	return res, nil
}

func (a *App) Theme(ctx context.Context) (Theme, error) {
	raw, _, err := a.kv.Get(ctx, state.KeyDarkMode)
	if err != nil {
		return ThemeLight, fmt.Errorf("load theme: %w", err)
	}
	return normalizeTheme(raw), nil
}

func (a *App) ToggleTheme(ctx context.Context) (Theme, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	cur, err := a.Theme(ctx)
	if err != nil {
		return cur, err
	}
	next := cur.Toggle()
	if err := a.kv.Set(ctx, state.KeyDarkMode, next.storedValue()); err != nil {
		return cur, fmt.Errorf("save theme: %w", err)
	}
	a.logger.Info("settings.theme", map[string]any{"theme": string(next)})
	return next, nil
}

func (a *App) Register(ctx context.Context, name, email, password string) (account.User, error) {
	u, err := a.accounts.Register(ctx, name, email, password)
	if err != nil {
		return u, err
	}
	a.logger.Info("account.register", map[string]any{"user_id": u.ID})
	return u, nil
}

func (a *App) SignIn(ctx context.Context, email, password string) (account.User, error) {
	u, err := a.accounts.SignIn(ctx, email, password)
	if err != nil {
		if !errors.Is(err, account.ErrInvalidCredentials) {
			a.logger.Error("account.signin_failed", map[string]any{"error": err.Error()})
		}
		return u, err
	}
	a.logger.Info("account.signin", map[string]any{"user_id": u.ID})
	return u, nil
}

func (a *App) SignOut(ctx context.Context) error {
	return a.accounts.SignOut(ctx)
}

func (a *App) CurrentUser(ctx context.Context) (account.User, bool, error) {
	return a.accounts.Current(ctx)
}

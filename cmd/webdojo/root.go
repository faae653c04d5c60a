package main

import (
	"errors"
	"fmt"
	"os"

	"webdojo/internal/account"
	"webdojo/internal/app"
	"webdojo/internal/catalog"
	"webdojo/internal/progress"
	"webdojo/internal/state"
	"webdojo/internal/ui"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

type cli struct {
	dataDir string
	store   string
	logPath string
	ascii   bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "webdojo",
		Short: "Twenty web development challenges in your terminal",
		Long: `webdojo walks through twenty HTML, CSS and JavaScript challenges in order.
Each challenge unlocks the next. Write your solution in files, preview it
with "webdojo run" or "webdojo serve", then hand it in with "webdojo submit".`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.dataDir, "data-dir", "", "directory for the local state database")
	pf.StringVar(&c.store, "store", "", "state backend: sqlite, redis or memory")
	pf.StringVar(&c.logPath, "log", "", "append JSON event logs to this file")
	pf.BoolVar(&c.ascii, "ascii", false, "draw without unicode glyphs")

	root.AddCommand(
		c.listCmd(),
		c.showCmd(),
		c.nextCmd(),
		c.runCmd(),
		c.submitCmd(),
		c.progressCmd(),
		c.signupCmd(),
		c.signinCmd(),
		c.signoutCmd(),
		c.whoamiCmd(),
		c.themeCmd(),
		c.serveCmd(),
	)
	return root
}

// config layers defaults, WEBDOJO_* variables and explicit flags.
func (c *cli) config(cmd *cobra.Command) (app.Config, error) {
	cfg := app.DefaultConfig()
	if err := cfg.LoadEnv(); err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = c.dataDir
	}
	if flags.Changed("store") {
		cfg.Store = c.store
	}
	if flags.Changed("log") {
		cfg.LogPath = c.logPath
	}
	if flags.Changed("ascii") {
		cfg.ASCIIOnly = c.ascii
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *cli) open(cmd *cobra.Command) (*app.App, error) {
	cfg, err := c.config(cmd)
	if err != nil {
		return nil, err
	}
	return app.New(cmd.Context(), cfg)
}

func (c *cli) renderer(cmd *cobra.Command, a *app.App) *ui.Renderer {
	th, err := a.Theme(cmd.Context())
	if err != nil {
		th = app.ThemeLight
	}
	return ui.NewRenderer(ui.Options{Dark: th.Dark(), ASCIIOnly: a.Config().ASCIIOnly, Width: terminalWidth(cmd)})
}

func terminalWidth(cmd *cobra.Command) int {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return 0
	}
	w, _, err := term.GetSize(f.Fd())
	if err != nil {
		return 0
	}
	return w
}

// friendlyError turns the error taxonomy into one line for the terminal.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return err.Error()
	case errors.Is(err, progress.ErrLocked):
		return "that challenge is locked, complete the previous one first"
	case errors.Is(err, app.ErrValidation):
		return err.Error()
	case errors.Is(err, app.ErrSignedOut):
		return "sign in first: webdojo signin --email you@example.com"
	case errors.Is(err, account.ErrInvalidCredentials), errors.Is(err, account.ErrEmailTaken), errors.Is(err, account.ErrMissingFields):
		return err.Error()
	case errors.Is(err, state.ErrStorage):
		return fmt.Sprintf("could not reach the state store: %v", err)
	default:
		return err.Error()
	}
}

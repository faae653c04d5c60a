package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"webdojo/internal/app"
	"webdojo/internal/preview"
	"webdojo/internal/sandbox"

	"github.com/spf13/cobra"
)

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all challenges with their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Fprintln(cmd.OutOrStdout(), c.renderer(cmd, a).ChallengeList(a.Cards()))
			return nil
		},
	}
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a challenge with its theory and example",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			ch, err := a.Challenge(id)
			if err != nil {
				return err
			}
			status, err := a.Status(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.renderer(cmd, a).Challenge(ch, status))
			return nil
		},
	}
}

func (c *cli) nextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the next challenge to work on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			ch, ok := a.Next()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "All challenges completed. Well done!")
				return nil
			}
			status, err := a.Status(ch.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.renderer(cmd, a).Challenge(ch, status))
			return nil
		},
	}
}

type inputFiles struct {
	markup string
	style  string
	script string
}

func (f *inputFiles) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.markup, "html", "", "file holding the HTML fragment")
	cmd.Flags().StringVar(&f.style, "css", "", "file holding the CSS fragment")
	cmd.Flags().StringVar(&f.script, "js", "", "file holding the JavaScript fragment")
}

func (f inputFiles) read() (sandbox.Input, error) {
	var in sandbox.Input
	for _, part := range []struct {
		path string
		dst  *string
	}{
		{f.markup, &in.Markup},
		{f.style, &in.Style},
		{f.script, &in.Script},
	} {
		if part.path == "" {
			continue
		}
		b, err := os.ReadFile(part.path)
		if err != nil {
			return sandbox.Input{}, err
		}
		*part.dst = string(b)
	}
	return in, nil
}

func (c *cli) runCmd() *cobra.Command {
	var files inputFiles
	var out string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compose a preview page and show the script's console output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := files.read()
			if err != nil {
				return err
			}
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			run := a.Run(cmd.Context(), in)
			if out != "" {
				if err := os.WriteFile(out, []byte(run.Document.HTML), 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Preview written to %s\n", out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.renderer(cmd, a).Console(run.Output))
			return nil
		},
	}
	files.bind(cmd)
	cmd.Flags().StringVar(&out, "out", "", "write the composed preview page to this file")
	return cmd
}

func (c *cli) submitCmd() *cobra.Command {
	var files inputFiles
	cmd := &cobra.Command{
		Use:   "submit <id>",
		Short: "Hand in a solution for a challenge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			in, err := files.read()
			if err != nil {
				return err
			}
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			r := c.renderer(cmd, a)
			res, err := a.Submit(cmd.Context(), id, in)
			if errors.Is(err, app.ErrValidation) {
				fmt.Fprintln(cmd.OutOrStdout(), r.Rejected(res.Validation))
				return err
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), r.Submitted(res))
			return nil
		},
	}
	files.bind(cmd)
	return cmd
}

func (c *cli) progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show points, level, skills and achievements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			u, ok, err := a.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			user := &u
			if !ok {
				user = nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.renderer(cmd, a).Dashboard(a.Progress(), a.Stats(), user))
			return nil
		},
	}
}

func (c *cli) signupCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				p, err := readSecret(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = p
			}
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			u, err := a.Register(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created successfully! Signed in as %s.\n", u.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (read from stdin when omitted)")
	return cmd
}

func (c *cli) signinCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in to an existing account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				p, err := readSecret(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = p
			}
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			u, err := a.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome back, %s!\n", u.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (read from stdin when omitted)")
	return cmd
}

func (c *cli) signoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			u, ok, err := a.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", u.Name, u.Email)
			return nil
		},
	}
}

func (c *cli) themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the colour theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()
			th, err := a.Theme(ctx)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				want := args[0]
				switch want {
				case "toggle":
					want = string(th.Toggle())
				case string(app.ThemeLight), string(app.ThemeDark):
				default:
					return fmt.Errorf("unknown theme %q", want)
				}
				if want != string(th) {
					if th, err = a.ToggleTheme(ctx); err != nil {
						return err
					}
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", th)
			return nil
		},
	}
}

func (c *cli) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the challenges and sandboxed previews on localhost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.config(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Preview.Addr = addr
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (Ctrl+C to stop)\n", cfg.Preview.Addr)
			return preview.NewServer(a, a.Logger(), cfg.Preview.Keep).ListenAndServe(cmd.Context(), cfg.Preview.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "loopback address to listen on")
	return cmd
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(s), "day-"))
	if err != nil {
		return 0, fmt.Errorf("challenge id must be a number, got %q", s)
	}
	return id, nil
}

func readSecret(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

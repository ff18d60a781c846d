package cli

import (
	"bufio"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/lovedhomes/internal/auth"
	"github.com/idilsaglam/lovedhomes/internal/ui"
)

func newAuthCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the bearer token sent to the backend",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "login [token]",
			Short: "Store a token (read from stdin when omitted)",
			Args:  usageArgs(cobra.MaximumNArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				token := ""
				if len(args) == 1 {
					token = args[0]
				} else {
					line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
					if err != nil && line == "" {
						return usagef(errors.New("auth login: no token given"))
					}
					token = line
				}
				if strings.TrimSpace(token) == "" {
					return usagef(errors.New("auth login: empty token"))
				}
				if err := auth.SetToken(token); err != nil {
					return fmt.Errorf("auth login: %w", err)
				}
				ui.OK(cmd.OutOrStdout(), "token saved")
				return nil
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Forget the stored token",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := auth.DeleteToken(); err != nil {
					return fmt.Errorf("auth logout: %w", err)
				}
				ui.OK(cmd.OutOrStdout(), "logged out")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show where the token comes from",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, _ []string) error {
				w := cmd.OutOrStdout()
				lines := []string{ui.Heading(w, "Auth"), ""}
				switch ti, err := auth.GetToken(); {
				case err != nil:
					return fmt.Errorf("auth status: %w", err)
				case e.cfg.Token != "":
					lines = append(lines, "token from config, flag or LOVEDHOMES_TOKEN: "+mask(e.cfg.Token))
				case ti == nil:
					lines = append(lines, ui.Muted(w, "not logged in"))
				default:
					line := fmt.Sprintf("token from %s: %s", ti.Source, mask(ti.Token))
					if !ti.CreatedAt.IsZero() {
						line += ui.Muted(w, " (saved "+ti.CreatedAt.Format("2006-01-02 15:04")+")")
					}
					lines = append(lines, line)
					if ti.ExpiresAt != nil {
						lines = append(lines, "expires: "+ti.ExpiresAt.UTC().Format(time.RFC3339))
					} else {
						lines = append(lines, "expires: (unknown)")
					}
				}
				lines = append(lines, "backend: "+e.cfg.BackendURL)
				ui.Panel(w, lines)
				return nil
			},
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Decode the stored JWT locally (unsigned)",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, _ []string) error {
				token := e.cfg.Token
				if token == "" {
					ti, err := auth.GetToken()
					if err != nil {
						return fmt.Errorf("auth whoami: %w", err)
					}
					if ti == nil {
						return usagef(errors.New("not logged in. Run: lovedhomes auth login"))
					}
					token = ti.Token
				}
				w := cmd.OutOrStdout()
				claims, ok := auth.Claims(token)
				if !ok {
					fmt.Fprintln(w, "Opaque token (cannot introspect locally).")
					return nil
				}
				keys := make([]string, 0, len(claims))
				for k := range claims {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				lines := []string{ui.Heading(w, "JWT payload"), ""}
				for _, k := range keys {
					lines = append(lines, fmt.Sprintf("%s: %v", k, claims[k]))
				}
				ui.Panel(w, lines)
				return nil
			},
		},
	)
	return cmd
}

// mask keeps the last four characters of a token.
func mask(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}

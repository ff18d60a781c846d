package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/lovedhomes/internal/photo"
	"github.com/idilsaglam/lovedhomes/internal/tui"
)

func newTUICmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive client (the default)",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  func(cmd *cobra.Command, _ []string) error { return e.startTUI(cmd) },
	}
}

func (e *env) startTUI(cmd *cobra.Command) error {
	previewer, err := photo.NewPreviewer(photo.DefaultCacheSize)
	if err != nil {
		return err
	}
	deps := tui.Deps{
		Directory: e.directory(),
		Session:   e.session,
		Previewer: previewer,
		Logger:    e.l,
	}
	e.l.Infof(cmd.Context(), "cli: starting interactive client against %s", e.cfg.BackendURL)
	if err := e.runTUI(cmd.Context(), deps); err != nil {
		return fmt.Errorf("interactive client: %w", err)
	}
	return nil
}

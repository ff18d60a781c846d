package cli

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/lovedhomes/internal/api"
	"github.com/idilsaglam/lovedhomes/internal/auth"
	"github.com/idilsaglam/lovedhomes/internal/checklist"
	"github.com/idilsaglam/lovedhomes/internal/config"
	"github.com/idilsaglam/lovedhomes/internal/directory"
	"github.com/idilsaglam/lovedhomes/internal/model"
	"github.com/idilsaglam/lovedhomes/internal/tui"
	"github.com/idilsaglam/lovedhomes/internal/ui"
	"github.com/idilsaglam/lovedhomes/pkg/log"
)

// env carries what every command needs. It is filled by the root command's
// PersistentPreRunE once flags are parsed.
type env struct {
	stdout, stderr io.Writer
	stdin          io.Reader

	configFile string
	noColor    bool

	cfg    *config.Config
	l      log.Logger
	client *api.Client

	// runTUI starts the interactive client.
	runTUI func(ctx context.Context, deps tui.Deps) error
}

func newEnv(stdout, stderr io.Writer) *env {
	return &env{
		stdout: stdout,
		stderr: stderr,
		stdin:  os.Stdin,
		runTUI: func(ctx context.Context, deps tui.Deps) error { return tui.Run(ctx, deps) },
	}
}

func (e *env) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(config.Options{File: e.configFile, Flags: cmd.Flags()})
	if err != nil {
		return err
	}
	e.cfg = cfg

	if err := ui.SetTheme(cfg.UI.Theme); err != nil {
		return err
	}
	ui.SetColorForcing(false, e.noColor)

	e.l = log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
		OutputPath:   cfg.Logger.File,
	})

	token := cfg.Token
	if token == "" {
		ti, err := auth.GetToken()
		if err != nil {
			e.l.Warnf(cmd.Context(), "cli: ignoring stored token: %v", err)
		} else if ti != nil {
			token = ti.Token
		}
	}

	e.client = api.New(cfg.BackendURL,
		api.WithToken(token),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRateLimit(cfg.API.RateLimit),
		api.WithLogger(e.l),
	)

	// one id per invocation ties the log lines of a command together
	ctx := log.WithRequestID(cmd.Context(), "cli-"+uuid.NewString())
	cmd.SetContext(ctx)
	e.l.Debugf(ctx, "cli: %s against %s", cmd.CommandPath(), cfg.BackendURL)
	return nil
}

func (e *env) close() {
	if e.l != nil {
		_ = e.l.Sync()
	}
}

func (e *env) directory() *directory.Directory {
	return directory.New(e.client, e.l)
}

func (e *env) session(p model.Property) *checklist.Session {
	return checklist.NewSession(e.client, p, e.l, checklist.WithFlat(e.cfg.Checklist.Flat))
}

func newRoot(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "lovedhomes",
		Short: "Loved Homes: vacation homes and their checklists",
		Long: `Loved Homes keeps a list of vacation homes and a checklist for each one.

Run without a command to open the interactive client.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              usageArgs(cobra.NoArgs),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return e.setup(cmd) },
		RunE:              func(cmd *cobra.Command, _ []string) error { return e.startTUI(cmd) },
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usagef(err) })

	pf := root.PersistentFlags()
	pf.StringVar(&e.configFile, "config", "", "config file (default: ./config.yaml or ~/.lovedhomes/config.yaml)")
	pf.String("backend-url", "", "backend base URL (default http://localhost:8000)")
	pf.String("token", "", "bearer token sent to the backend")
	pf.Bool("flat", false, "show checklists as a flat list of items")
	pf.String("theme", "", "color theme: classic, neon or mono")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.String("log-file", "", "log file (default ~/.lovedhomes/lovedhomes.log)")
	pf.BoolVar(&e.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newListCmd(e),
		newAddCmd(e),
		newChecklistCmd(e),
		newAuthCmd(e),
		newTUICmd(e),
	)
	return root
}

// usageArgs turns argument validation failures into usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return usagef(fn(cmd, args))
	}
}

// Package cli is the lovedhomes command line: a cobra command tree over the
// property directory and checklist sessions, plus the interactive client.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/idilsaglam/lovedhomes/internal/ui"
)

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// usageError marks bad invocations (wrong arguments, unknown flags or
// commands) so Run can answer with ExitUsage.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(err error) error {
	if err == nil {
		return nil
	}
	return usageError{err: err}
}

// Run executes the command line and returns an exit code (0 ok, 1 error,
// 2 usage).
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return run(ctx, newEnv(stdout, stderr), args)
}

func run(ctx context.Context, e *env, args []string) int {
	root := newRoot(e)
	root.SetArgs(args)
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)
	root.SetIn(e.stdin)

	err := root.ExecuteContext(ctx)
	e.close()
	if err == nil {
		return ExitOK
	}

	ui.Fail(e.stderr, err.Error())
	var ue usageError
	if errors.As(err, &ue) {
		return ExitUsage
	}
	return ExitError
}

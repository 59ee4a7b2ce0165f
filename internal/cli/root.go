// Package cli implements the tofico command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ficrammanifur/tofico-analyzer-backend/internal/config"
	"github.com/ficrammanifur/tofico-analyzer-backend/internal/paths"
	"github.com/ficrammanifur/tofico-analyzer-backend/internal/storage"
	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/matrix"
	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values shared by all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	driver    string
	jsonMode  bool
}

// app carries the parsed flags from the root command to its subcommands.
type app struct {
	flags rootFlags
	// opts are appended to the Service options; tests use them to inject
	// observers.
	opts []matrix.Option
}

// usageError marks malformed invocations so they exit with exitUserError.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// NewRootCmd creates the top-level "tofico" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "tofico",
		Short: "Location scoring matrix for multi-criteria site analysis",
		Long: "tofico stores candidate locations, weighted benefit/cost criteria and the\n" +
			"0-100 scores between them, and serves them over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir, or $"+paths.EnvConfigDir+")")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory for the sqlite driver (default: ./"+paths.DefaultDataDirName+")")
	pf.StringVar(&a.flags.driver, "driver", "", "storage driver: sqlite, postgres or memory")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(a),
		newInitCmd(a),
		newServeCmd(a),
		newHealthCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newLocationCmd(a),
		newCriterionCmd(a),
		newEvaluationCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the mapped code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps request problems to exitUserError and everything else to
// exitSysError.
func exitCode(err error) int {
	var usage usageError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &usage), types.IsCallerError(err):
		return exitUserError
	default:
		return exitSysError
	}
}

// exactArgs is cobra.ExactArgs with usage classification.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// loadConfig resolves the config directory and reads the effective
// configuration.
func (a *app) loadConfig() (types.Config, string, error) {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return types.Config{}, "", fmt.Errorf("resolve config dir: %w", err)
	}
	cfg, err := config.Load(configDir, config.Overrides{Driver: a.flags.driver, DataDir: a.flags.dataDir})
	if err != nil {
		if errors.Is(err, types.ErrDriverUnknown) || errors.Is(err, types.ErrPostgresDSNEmpty) {
			return types.Config{}, "", usageError{err}
		}
		return types.Config{}, "", err
	}
	return cfg, configDir, nil
}

// session is an open store with the core service on top.
type session struct {
	cfg    types.Config
	store  types.Store
	svc    *matrix.Service
	logger *slog.Logger
}

func (s *session) Close() error { return s.store.Close() }

// open loads configuration, opens the store and builds the service. The
// caller must Close the session.
func (a *app) open(ctx context.Context, cmd *cobra.Command, extra ...matrix.Option) (*session, error) {
	cfg, _, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, usageError{err}
	}

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts := []matrix.Option{matrix.WithLogger(logger), matrix.WithLimits(cfg.Limits)}
	opts = append(opts, a.opts...)
	opts = append(opts, extra...)
	svc, err := matrix.New(store, opts...)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	logger.DebugContext(ctx, "store opened", "driver", cfg.Driver, "data_dir", cfg.DataDir)
	return &session{cfg: cfg, store: store, svc: svc, logger: logger}, nil
}

// withSession opens a session, runs fn and closes the session.
func (a *app) withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := a.open(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ficrammanifur/tofico-analyzer-backend/internal/config"
	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/matrix"
	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

type initResult struct {
	ConfigDir     string             `json:"config_dir"`
	DataDir       string             `json:"data_dir,omitempty"`
	Driver        string             `json:"driver"`
	ConfigWritten bool               `json:"config_written"`
	Seeded        *matrix.SeedReport `json:"seeded,omitempty"`
}

func newInitCmd(a *app) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize tofico storage",
		Long: "Create the configuration and data directories, pin the driver in config.yaml\n" +
			"and apply the schema migrations. With --seed, also create the built-in\n" +
			"criteria set; criteria that already exist are left as they are.",
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, configDir, err := a.loadConfig()
			if err != nil {
				return err
			}

			res := initResult{ConfigDir: configDir, Driver: cfg.Driver}
			dataDir := ""
			if cfg.Driver == types.DriverSQLite {
				dataDir = cfg.DataDir
				res.DataDir = dataDir
				if err := os.MkdirAll(dataDir, 0o755); err != nil {
					return fmt.Errorf("create data directory: %w", err)
				}
			}

			res.ConfigWritten, err = config.WriteConfig(configDir, cfg.Driver, dataDir)
			if err != nil {
				return err
			}

			// Opening the store applies the migrations.
			err = a.withSession(cmd, func(ctx context.Context, s *session) error {
				if !seed {
					return nil
				}
				report, err := s.svc.Criteria.Seed(ctx, matrix.DefaultCriteria())
				if err != nil {
					return fmt.Errorf("seed criteria: %w", err)
				}
				res.Seeded = &report
				return nil
			})
			if err != nil {
				return err
			}

			return a.render(cmd.OutOrStdout(), res, func(w io.Writer) error {
				if res.Seeded != nil {
					if _, err := fmt.Fprintf(w, "seeded %d criteria (%d already present)\n",
						res.Seeded.Created, res.Seeded.Skipped); err != nil {
						return err
					}
				}
				_, err := fmt.Fprintln(w, "tofico initialized successfully")
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "create the built-in criteria set")
	return cmd
}

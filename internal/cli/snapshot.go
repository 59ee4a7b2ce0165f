package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ficrammanifur/tofico-analyzer-backend/internal/snapshot"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write criteria.jsonl and locations.jsonl to a directory",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				report, err := snapshot.Export(ctx, s.svc, args[0])
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), report, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "exported %d criteria and %d locations to %s\n",
						report.Criteria, report.Locations, args[0])
					return err
				})
			})
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Load criteria.jsonl and locations.jsonl from a directory",
		Long: "Import creates the criteria and locations found in dir. Existing criterion ids\n" +
			"are skipped, locations always get new ids, and fractional scores are rounded.",
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				report, err := snapshot.Import(ctx, s.svc, args[0])
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), report, func(w io.Writer) error {
					fmt.Fprintf(w, "criteria: %d created, %d skipped\n", report.CriteriaCreated, report.CriteriaSkipped)
					fmt.Fprintf(w, "locations: %d created, %d scores\n", report.LocationsCreated, report.ValuesImported)
					if report.MalformedLines > 0 {
						fmt.Fprintf(w, "malformed lines: %d\n", report.MalformedLines)
					}
					for _, r := range report.Rejected {
						fmt.Fprintf(w, "rejected: %s\n", r)
					}
					return nil
				})
			})
		},
	}
}

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the configured store answers",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				h := s.svc.Health(ctx)
				if err := a.render(cmd.OutOrStdout(), h, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "status: %s\ndatabase: %s\n", h.Status, h.Database)
					return err
				}); err != nil {
					return err
				}
				if !h.Healthy() {
					return &types.StoreError{Op: "health", Unavailable: true}
				}
				return nil
			})
		},
	}
}

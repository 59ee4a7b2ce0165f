package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

func newCriterionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "criterion",
		Aliases: []string{"criteria"},
		Short:   "Manage weighted criteria",
	}
	cmd.AddCommand(
		newCriterionListCmd(a),
		newCriterionGetCmd(a),
		newCriterionCreateCmd(a),
		newCriterionUpdateCmd(a),
		newCriterionDeleteCmd(a),
	)
	return cmd
}

func newCriterionListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List criteria",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				criteria, err := s.svc.Criteria.List(ctx)
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), criteria, func(w io.Writer) error {
					return table(w, criterionHeader, criterionRows(criteria))
				})
			})
		},
	}
}

func newCriterionGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one criterion",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				c, err := s.svc.Criteria.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), c, func(w io.Writer) error {
					return table(w, criterionHeader, criterionRows([]types.Criterion{c}))
				})
			})
		},
	}
}

func newCriterionCreateCmd(a *app) *cobra.Command {
	var (
		in  types.Criterion
		typ string
	)
	cmd := &cobra.Command{
		Use:   "create <id>",
		Short: "Create a criterion",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.ID = args[0]
			in.Type = types.CriterionType(typ)
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				c, err := s.svc.Criteria.Create(ctx, in)
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), c, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "created criterion %s\n", c.ID)
					return err
				})
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "display name")
	f.Float64Var(&in.Weight, "weight", 0, "weight in [0,1]")
	f.StringVar(&typ, "type", string(types.CriterionBenefit), "benefit or cost")
	return cmd
}

func newCriterionUpdateCmd(a *app) *cobra.Command {
	var (
		name, typ string
		weight    float64
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a criterion",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var changes types.CriterionChanges
			f := cmd.Flags()
			if f.Changed("name") {
				changes.Name = &name
			}
			if f.Changed("weight") {
				changes.Weight = &weight
			}
			if f.Changed("type") {
				t := types.CriterionType(typ)
				changes.Type = &t
			}
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				c, err := s.svc.Criteria.Update(ctx, args[0], changes)
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), c, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "updated criterion %s\n", c.ID)
					return err
				})
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "new name")
	f.Float64Var(&weight, "weight", 0, "new weight")
	f.StringVar(&typ, "type", "", "new type: benefit or cost")
	return cmd
}

func newCriterionDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a criterion and its scores",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				if err := s.svc.Criteria.Delete(ctx, args[0]); err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), map[string]string{"deleted": args[0]}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "deleted criterion %s\n", args[0])
					return err
				})
			})
		},
	}
}

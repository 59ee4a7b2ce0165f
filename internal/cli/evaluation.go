package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

func newEvaluationCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "evaluation",
		Aliases: []string{"evaluations", "eval"},
		Short:   "Manage location scores",
	}
	cmd.AddCommand(
		newEvaluationListCmd(a),
		newEvaluationSetCmd(a),
		newEvaluationDeleteCmd(a),
	)
	return cmd
}

func newEvaluationListCmd(a *app) *cobra.Command {
	var location string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scores joined with location and criterion names",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if location != "" {
				id, err := parseLocationID(location)
				if err != nil {
					return err
				}
				return a.withSession(cmd, func(ctx context.Context, s *session) error {
					scores, err := s.svc.Evaluations.ForLocation(ctx, id)
					if err != nil {
						return err
					}
					return a.render(cmd.OutOrStdout(), scores, func(w io.Writer) error {
						_, err := fmt.Fprintln(w, formatScores(scores))
						return err
					})
				})
			}
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				records, err := s.svc.Views.Evaluations(ctx)
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), records, func(w io.Writer) error {
					rows := make([][]string, 0, len(records))
					for _, r := range records {
						rows = append(rows, []string{
							r.LocationName, r.CriterionID, r.CriterionName,
							string(r.CriterionType), strconv.Itoa(r.Value),
						})
					}
					return table(w, "LOCATION\tCRITERION\tNAME\tTYPE\tVALUE", rows)
				})
			})
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "only the scores of this location id")
	return cmd
}

func newEvaluationSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <location-id> <criterion-id> <value>",
		Short: "Set the score of a location for a criterion",
		Args:  exactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLocationID(args[0])
			if err != nil {
				return err
			}
			value, err := strconv.Atoi(args[2])
			if err != nil {
				return &types.ValidationError{Field: "value", Reason: "must be an integer"}
			}
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				e, err := s.svc.Evaluations.Upsert(ctx, id, args[1], value)
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), e, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "location %d %s = %d\n", e.LocationID, e.CriterionID, e.Value)
					return err
				})
			})
		},
	}
}

func newEvaluationDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <location-id> <criterion-id>",
		Short: "Remove one score",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLocationID(args[0])
			if err != nil {
				return err
			}
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				if err := s.svc.Evaluations.Remove(ctx, id, args[1]); err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), map[string]any{"location_id": id, "criteria_id": args[1]}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "deleted score %d/%s\n", id, args[1])
					return err
				})
			})
		},
	}
}

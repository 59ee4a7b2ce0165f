package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

func newLocationCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "location",
		Aliases: []string{"locations", "loc"},
		Short:   "Manage candidate locations",
	}
	cmd.AddCommand(
		newLocationListCmd(a),
		newLocationGetCmd(a),
		newLocationCreateCmd(a),
		newLocationUpdateCmd(a),
		newLocationDeleteCmd(a),
	)
	return cmd
}

func parseLocationID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &types.ValidationError{Field: "location id", Reason: "must be an integer"}
	}
	return id, nil
}

func newLocationListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List locations with their scores",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				views, err := s.svc.Views.Locations(ctx)
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), views, func(w io.Writer) error {
					return table(w, locationHeader, locationRows(views))
				})
			})
		},
	}
}

func newLocationGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one location with its scores",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLocationID(args[0])
			if err != nil {
				return err
			}
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				view, err := s.svc.Views.Location(ctx, id)
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), view, func(w io.Writer) error {
					return table(w, locationHeader, locationRows([]types.LocationView{view}))
				})
			})
		},
	}
}

func newLocationCreateCmd(a *app) *cobra.Command {
	var in types.NewLocation
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a location",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				loc, err := s.svc.Locations.Create(ctx, in)
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), loc, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "created location %d\n", loc.ID)
					return err
				})
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "location name")
	f.StringVar(&in.Address, "address", "", "street address")
	f.Float64Var(&in.Latitude, "lat", 0, "latitude")
	f.Float64Var(&in.Longitude, "lon", 0, "longitude")
	return cmd
}

func newLocationUpdateCmd(a *app) *cobra.Command {
	var (
		name, address string
		lat, lon      float64
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a location",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLocationID(args[0])
			if err != nil {
				return err
			}
			var changes types.LocationChanges
			f := cmd.Flags()
			if f.Changed("name") {
				changes.Name = &name
			}
			if f.Changed("address") {
				changes.Address = &address
			}
			if f.Changed("lat") {
				changes.Latitude = &lat
			}
			if f.Changed("lon") {
				changes.Longitude = &lon
			}
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				loc, err := s.svc.Locations.Update(ctx, id, changes)
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), loc, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "updated location %d\n", loc.ID)
					return err
				})
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "new name")
	f.StringVar(&address, "address", "", "new address")
	f.Float64Var(&lat, "lat", 0, "new latitude")
	f.Float64Var(&lon, "lon", 0, "new longitude")
	return cmd
}

func newLocationDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a location and its scores",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLocationID(args[0])
			if err != nil {
				return err
			}
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				if err := s.svc.Locations.Delete(ctx, id); err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), map[string]int64{"deleted": id}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "deleted location %d\n", id)
					return err
				})
			})
		},
	}
}

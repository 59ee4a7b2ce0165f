package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/ficrammanifur/tofico-analyzer-backend"

// Version is the release version. Builds may override it with
// -ldflags "-X .../internal/cli.Version=...".
var Version = "2.0.0"

type versionInfo struct {
	Version string `json:"version"`
	Module  string `json:"module"`
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tofico version",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versionInfo{Version: Version, Module: modulePath}
			return a.render(cmd.OutOrStdout(), info, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "tofico v%s\nmodule: %s\n", info.Version, info.Module)
				return err
			})
		},
	}
}

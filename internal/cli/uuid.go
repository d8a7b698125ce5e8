package cli

import (
	"fmt"
	"os"

	"github.com/David-Antunes/gone-netfile/internal/netfile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) uuidCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uuid [host]",
		Short: "Print the UUID generated for a host (default: this host)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var host string
			if len(args) == 1 {
				host = args[0]
			} else {
				h, err := os.Hostname()
				if err != nil {
					return err
				}
				host = h
				a.log.Debug("using local hostname", zap.String("host", host))
			}
			fmt.Fprintln(cmd.OutOrStdout(), netfile.HostUUID(host))
			return nil
		},
	}
}

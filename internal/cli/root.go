// Package cli defines the gone-netfile command line.
//
// Commands
//
//   - build    Write the network file for the configured experiment
//   - uuid     Print the UUID a broker derives from a host name
//   - version  Print version info
package cli

import (
	"github.com/David-Antunes/gone-netfile/internal/config"
	"github.com/David-Antunes/gone-netfile/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var Version = "dev"

type app struct {
	v          *viper.Viper
	log        *zap.Logger
	configPath string
	level      string
}

func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "gone-netfile",
		Short:         "Generate broker network reliability files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(cmd.ErrOrStderr(), a.level)
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultConfigFile, "settings file (yaml, json, toml or .env)")
	root.PersistentFlags().StringVarP(&a.level, "verbose", "v", "info", "log level (debug, info, warn, error)")

	root.AddCommand(a.buildCmd(), a.uuidCmd(), a.versionCmd())
	return root
}

func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		return err
	}
	return nil
}

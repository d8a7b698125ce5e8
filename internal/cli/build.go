package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/David-Antunes/gone-netfile/internal/config"
	"github.com/David-Antunes/gone-netfile/internal/netfile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) buildCmd() *cobra.Command {
	var (
		channels     []string
		hostChannels []string
		noHeader     bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write the network file",
		Long: "Write the network file for the configured experiment. Channels given\n" +
			"with --channel or --host-channel follow the ones from the settings file;\n" +
			"a channel already present keeps its position and takes the new value.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgLog := a.log.Named("config")
			s, err := config.Load(a.v, a.configPath, cmd.Flags().Changed("config"), cfgLog)
			if err != nil {
				return err
			}
			config.PrintSettings(a.v, cfgLog)

			if noHeader {
				s.Header = false
			}

			out := s.Channels()
			for _, arg := range channels {
				id, r, err := parseChannelFlag(s, "--channel", arg)
				if err != nil {
					return err
				}
				out.Set(id, r)
			}
			for _, arg := range hostChannels {
				host, r, err := parseChannelFlag(s, "--host-channel", arg)
				if err != nil {
					return err
				}
				out.Set(netfile.HostUUID(host), r)
			}

			doc, err := netfile.NewBuilder(s.BuilderOptions()...).Build(s.Inbound(), out)
			if err != nil {
				return err
			}

			log := a.log.Named("netfile")
			if s.Output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), doc)
			} else {
				if err := writeFile(s.Output, []byte(doc+"\n"), 0o644); err != nil {
					return fmt.Errorf("writing network file: %w", err)
				}
			}
			log.Info("network file written", zap.String("output", outputName(s.Output)), zap.Int("channels", out.Len()))
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64("incoming", 0, "reliability of the listening socket (default fully reliable: 1.0, or 100 with --format percent)")
	f.String("format", config.FormatFraction, "reliability format (fraction or percent)")
	f.String("indent", "", "indentation per level, empty for a single line")
	f.StringP("out", "o", "", "output file (default stdout)")
	f.StringArrayVar(&channels, "channel", nil, "outbound channel as uuid=reliability (repeatable)")
	f.StringArrayVar(&hostChannels, "host-channel", nil, "outbound channel as host=reliability, uuid derived from host (repeatable)")
	f.BoolVar(&noHeader, "no-header", false, "omit the XML declaration")

	cobra.CheckErr(bindFlags(a.v, f,
		flagBinding{key: "incoming", flag: "incoming"},
		flagBinding{key: "format", flag: "format"},
		flagBinding{key: "indent", flag: "indent"},
		flagBinding{key: "output", flag: "out"},
	))

	return cmd
}

func parseChannelFlag(s *config.Settings, flag, arg string) (string, netfile.Reliability, error) {
	id, value, ok := strings.Cut(arg, "=")
	if !ok || id == "" {
		return "", nil, fmt.Errorf("%s %q: expected name=reliability", flag, arg)
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return "", nil, fmt.Errorf("%s %q: %w", flag, arg, err)
	}
	r, err := s.ParseReliability(flag+" "+id, f)
	if err != nil {
		return "", nil, err
	}
	return id, r, nil
}

func outputName(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}

package config

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/David-Antunes/gone-netfile/internal/netfile"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	DefaultConfigFile = "netfile.yaml"
	EnvPrefix         = "NETFILE"

	FormatFraction = "fraction"
	FormatPercent  = "percent"
)

var ErrDuplicateChannel = errors.New("duplicate channel")

var validate = validator.New()

// Channel is one outbound channel. Exactly one of UUID and Host is set; a
// host is turned into its DNS-derived UUID.
type Channel struct {
	UUID        string  `mapstructure:"uuid" validate:"required_without=Host,excluded_with=Host"`
	Host        string  `mapstructure:"host" validate:"omitempty,hostname_rfc1123"`
	Reliability float64 `mapstructure:"reliability" validate:"gte=0"`
}

func (c Channel) ID() string {
	if c.Host != "" {
		return netfile.HostUUID(c.Host)
	}
	return c.UUID
}

type Settings struct {
	Incoming float64   `mapstructure:"incoming" validate:"gte=0"`
	Format   string    `mapstructure:"format" validate:"oneof=fraction percent"`
	Indent   string    `mapstructure:"indent"`
	Header   bool      `mapstructure:"header"`
	Output   string    `mapstructure:"output"`
	Outgoing []Channel `mapstructure:"outgoing" validate:"dive"`
}

// SetDefaults sets every default except incoming, which depends on the
// format and is filled in by Load.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("format", FormatFraction)
	v.SetDefault("indent", "")
	v.SetDefault("header", true)
	v.SetDefault("output", "")
}

// Load reads settings from defaults, the config file at path and NETFILE_*
// environment variables, in increasing precedence. A config file that cannot
// be read is an error only when required is set.
func Load(v *viper.Viper, path string, required bool, log *zap.Logger) (*Settings, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if required {
				return nil, fmt.Errorf("unable to load config file %s: %w", path, err)
			}
			log.Info("config file not loaded, skipping", zap.String("file", path), zap.Error(err))
		} else {
			log.Info("config file loaded", zap.String("file", path))
		}
	}

	// The format is final only once the file and environment are read.
	v.SetDefault("incoming", DefaultIncoming(v.GetString("format")))

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultIncoming is a fully reliable listening socket in the given format.
func DefaultIncoming(format string) float64 {
	if format == FormatPercent {
		return 100
	}
	return 1.0
}

// PrintSettings logs every effective setting in key order.
func PrintSettings(v *viper.Viper, log *zap.Logger) {
	settings := v.AllSettings()
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		log.Info("setting", zap.String("key", k), zap.Any("value", settings[k]))
	}
}

func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	if err := s.checkRange("incoming", s.Incoming); err != nil {
		return err
	}

	seen := make(map[string]int, len(s.Outgoing))
	for i, c := range s.Outgoing {
		if err := s.checkRange(fmt.Sprintf("outgoing[%d]", i), c.Reliability); err != nil {
			return err
		}
		id := c.ID()
		if j, ok := seen[id]; ok {
			return fmt.Errorf("outgoing[%d] and outgoing[%d] both name %s: %w", j, i, id, ErrDuplicateChannel)
		}
		seen[id] = i
	}
	return nil
}

func (s *Settings) checkRange(field string, r float64) error {
	switch s.Format {
	case FormatPercent:
		if r < 0 || r > 100 || r != math.Trunc(r) {
			return fmt.Errorf("%s: percent reliability must be a whole number between 0 and 100, got %v", field, r)
		}
	default:
		if r < 0 || r > 1 {
			return fmt.Errorf("%s: reliability must be between 0 and 1, got %v", field, r)
		}
	}
	return nil
}

func (s *Settings) reliability(r float64) netfile.Reliability {
	if s.Format == FormatPercent {
		return netfile.Percent(int(r))
	}
	return netfile.Float(r)
}

func (s *Settings) Inbound() netfile.Reliability {
	return s.reliability(s.Incoming)
}

// Channels returns the outbound channels in file order.
func (s *Settings) Channels() *netfile.ChannelMap {
	channels := netfile.NewChannelMap()
	for _, c := range s.Outgoing {
		channels.Set(c.ID(), s.reliability(c.Reliability))
	}
	return channels
}

// ParseReliability converts a command line value using the settings' format.
func (s *Settings) ParseReliability(field string, r float64) (netfile.Reliability, error) {
	if err := s.checkRange(field, r); err != nil {
		return nil, err
	}
	return s.reliability(r), nil
}

func (s *Settings) BuilderOptions() []netfile.Option {
	return []netfile.Option{
		netfile.WithIndent("", s.Indent),
		netfile.WithHeader(s.Header),
	}
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := e.Namespace()
		switch e.Tag() {
		case "required_without":
			return fmt.Errorf("%s: required when %s is not set", field, e.Param())
		case "excluded_with":
			return fmt.Errorf("%s: cannot be combined with %s", field, e.Param())
		case "gte":
			return fmt.Errorf("%s: must be at least %s", field, e.Param())
		case "oneof":
			return fmt.Errorf("%s: must be one of %s", field, e.Param())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}

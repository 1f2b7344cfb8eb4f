package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/zerr"
)

// EnvPrefix prefixes every environment variable read by Settings.
const EnvPrefix = "HOTSWAP"

// Viper keys.
const (
	KeyWatchDebounce  = "watch.debounce"
	KeySimulationTick = "simulation.tick"
	KeyLogFormat      = "log.format"
	KeyLogFile        = "log.file"
	KeyMetricsAddress = "metrics.address"
)

// Option describes a single setting: its viper key, the CLI flag bound to it,
// the compiled default and the help text.
type Option struct {
	Key         string
	Flag        string
	Default     any
	Description string
}

// WatchOptions are the settings of the watch command.
var WatchOptions = []Option{
	{Key: KeyWatchDebounce, Flag: "debounce", Default: domain.DefaultDebounceWindow, Description: "Settle interval between change checks"},
	{Key: KeySimulationTick, Flag: "tick", Default: domain.DefaultTickInterval, Description: "Simulation tick interval"},
	{Key: KeyMetricsAddress, Flag: "metrics-address", Default: "", Description: "Serve Prometheus metrics on this address"},
}

// LogOptions are the logging settings shared by every command.
var LogOptions = []Option{
	{Key: KeyLogFormat, Flag: "log-format", Default: "auto", Description: "Log format: auto, pretty or json"},
	{Key: KeyLogFile, Flag: "log-file", Default: "", Description: "Write logs to this file, rotated by size"},
}

// Values are the resolved settings.
type Values struct {
	Debounce       time.Duration
	Tick           time.Duration
	LogFormat      string
	LogFile        string
	MetricsAddress string
}

// Settings resolves runtime settings from flags, HOTSWAP_* environment variables,
// hotswap.yaml and compiled defaults, in that order.
type Settings struct {
	v *viper.Viper
}

// NewSettings reads hotswap.yaml from dir when present.
func NewSettings(dir string) (*Settings, error) {
	v := viper.New()

	for _, opts := range [][]Option{WatchOptions, LogOptions} {
		for _, o := range opts {
			v.SetDefault(o.Key, o.Default)
		}
	}

	v.SetConfigName(domain.SettingsFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) && !errors.Is(err, os.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(err, "failed to read settings file"), "dir", dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Settings{v: v}, nil
}

// BindFlags registers options on fs and binds them to their keys.
func (s *Settings) BindFlags(fs *pflag.FlagSet, options []Option) error {
	for _, o := range options {
		if fs.Lookup(o.Flag) == nil {
			switch def := o.Default.(type) {
			case string:
				fs.String(o.Flag, def, o.Description)
			case time.Duration:
				fs.Duration(o.Flag, def, o.Description)
			default:
				return zerr.With(zerr.New("unsupported flag type"), "key", o.Key)
			}
		}

		if err := s.v.BindPFlag(o.Key, fs.Lookup(o.Flag)); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to bind flag"), "flag", o.Flag)
		}
	}
	return nil
}

// ConfigFile returns the settings file in use, or "" when none was found.
func (s *Settings) ConfigFile() string {
	return s.v.ConfigFileUsed()
}

// Values returns the validated settings.
func (s *Settings) Values() (Values, error) {
	vals := Values{
		Debounce:       s.v.GetDuration(KeyWatchDebounce),
		Tick:           s.v.GetDuration(KeySimulationTick),
		LogFormat:      strings.ToLower(s.v.GetString(KeyLogFormat)),
		LogFile:        s.v.GetString(KeyLogFile),
		MetricsAddress: s.v.GetString(KeyMetricsAddress),
	}

	if vals.Debounce <= 0 {
		return Values{}, invalid(KeyWatchDebounce, s.v.GetString(KeyWatchDebounce), "must be a positive duration")
	}
	if vals.Tick <= 0 {
		return Values{}, invalid(KeySimulationTick, s.v.GetString(KeySimulationTick), "must be a positive duration")
	}
	switch vals.LogFormat {
	case "auto", "pretty", "text", "json":
	default:
		return Values{}, invalid(KeyLogFormat, vals.LogFormat, "must be auto, pretty or json")
	}

	return vals, nil
}

func invalid(key, value, reason string) error {
	err := zerr.Wrap(domain.ErrInvalidSetting, reason)
	return zerr.With(zerr.With(err, "key", key), "value", value)
}

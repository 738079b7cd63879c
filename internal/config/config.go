package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	DefaultBaseURL        = "http://localhost:8001"
	DefaultPollInterval   = 5 * time.Second
	DefaultArtInterval    = 3 * time.Second
	DefaultArtMaxAttempts = 100
	DefaultPageSize       = 12
	DefaultRequestTimeout = 10 * time.Second
	DefaultProposeModel   = "openrouter/pony-alpha"
	DefaultProposeBaseURL = "https://openrouter.ai/api/v1"
	DefaultTailLines      = 200
)

// Config holds runtime configuration values.
type Config struct {
	BaseURL          string
	AssetBaseURL     string
	PollInterval     time.Duration
	ArtInterval      time.Duration
	ArtMaxAttempts   int
	PageSize         int
	RequestTimeout   time.Duration
	Verbose          bool
	JSON             bool
	NoColor          bool
	LogFile          string
	TailLines        int
	ProposeModel     string
	ProposeBaseURL   string
	ProposeBatchSize int
}

type rawConfig struct {
	BaseURL          string `mapstructure:"base_url"`
	AssetBaseURL     string `mapstructure:"asset_base_url"`
	PollInterval     string `mapstructure:"poll_interval"`
	ArtInterval      string `mapstructure:"art_interval"`
	ArtMaxAttempts   int    `mapstructure:"art_max_attempts"`
	PageSize         int    `mapstructure:"page_size"`
	RequestTimeout   string `mapstructure:"request_timeout"`
	Verbose          bool   `mapstructure:"verbose"`
	JSON             bool   `mapstructure:"json"`
	NoColor          bool   `mapstructure:"no_color"`
	LogFile          string `mapstructure:"log_file"`
	TailLines        int    `mapstructure:"tail_lines"`
	ProposeModel     string `mapstructure:"propose_model"`
	ProposeBaseURL   string `mapstructure:"propose_base_url"`
	ProposeBatchSize int    `mapstructure:"propose_batch_size"`
}

// Load resolves configuration from defaults, config files, env, and flags.
func Load(cmd *cobra.Command) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GAMEDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("asset_base_url", "")
	v.SetDefault("poll_interval", DefaultPollInterval.String())
	v.SetDefault("art_interval", DefaultArtInterval.String())
	v.SetDefault("art_max_attempts", DefaultArtMaxAttempts)
	v.SetDefault("page_size", DefaultPageSize)
	v.SetDefault("request_timeout", DefaultRequestTimeout.String())
	v.SetDefault("verbose", false)
	v.SetDefault("json", false)
	v.SetDefault("no_color", false)
	v.SetDefault("log_file", "")
	v.SetDefault("tail_lines", DefaultTailLines)
	v.SetDefault("propose_model", DefaultProposeModel)
	v.SetDefault("propose_base_url", DefaultProposeBaseURL)
	v.SetDefault("propose_batch_size", 1)

	if cmd != nil {
		bind := func(key, flag string) {
			if cmd.Flags().Lookup(flag) != nil {
				_ = v.BindPFlag(key, cmd.Flags().Lookup(flag))
			}
		}
		bind("base_url", "base-url")
		bind("poll_interval", "poll-interval")
		bind("art_interval", "art-interval")
		bind("page_size", "page-size")
		bind("request_timeout", "timeout")
		bind("verbose", "verbose")
		bind("json", "json")
		bind("no_color", "no-color")
		bind("log_file", "log-file")
		bind("tail_lines", "tail")
		bind("propose_model", "model")
	}

	if err := loadConfigFile(v); err != nil {
		return Config{}, err
	}

	var raw rawConfig
	decoder, _ := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "mapstructure", Result: &raw})
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return Config{}, err
	}

	pollInterval, err := parseDuration("poll_interval", raw.PollInterval, DefaultPollInterval)
	if err != nil {
		return Config{}, err
	}
	artInterval, err := parseDuration("art_interval", raw.ArtInterval, DefaultArtInterval)
	if err != nil {
		return Config{}, err
	}
	requestTimeout, err := parseDuration("request_timeout", raw.RequestTimeout, DefaultRequestTimeout)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		BaseURL:          strings.TrimRight(raw.BaseURL, "/"),
		AssetBaseURL:     strings.TrimRight(raw.AssetBaseURL, "/"),
		PollInterval:     pollInterval,
		ArtInterval:      artInterval,
		ArtMaxAttempts:   raw.ArtMaxAttempts,
		PageSize:         raw.PageSize,
		RequestTimeout:   requestTimeout,
		Verbose:          raw.Verbose,
		JSON:             raw.JSON,
		NoColor:          raw.NoColor,
		LogFile:          raw.LogFile,
		TailLines:        raw.TailLines,
		ProposeModel:     raw.ProposeModel,
		ProposeBaseURL:   raw.ProposeBaseURL,
		ProposeBatchSize: raw.ProposeBatchSize,
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.AssetBaseURL == "" {
		cfg.AssetBaseURL = cfg.BaseURL
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.ArtInterval <= 0 {
		cfg.ArtInterval = DefaultArtInterval
	}
	if cfg.ArtMaxAttempts <= 0 {
		cfg.ArtMaxAttempts = DefaultArtMaxAttempts
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.TailLines <= 0 {
		cfg.TailLines = DefaultTailLines
	}
	if cfg.ProposeModel == "" {
		cfg.ProposeModel = DefaultProposeModel
	}
	if cfg.ProposeBaseURL == "" {
		cfg.ProposeBaseURL = DefaultProposeBaseURL
	}
	if cfg.ProposeBatchSize <= 0 {
		cfg.ProposeBatchSize = 1
	}

	return cfg, nil
}

func parseDuration(name, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", name, err)
	}
	return parsed, nil
}

func loadConfigFile(v *viper.Viper) error {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	base := filepath.Join(configDir, "gamedeck")
	candidates := []string{
		filepath.Join(base, "config.yaml"),
		filepath.Join(base, "config.yml"),
		filepath.Join(base, "config.json"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return err
			}
			return nil
		}
	}
	return nil
}

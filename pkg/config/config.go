// Package config loads skilljudge settings from flags, environment variables
// and an optional config.yaml through viper. Named profiles can override any
// setting and are selected with the "profile" key.
package config

import (
	"strings"

	"github.com/jingkaihe/skilljudge/pkg/judge"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by viper.
const EnvPrefix = "SKILLJUDGE"

// ProfileConfig holds the settings a named profile overrides.
type ProfileConfig map[string]any

// Config is the resolved configuration of a skilljudge run.
type Config struct {
	SkillsDirs  []string `mapstructure:"skills_dirs" json:"skills_dirs" yaml:"skills_dirs"`
	SkillFile   string   `mapstructure:"skill_file" json:"skill_file" yaml:"skill_file"`
	Recursive   bool     `mapstructure:"recursive" json:"recursive" yaml:"recursive"`
	Sort        string   `mapstructure:"sort" json:"sort" yaml:"sort"`
	MinScore    int      `mapstructure:"min_score" json:"min_score" yaml:"min_score"`
	Match       string   `mapstructure:"match" json:"match" yaml:"match"`
	Format      string   `mapstructure:"format" json:"format" yaml:"format"`
	Verbose     bool     `mapstructure:"verbose" json:"verbose" yaml:"verbose"`
	Concurrency int      `mapstructure:"concurrency" json:"concurrency" yaml:"concurrency"`
	LogLevel    string   `mapstructure:"log_level" json:"log_level" yaml:"log_level"`
	LogFormat   string   `mapstructure:"log_format" json:"log_format" yaml:"log_format"`

	Profile  string                   `mapstructure:"profile" json:"profile,omitempty" yaml:"profile,omitempty"`
	Profiles map[string]ProfileConfig `mapstructure:"profiles" json:"profiles,omitempty" yaml:"profiles,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SkillFile:   judge.DefaultSkillFile,
		Sort:        string(judge.SortByName),
		Format:      "text",
		Concurrency: 1,
		LogLevel:    "warn",
		LogFormat:   "fmt",
	}
}

// SetDefaults registers the built-in values on v so that unset keys resolve.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("skill_file", d.SkillFile)
	v.SetDefault("sort", d.Sort)
	v.SetDefault("format", d.Format)
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
}

// Setup configures environment and config file lookup on v. A missing config
// file is not an error.
func Setup(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.skilljudge")
	v.AddConfigPath(".")

	SetDefaults(v)

	_ = v.ReadInConfig()
}

// Load resolves the configuration from v, applies the active profile and
// validates the result.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "failed to unmarshal configuration")
	}

	if cfg.Profiles != nil {
		delete(cfg.Profiles, "default")
	}

	if name := activeProfile(cfg.Profile); name != "" {
		profile, exists := cfg.Profiles[name]
		if !exists {
			return cfg, errors.Errorf("profile %q is not defined", name)
		}
		if err := applyProfile(&cfg, profile); err != nil {
			return cfg, err
		}
	}

	if cfg.SkillFile == "" {
		cfg.SkillFile = judge.DefaultSkillFile
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func activeProfile(profile string) string {
	if profile == "default" {
		return ""
	}
	return profile
}

func applyProfile(cfg *Config, profile ProfileConfig) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ZeroFields:       false,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create profile decoder")
	}

	if err := decoder.Decode(map[string]any(profile)); err != nil {
		return errors.Wrap(err, "failed to apply profile configuration")
	}

	return nil
}

// Validate checks values that cannot be corrected silently.
func (c Config) Validate() error {
	if _, err := judge.ParseSortOrder(c.Sort); err != nil {
		return err
	}
	if c.MinScore < 0 {
		return errors.Errorf("min score cannot be negative: %d", c.MinScore)
	}
	if c.MinScore > len(judge.Dimensions())*judge.MaxScore {
		return errors.Errorf("min score %d exceeds the maximum total of %d", c.MinScore, len(judge.Dimensions())*judge.MaxScore)
	}
	return nil
}

// BatchOptions converts the configuration into judge batch options.
func (c Config) BatchOptions() judge.BatchOptions {
	order, _ := judge.ParseSortOrder(c.Sort)
	return judge.BatchOptions{
		MinScore:    c.MinScore,
		Match:       c.Match,
		Sort:        order,
		Concurrency: c.Concurrency,
	}
}

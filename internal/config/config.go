// Package config loads finwise settings from defaults, an optional YAML
// file, FINWISE_* environment variables and command-line flags, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/abhisek/finwise/internal/llm"
	"github.com/abhisek/finwise/internal/logging"
	"github.com/abhisek/finwise/internal/player"
	"github.com/abhisek/finwise/internal/store"
)

// EnvPrefix is prepended to every environment key, e.g. FINWISE_STORE_ENGINE.
const EnvPrefix = "FINWISE"

// Config is the full application configuration.
type Config struct {
	User     string        `mapstructure:"user"`
	Locale   string        `mapstructure:"locale"`
	Currency string        `mapstructure:"currency"`
	Store    StoreConfig   `mapstructure:"store"`
	Log      LogConfig     `mapstructure:"log"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
	LLM      llm.Config    `mapstructure:"llm"`
	Player   PlayerConfig  `mapstructure:"player"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

type StoreConfig struct {
	Engine        string `mapstructure:"engine"`
	Path          string `mapstructure:"path"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisPrefix   string `mapstructure:"redis_prefix"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type MetricsConfig struct {
	// Addr enables the /metrics endpoint when non-empty, e.g. ":9464".
	Addr string `mapstructure:"addr"`
}

type PlayerConfig struct {
	CompletionDelay time.Duration `mapstructure:"completion_delay"`
	ForgetAnswers   bool          `mapstructure:"forget_answers"`
}

// Default returns the built-in configuration.
func Default() Config {
	pc := player.DefaultConfig()
	return Config{
		Locale:   "en",
		Currency: "R",
		Store: StoreConfig{
			Engine:      store.EngineSQLite,
			RedisAddr:   "localhost:6379",
			RedisPrefix: store.DefaultRedisPrefix,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		LLM: llm.DefaultConfig(),
		Player: PlayerConfig{
			CompletionDelay: pc.CompletionDelay,
			ForgetAnswers:   pc.ForgetAnswersOnPageChange,
		},
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"user":   "user",
	"locale": "locale",
	"store":  "store.engine",
	"db":     "store.path",
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit config file. When empty, finwise.yaml is looked
	// up in the user config directory and a missing file is not an error.
	File string
	// Flags, when set, override file and environment values for the flags
	// named in flagKeys that the user actually passed.
	Flags *pflag.FlagSet
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("finwise")
		v.SetConfigType("yaml")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if !cfg.LLM.Enabled() {
		cfg.LLM, _ = llm.Discover(cfg.LLM)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can see it during
// Unmarshal.
func setDefaults(v *viper.Viper, d Config) {
	defaults := map[string]any{
		"user":                    d.User,
		"locale":                  d.Locale,
		"currency":                d.Currency,
		"store.engine":            d.Store.Engine,
		"store.path":              d.Store.Path,
		"store.redis_addr":        d.Store.RedisAddr,
		"store.redis_password":    d.Store.RedisPassword,
		"store.redis_db":          d.Store.RedisDB,
		"store.redis_prefix":      d.Store.RedisPrefix,
		"log.file":                d.Log.File,
		"log.level":               d.Log.Level,
		"log.max_size_mb":         d.Log.MaxSizeMB,
		"log.max_backups":         d.Log.MaxBackups,
		"log.max_age_days":        d.Log.MaxAgeDays,
		"metrics.addr":            d.Metrics.Addr,
		"player.completion_delay": d.Player.CompletionDelay,
		"player.forget_answers":   d.Player.ForgetAnswers,
		"llm.provider":            d.LLM.Provider,
		"llm.timeout":             d.LLM.Timeout,
		"llm.retry.max_attempts":  d.LLM.Retry.MaxAttempts,
		"llm.retry.initial_wait":  d.LLM.Retry.InitialWait,
		"llm.retry.max_wait":      d.LLM.Retry.MaxWait,
		"llm.retry.multiplier":    d.LLM.Retry.Multiplier,
	}
	backends := map[string]llm.BackendConfig{
		"anthropic":  d.LLM.Anthropic,
		"openai":     d.LLM.OpenAI,
		"gemini":     d.LLM.Gemini,
		"openrouter": d.LLM.OpenRouter,
	}
	for name, b := range backends {
		defaults["llm."+name+".api_key"] = b.APIKey
		defaults["llm."+name+".model"] = b.Model
		defaults["llm."+name+".base_url"] = b.BaseURL
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Store.Engine) {
	case store.EngineSQLite, store.EngineJSON, store.EngineRedis, store.EngineMemory:
	default:
		errs = append(errs, fmt.Errorf("store.engine: unknown engine %q", c.Store.Engine))
	}
	if _, err := language.Parse(c.Locale); err != nil {
		errs = append(errs, fmt.Errorf("locale: %w", err))
	}
	if c.Player.CompletionDelay < 0 {
		errs = append(errs, errors.New("player.completion_delay must not be negative"))
	}
	if err := c.LLM.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LocaleTag returns the parsed locale, falling back to English.
func (c *Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// PlayerConfig converts to the player's own configuration.
func (c *Config) PlayerConfig() player.Config {
	return player.Config{
		CompletionDelay:           c.Player.CompletionDelay,
		ForgetAnswersOnPageChange: c.Player.ForgetAnswers,
	}
}

// LoggingConfig converts to the logger configuration, resolving the default
// log file location when none is set.
func (c *Config) LoggingConfig() logging.Config {
	file := c.Log.File
	if file == "" {
		file, _ = logging.DefaultFile()
	}
	return logging.Config{
		File:       file,
		Level:      c.Log.Level,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
	}
}

// EngineConfig converts to the store factory configuration. An empty path
// resolves to the default database location; the json engine keeps its
// file next to it.
func (c *Config) EngineConfig() (store.EngineConfig, error) {
	engine := strings.ToLower(c.Store.Engine)
	path := c.Store.Path
	if path == "" && (engine == store.EngineSQLite || engine == store.EngineJSON) {
		dbPath, err := store.DefaultDBPath()
		if err != nil {
			return store.EngineConfig{}, err
		}
		path = dbPath
		if engine == store.EngineJSON {
			path = strings.TrimSuffix(dbPath, filepath.Ext(dbPath)) + ".json"
		}
	}
	return store.EngineConfig{
		Engine: engine,
		Path:   path,
		Redis: store.RedisOptions{
			Addr:     c.Store.RedisAddr,
			Password: c.Store.RedisPassword,
			DB:       c.Store.RedisDB,
			Prefix:   c.Store.RedisPrefix,
		},
	}, nil
}

func configDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "finwise"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "finwise"), nil
}

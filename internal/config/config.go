package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/italypaleale/actorgen/generator"
	"github.com/italypaleale/actorgen/internal/logging"
)

// EnvPrefix is the prefix of the environment variables that configure actorgen.
const EnvPrefix = "ACTORGEN_"

// ErrInvalidConfig is returned when the configuration can't be loaded.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the configuration for the actorgen command.
// Values are layered, each source overriding the previous one: defaults, config file, environment, flags.
type Config struct {
	MessageSuffix  string `toml:"message-suffix" env:"MESSAGE_SUFFIX"`
	ReplyField     string `toml:"reply-field" env:"REPLY_FIELD"`
	HandlePrefix   string `toml:"handle-prefix" env:"HANDLE_PREFIX"`
	NoWaitSuffix   string `toml:"no-wait-suffix" env:"NO_WAIT_SUFFIX"`
	HandlerName    string `toml:"handler" env:"HANDLER"`
	ReceiverField  string `toml:"receiver-field" env:"RECEIVER_FIELD"`
	RuntimePackage string `toml:"runtime" env:"RUNTIME"`
	BuildTag       string `toml:"build-tag" env:"BUILD_TAG"`
	Strict         bool   `toml:"strict" env:"STRICT"`
	LogLevel       string `toml:"log-level" env:"LOG_LEVEL"`
}

// Default returns the default configuration, which matches the generator's defaults.
func Default() *Config {
	return &Config{
		MessageSuffix:  "Msg",
		ReplyField:     "Resp",
		HandlePrefix:   "Actor",
		NoWaitSuffix:   "NoWait",
		HandlerName:    "process",
		ReceiverField:  "receiver",
		RuntimePackage: generator.DefaultRuntimePackage,
		BuildTag:       "actorgen",
		LogLevel:       "info",
	}
}

// LoadFile merges the values from the TOML file at path into c.
// Keys that aren't known are an error.
func (c *Config) LoadFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("%w: failed to decode config file '%s': %w", ErrInvalidConfig, path, err)
	}
	return checkUndecodedItems(md)
}

// LoadString merges the values from a TOML document into c.
func (c *Config) LoadString(data string) error {
	md, err := toml.Decode(data, c)
	if err != nil {
		return fmt.Errorf("%w: failed to decode config: %w", ErrInvalidConfig, err)
	}
	return checkUndecodedItems(md)
}

// LoadEnv merges the values from the ACTORGEN_* environment variables into c.
// If environ is nil, the process environment is used.
func (c *Config) LoadEnv(environ map[string]string) error {
	opts := env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}
	err := env.ParseWithOptions(c, opts)
	if err != nil {
		return fmt.Errorf("%w: parse env: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() (slog.Level, error) {
	lvl, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return lvl, nil
}

// GeneratorOptions returns the options for the generator.
func (c *Config) GeneratorOptions(log *slog.Logger) []generator.Option {
	return []generator.Option{
		generator.WithMessageSuffix(c.MessageSuffix),
		generator.WithReplyField(c.ReplyField),
		generator.WithHandlePrefix(c.HandlePrefix),
		generator.WithNoWaitSuffix(c.NoWaitSuffix),
		generator.WithHandlerName(c.HandlerName),
		generator.WithReceiverField(c.ReceiverField),
		generator.WithRuntimePackage(c.RuntimePackage),
		generator.WithBuildTag(c.BuildTag),
		generator.WithStrict(c.Strict),
		generator.WithLogger(log),
	}
}

func checkUndecodedItems(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}

	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	return fmt.Errorf("%w: unknown keys in config: %s", ErrInvalidConfig, strings.Join(keys, ", "))
}

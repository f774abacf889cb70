// Package config loads the service configuration from a YAML file,
// expands environment references and validates the result.
package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rudder-lab/rudder-trading/internal/exchange"
	"github.com/rudder-lab/rudder-trading/internal/logger"
	"github.com/rudder-lab/rudder-trading/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultCommandTimeoutSeconds bounds a single chat command end to end when
// the config does not say otherwise.
const DefaultCommandTimeoutSeconds = 30

// TelegramConfig configures the chat transport.
type TelegramConfig struct {
	// Token is the bot token issued by BotFather.
	Token string `yaml:"token" json:"token" validate:"required"`
	// AllowedChatIDs lists the chats the bot accepts commands from. An empty
	// list rejects every chat.
	AllowedChatIDs []int64 `yaml:"allowed_chat_ids" json:"allowed_chat_ids"`
	// CommandTimeoutSeconds bounds a single command end to end. Zero means
	// DefaultCommandTimeoutSeconds.
	CommandTimeoutSeconds int `yaml:"command_timeout_seconds" json:"command_timeout_seconds" validate:"min=0"`
}

// CommandTimeout returns the per command deadline.
func (t TelegramConfig) CommandTimeout() time.Duration {
	if t.CommandTimeoutSeconds <= 0 {
		return DefaultCommandTimeoutSeconds * time.Second
	}

	return time.Duration(t.CommandTimeoutSeconds) * time.Second
}

// ServerConfig configures the operational HTTP server.
type ServerConfig struct {
	// Listen is the address the ops server binds to, for example
	// "127.0.0.1:8080". Empty disables the server.
	Listen string `yaml:"listen" json:"listen"`
}

// Config is the root configuration for the service.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram" json:"telegram"`
	// Binance is validated by the gateway when live trading is selected, so
	// a paper only deployment can leave it empty.
	Binance exchange.BinanceConfig `yaml:"binance" json:"binance" validate:"-"`
	Paper   exchange.PaperConfig   `yaml:"paper" json:"paper"`
	Log     logger.Config          `yaml:"log" json:"log"`
	Server  ServerConfig           `yaml:"server" json:"server"`
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	return nil
}

// Load reads the YAML file at path, expands ${VAR} references from the
// environment and validates the result. Call LoadEnvFile first if secrets
// live in a dotenv file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	return Parse(raw)
}

// Parse decodes YAML bytes into a validated Config.
func Parse(raw []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(raw))

	cfg := &Config{} //nolint:exhaustruct // populated by yaml.Unmarshal
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config file", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadEnvFile loads a dotenv file into the process environment. A missing
// file is not an error so deployments can rely on real environment
// variables alone.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to load env file %s", path)
	}

	return nil
}

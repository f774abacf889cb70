package exchange

import (
	"github.com/go-playground/validator/v10"
	"github.com/rudder-lab/rudder-trading/pkg/errors"
)

// BinanceConfig contains credentials and endpoint settings for the Binance
// USDT margined futures API.
type BinanceConfig struct {
	APIKey    string `yaml:"api_key" json:"api_key" validate:"required"`
	SecretKey string `yaml:"secret_key" json:"secret_key" validate:"required"`
	// Testnet routes requests to the Binance futures testnet.
	Testnet bool `yaml:"testnet" json:"testnet"`
	// BaseURL overrides the API endpoint. Takes precedence over Testnet.
	BaseURL string `yaml:"base_url" json:"base_url"`
}

// Validate validates the BinanceConfig struct.
func (c *BinanceConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid binance config", err)
	}

	return nil
}

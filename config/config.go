package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"incasso/internal/core"
	"incasso/internal/http"
	"incasso/internal/sqlite"
)

type Config struct {
	LogLevel int `envconfig:"LOG_LEVEL" default:"-4"`
	Database sqlite.Config
	HTTP     http.Config
	Creditor CreditorConfig
}

// CreditorConfig identifies the collecting organization. The creditor ID is
// the SEPA scheme registration and must match the bank contract.
type CreditorConfig struct {
	Name       string `envconfig:"CREDITOR_NAME" default:"Vereniging Demo"`
	IBAN       string `envconfig:"CREDITOR_IBAN" default:"NL91ABNA0417164300"`
	BIC        string `envconfig:"CREDITOR_BIC" default:""`
	CreditorID string `envconfig:"CREDITOR_ID" default:"NL13ZZZ12345678000"`
}

func Load() (Config, error) {
	var config Config
	err := envconfig.Process("", &config)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process config: %w", err)
	}

	return config, nil
}

// Creditor validates the configured organization and derives the BIC from
// the IBAN when it is left empty.
func (c CreditorConfig) Creditor() (core.Creditor, error) {
	creditor, err := core.NewCreditor(c.Name, c.IBAN, c.BIC, c.CreditorID)
	if err != nil {
		return core.Creditor{}, fmt.Errorf("invalid creditor configuration: %w", err)
	}

	return creditor, nil
}

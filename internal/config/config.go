package config

import (
	"encoding/json"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Database *DBConfig
	Service  *SvcConfig
	Ledger   *LedgerConfig
}

type DBConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"devledger"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type SvcConfig struct {
	Address         string `envconfig:"DEVLEDGER_ADDRESS" default:":3443"`
	MetricsAddress  string `envconfig:"DEVLEDGER_METRICS_ADDRESS" default:":8080"`
	BaseUrl         string `envconfig:"DEVLEDGER_BASE_URL" default:"https://localhost:3443"`
	LogLevel        string `envconfig:"DEVLEDGER_LOG_LEVEL" default:"info"`
	MigrationFolder string `envconfig:"DEVLEDGER_MIGRATIONS_FOLDER" default:""`
}

type LedgerConfig struct {
	NodeURL        string        `envconfig:"DEVLEDGER_NODE_URL" default:"http://localhost:8900"`
	Privacy        string        `envconfig:"DEVLEDGER_PUBLISH_PRIVACY" default:"public"`
	Priority       int           `envconfig:"DEVLEDGER_PUBLISH_PRIORITY" default:"1"`
	Epochs         int           `envconfig:"DEVLEDGER_PUBLISH_EPOCHS" default:"2"`
	MaxAttempts    int           `envconfig:"DEVLEDGER_PUBLISH_MAX_ATTEMPTS" default:"5"`
	ConfirmTimeout time.Duration `envconfig:"DEVLEDGER_CONFIRM_TIMEOUT" default:"5m"`
}

// New reads the configuration from the environment.
func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewDefault returns the configuration with every variable at its default.
func NewDefault() *Config {
	return &Config{
		Database: &DBConfig{Type: "pgsql", Hostname: "localhost", Port: "5432", Name: "devledger", User: "admin", Password: "adminpass"},
		Service:  &SvcConfig{Address: ":3443", MetricsAddress: ":8080", BaseUrl: "https://localhost:3443", LogLevel: "info"},
		Ledger:   &LedgerConfig{NodeURL: "http://localhost:8900", Privacy: "public", Priority: 1, Epochs: 2, MaxAttempts: 5, ConfirmTimeout: 5 * time.Minute},
	}
}

func (c *Config) String() string {
	redacted := *c
	if redacted.Database != nil {
		db := *redacted.Database
		db.Password = "[REDACTED]"
		redacted.Database = &db
	}
	val, err := json.Marshal(redacted)
	if err != nil {
		return "<error>"
	}
	return string(val)
}

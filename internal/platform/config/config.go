package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// ProviderConfig is one provider back-end's per-tenant endpoint and
// credential. Providers are constructed from these values explicitly; no
// module-level client singletons.
type ProviderConfig struct {
	BaseURL string `env:"BASE_URL"`
	APIKey  string `env:"API_KEY"`
}

// Config is centralized process configuration.
type Config struct {
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"boxoffice"`
	HTTPPort        string        `env:"HTTP_PORT" envDefault:"8080"`
	PostgresDSN     string        `env:"POSTGRES_DSN"`
	KafkaBrokers    []string      `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	EventTopic      string        `env:"EVENT_TOPIC" envDefault:"ordering.authorize"`
	ProjectID       string        `env:"PROJECT_ID" envDefault:"default"`
	DefaultProvider string        `env:"DEFAULT_PROVIDER" envDefault:"venuehub"`
	PollInterval    time.Duration `env:"WORKER_POLL_INTERVAL" envDefault:"15s"`

	VenueHub  ProviderConfig `envPrefix:"VENUEHUB_"`
	GateLink  ProviderConfig `envPrefix:"GATELINK_"`
	CardVault ProviderConfig `envPrefix:"CARDVAULT_"`
	PointBank ProviderConfig `envPrefix:"POINTBANK_"`
	ClubPass  ProviderConfig `envPrefix:"CLUBPASS_"`
	Voucherly ProviderConfig `envPrefix:"VOUCHERLY_"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

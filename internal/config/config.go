package config

import (
	"errors"
	"fmt"
	"placebrief/internal/places"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	PlacesAPIKey   string        `env:"GOOGLE_PLACES_API_KEY,required,notEmpty"`
	OpenAIAPIKey   string        `env:"OPENAI_API_KEY,required,notEmpty"`
	OpenAIModel    string        `env:"OPENAI_MODEL"                            envDefault:"gpt-4o-mini"`
	SummaryEnabled bool          `env:"SUMMARY_ENABLED"                         envDefault:"true"`
	Queries        []string      `env:"QUERIES"                                 envDefault:"Schools"       envSeparator:","`
	MaxResults     int           `env:"MAX_RESULTS"                             envDefault:"5"`
	BiasLowLat     float64       `env:"BIAS_LOW_LAT"                            envDefault:"37.415"`
	BiasLowLng     float64       `env:"BIAS_LOW_LNG"                            envDefault:"-122.091"`
	BiasHighLat    float64       `env:"BIAS_HIGH_LAT"                           envDefault:"37.429"`
	BiasHighLng    float64       `env:"BIAS_HIGH_LNG"                           envDefault:"-122.065"`
	RunTimeout     time.Duration `env:"RUN_TIMEOUT"                             envDefault:"2m"`
	Schedule       string        `env:"SCHEDULE"`
	TelegramToken  string        `env:"TELEGRAM_TOKEN"`
	TelegramChatID int64         `env:"TELEGRAM_CHAT_ID"`
}

func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	queries := make([]string, 0, len(cfg.Queries))
	for _, q := range cfg.Queries {
		if q = strings.TrimSpace(q); q != "" {
			queries = append(queries, q)
		}
	}
	cfg.Queries = queries
	cfg.TelegramToken = strings.TrimSpace(cfg.TelegramToken)

	if err = cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if len(c.Queries) == 0 {
		return errors.New("QUERIES is empty")
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("MAX_RESULTS must be positive (MAX_RESULTS = %d)", c.MaxResults)
	}
	if c.RunTimeout <= 0 {
		return fmt.Errorf("RUN_TIMEOUT must be positive (RUN_TIMEOUT = %s)", c.RunTimeout)
	}
	if (c.TelegramToken == "") != (c.TelegramChatID == 0) {
		return errors.New("TELEGRAM_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}

	bias := c.Bias()
	if err := bias.Validate(); err != nil {
		return fmt.Errorf("validate bias: %w", err)
	}

	return nil
}

// Bias returns the configured search rectangle.
func (c Config) Bias() places.LocationBias {
	return places.NewRectangleBias(
		places.LatLng{Latitude: c.BiasLowLat, Longitude: c.BiasLowLng},
		places.LatLng{Latitude: c.BiasHighLat, Longitude: c.BiasHighLng},
	)
}

func (c Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

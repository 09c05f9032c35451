package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/pricewatch/internal/price"
)

type Config struct {
	App struct {
		Name           string   `envconfig:"APP_NAME" default:"Pricewatch"`
		Port           int      `envconfig:"PORT" default:"8080"`
		JWTSecret      string   `envconfig:"APP_JWT_SECRET"`
		AllowedOrigins []string `envconfig:"APP_ALLOWED_ORIGINS" default:"*"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"pricewatch"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Storefront struct {
		BaseURL    string        `envconfig:"STOREFRONT_BASE_URL" default:"https://www.falabella.com"`
		WeddingURL string        `envconfig:"STOREFRONT_WEDDING_URL" default:"https://novios.falabella.com/"`
		Headless   bool          `envconfig:"STOREFRONT_HEADLESS" default:"true"`
		Timeout    time.Duration `envconfig:"STOREFRONT_TIMEOUT" default:"15s"`
		SearchTerm string        `envconfig:"STOREFRONT_SEARCH_TERM" default:"mouse"`
	}

	IssueTracker struct {
		APIURL string `envconfig:"ISSUES_API_URL" default:"https://api.github.com"`
		Owner  string `envconfig:"ISSUES_OWNER"`
		Repo   string `envconfig:"ISSUES_REPO"`
		Token  string `envconfig:"API_TOKEN"`
	}

	Alert struct {
		// Expected price band in major units, 0 leaves a side open.
		MinPrice string `envconfig:"ALERT_MIN_PRICE" default:"0"`
		MaxPrice string `envconfig:"ALERT_MAX_PRICE" default:"0"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// AlertBounds returns the expected price band in cents. The bounds accept
// the same formats as scraped labels.
func (c *Config) AlertBounds() (int64, int64, error) {
	minCents, err := price.ParseCents(c.Alert.MinPrice)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing ALERT_MIN_PRICE: %w", err)
	}

	maxCents, err := price.ParseCents(c.Alert.MaxPrice)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing ALERT_MAX_PRICE: %w", err)
	}

	return minCents, maxCents, nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

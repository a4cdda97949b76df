package app

import (
	"os"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Deployment environments and their API addresses.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DevelopmentAPIURL = "http://localhost:3001/api"
	ProductionAPIURL  = "https://your-backend.onrender.com/api"
)

// Config holds the client configuration, loadable from environment variables
// (STOREFRONT_ prefix), flags, or YAML config files.
type Config struct {
	Env    string `default:"development" env:"ENV" usage:"Deployment environment (development or production)"`
	APIURL string `env:"API_URL" flag:"api-url" usage:"API base URL, overrides the environment default"`
}

// LoadConfig loads configuration from environment variables, flags and YAML
// config files, then applies platform defaults.
func LoadConfig() (*Config, error) {
	return loadConfig(aconfig.Config{
		EnvPrefix: "STOREFRONT",
		Files:     []string{"storefront.yaml", "config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
}

func loadConfig(ac aconfig.Config) (*Config, error) {
	var cfg Config
	if err := aconfig.LoaderFor(&cfg, ac).Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()
	if _, err := cfg.BaseURL(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// BaseURL returns the API address for the configured environment.
func (c *Config) BaseURL() (string, error) {
	if c.APIURL != "" {
		return c.APIURL, nil
	}
	switch c.Env {
	case EnvDevelopment:
		return DevelopmentAPIURL, nil
	case EnvProduction:
		return ProductionAPIURL, nil
	default:
		return "", errors.Errorf("unknown environment %q: use %s or %s", c.Env, EnvDevelopment, EnvProduction)
	}
}

// applyPlatformDefaults maps the unprefixed APP_ENV and API_URL variables
// commonly set by hosting platforms onto the configuration.
func (c *Config) applyPlatformDefaults() {
	if v := os.Getenv("APP_ENV"); v != "" && c.Env == EnvDevelopment {
		c.Env = v
	}
	if v := os.Getenv("API_URL"); v != "" && c.APIURL == "" {
		c.APIURL = v
	}
}

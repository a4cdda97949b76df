package mockapi

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

const defaultAddr = "0.0.0.0:3001"

// Config holds the stand-in configuration, loadable from environment
// variables (MOCKAPI_ prefix), flags, or YAML config files.
type Config struct {
	Addr     string   `default:"0.0.0.0:3001" usage:"Listen address"`
	Codes    []string `default:"SAVE10" usage:"Discount codes available at start-up"`
	NthOrder int      `default:"5" usage:"Every nth order earns a discount code" flag:"nth-order"`
	CORS     CORSConfig
	Graceful GracefulConfig
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins []string `default:"*" usage:"Allowed CORS origins"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"1s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"10s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, flags and YAML
// config files, then applies platform defaults.
func LoadConfig() (*Config, error) {
	return loadConfig(aconfig.Config{
		EnvPrefix: "MOCKAPI",
		Files:     []string{"mock-api.yaml"},
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
	if cfg.NthOrder < 1 {
		return nil, errors.Errorf("nth order must be positive, got %d", cfg.NthOrder)
	}
	return &cfg, nil
}

// applyPlatformDefaults honours the PORT variable set by hosting platforms.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}

package app

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cristalhq/aconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/kart-storefront/internal/api"
	"github.com/xenking/kart-storefront/internal/mockapi"
	"github.com/xenking/kart-storefront/internal/session"
)

func testLoader() aconfig.Config {
	return aconfig.Config{EnvPrefix: "STOREFRONT", SkipFlags: true, SkipFiles: true}
}

func clearPlatformEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "")
	t.Setenv("API_URL", "")
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"Default", nil, DevelopmentAPIURL},
		{"Production", map[string]string{"STOREFRONT_ENV": "production"}, ProductionAPIURL},
		{"Override", map[string]string{"STOREFRONT_ENV": "production", "STOREFRONT_API_URL": "http://api.test/api"}, "http://api.test/api"},
		{"PlatformEnv", map[string]string{"APP_ENV": "production"}, ProductionAPIURL},
		{"PlatformURL", map[string]string{"API_URL": "http://platform.test/api"}, "http://platform.test/api"},
		{"PrefixedWins", map[string]string{"API_URL": "http://platform.test/api", "STOREFRONT_API_URL": "http://own.test/api"}, "http://own.test/api"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearPlatformEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := loadConfig(testLoader())
			require.NoError(t, err)
			got, err := cfg.BaseURL()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadConfigUnknownEnv(t *testing.T) {
	clearPlatformEnv(t)
	t.Setenv("STOREFRONT_ENV", "staging")
	_, err := loadConfig(testLoader())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staging")
}

func TestNewShell(t *testing.T) {
	srv := httptest.NewServer(mockapi.NewServer(mockapi.NewState(mockapi.Catalog(), nil, nil)).Handler())
	t.Cleanup(srv.Close)
	client, err := api.New(srv.URL + "/api")
	require.NoError(t, err)

	var out bytes.Buffer
	sh := newShell(client, session.New(), zap.NewNop(), strings.NewReader("add 1\ncart\nquit\n"), &out)
	require.NoError(t, sh.Run(context.Background()))
	assert.Contains(t, out.String(), "Cart (1)> ")
	assert.Contains(t, out.String(), "Wireless Headphones")
}

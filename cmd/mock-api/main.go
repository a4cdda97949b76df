// Command mock-api serves an in-memory storefront API for local development.
package main

import (
	"context"

	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/xenking/kart-storefront/internal/mockapi"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, m *app.Telemetry) error {
		cfg, err := mockapi.LoadConfig()
		if err != nil {
			return err
		}
		return mockapi.Serve(ctx, lg, m, cfg)
	})
}

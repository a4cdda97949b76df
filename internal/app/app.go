package app

import (
	"context"
	"io"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/xenking/kart-storefront/internal/api"
	"github.com/xenking/kart-storefront/internal/session"
	"github.com/xenking/kart-storefront/internal/shell"
	"github.com/xenking/kart-storefront/internal/store"
	"github.com/xenking/kart-storefront/internal/view"
)

// Run creates the session and every component, then serves the interactive
// shell on in and out until the user quits. It is the single wiring point for
// the client.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config, in io.Reader, out io.Writer) error {
	baseURL, err := cfg.BaseURL()
	if err != nil {
		return err
	}

	client, err := api.New(baseURL,
		api.WithTracerProvider(m.TracerProvider()),
		api.WithMeterProvider(m.MeterProvider()),
	)
	if err != nil {
		return errors.Wrap(err, "create api client")
	}

	sess := session.New()
	lg = lg.With(zap.String("user_id", sess.ID))
	lg.Info("Session started", zap.String("env", cfg.Env), zap.String("api_url", client.BaseURL()))

	sh := newShell(client, sess, lg, in, out)
	if err := sh.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "shell")
	}
	lg.Info("Session ended")
	return nil
}

func newShell(client *api.Client, sess session.Session, lg *zap.Logger, in io.Reader, out io.Writer) *shell.Shell {
	st := store.New(client, sess, lg.Named("store"))
	views := shell.Views{
		Catalog:  view.NewCatalog(client, st, lg.Named("catalog")),
		Cart:     view.NewCartView(st, lg.Named("cart")),
		Checkout: view.NewCheckout(client, st, lg.Named("checkout")),
		History:  view.NewOrderHistory(client, sess, lg.Named("orders")),
		Admin:    view.NewAdmin(client, lg.Named("admin")),
	}
	return shell.New(in, out, st, views, lg.Named("shell"))
}

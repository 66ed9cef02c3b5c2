package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/staffhours/backend/internal/app"
	"github.com/staffhours/backend/internal/app/appcontext"
)

// Run builds the application graph, populates deps and hands them to fn. The graph
// is stopped when fn returns, which closes the store.
func Run[T any](actx appcontext.Ctx, fn func(ctx context.Context, deps T) error) error {
	var deps T
	fxApp, err := app.New(actx, fx.Populate(&deps))
	if err != nil {
		return err
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), fxApp.StartTimeout())
	defer cancelStart()
	if err := fxApp.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancelStop := context.WithTimeout(context.Background(), fxApp.StopTimeout())
		defer cancelStop()
		if err := fxApp.Stop(stopCtx); err != nil {
			log.Error().Err(err).Msg("failed to stop application cleanly")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return fn(ctx, deps)
}

package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/staffhours/backend/internal/app/appconfig"
	"github.com/staffhours/backend/internal/app/appcontext"
	"github.com/staffhours/backend/internal/infra"
	"github.com/staffhours/backend/internal/pkg/logger"
	"github.com/staffhours/backend/internal/repo"
	"github.com/staffhours/backend/internal/service"
)

// Modules is the dependency graph shared by the CLI and tests.
func Modules(conf *appconfig.Config) []fx.Option {
	return []fx.Option{
		// Misc
		fx.Supply(conf),

		// Infrastructures
		infra.Module(),

		// Repositories
		repo.Module(),

		// Services
		service.Module(),

		// Global Singleton Inits
		fx.Invoke(infra.SentryInit),
	}
}

func Options(conf *appconfig.Config, additionalOpts ...fx.Option) []fx.Option {
	baseOpts := []fx.Option{
		// fx meta
		fx.WithLogger(logger.Fx),

		// opening the SQLite file is the slowest part of startup
		fx.StartTimeout(10 * time.Second),
		fx.StopTimeout(10 * time.Second),
	}
	baseOpts = append(baseOpts, Modules(conf)...)

	return append(baseOpts, additionalOpts...)
}

func New(ctx appcontext.Ctx, additionalOpts ...fx.Option) (*fx.App, error) {
	conf, err := appconfig.Parse(ctx)
	if err != nil {
		return nil, err
	}

	// logger and configuration are the only two things that are not in the fx graph
	// because some other packages need them to be initialized before fx starts
	logger.Configure(conf)

	return fx.New(Options(conf, additionalOpts...)...), nil
}

package service

import (
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("service", fx.Provide(
		NewSync,
		NewReport,
		NewRunner,
		NewInstall,
		NewHubstaff,
		NewTokenSource,
	))
}

package testentry

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/staffhours/backend/internal/app"
	"github.com/staffhours/backend/internal/app/appconfig"
	"github.com/staffhours/backend/internal/app/appcontext"
	"github.com/staffhours/backend/internal/repo"
)

// Config returns a configuration pointing at a fresh SQLite file and at the Hubstaff
// API served from baseURL. Retries back off by a millisecond so tests stay fast.
func Config(t *testing.T, baseURL string) *appconfig.Config {
	t.Helper()

	return &appconfig.Config{
		ConfigSpec: appconfig.ConfigSpec{
			DatabasePath:        filepath.Join(t.TempDir(), "staffhours.db"),
			HubstaffBaseURL:     baseURL,
			HubstaffAccountURL:  baseURL,
			HubstaffAccessToken: "test-token",
			HubstaffPageLimit:   100,
			HTTPTimeout:         5 * time.Second,
			FetchMaxAttempts:    3,
			FetchBackoffBase:    time.Millisecond,
			TimeZone:            "UTC",
		},
		AppContext: appcontext.Declare(appcontext.EnvTest),
		Location:   time.UTC,
	}
}

// Populate starts the application graph over conf and fills targets. The graph is
// stopped, and the store closed, when the test ends.
func Populate(t *testing.T, conf *appconfig.Config, targets ...any) {
	t.Helper()

	// for testing, logger is too annoying. therefore, we use a NopLogger here
	opts := []fx.Option{fx.NopLogger}
	opts = append(opts, app.Modules(conf)...)
	opts = append(opts, fx.Populate(targets...))
	opts = append(opts, fx.Invoke(func() {
		log.Logger = log.Logger.Output(zerolog.NewTestWriter(t))
	}))

	fxApp := fxtest.New(t, opts...)
	fxApp.RequireStart()
	t.Cleanup(fxApp.RequireStop)
}

// Installed is Populate over a store whose schema is already installed.
func Installed(t *testing.T, conf *appconfig.Config, targets ...any) {
	t.Helper()

	var schema *repo.Schema
	Populate(t, conf, append(targets, &schema)...)

	if _, err := schema.Install(context.Background()); err != nil {
		t.Fatalf("failed to install schema: %v", err)
	}
}

package appconfig

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/staffhours/backend/internal/app/appcontext"
)

const envPrefix = "staffhours"

func Parse(ctx appcontext.Ctx) (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	var spec ConfigSpec
	err = envconfig.Process(envPrefix, &spec)
	if err != nil {
		_ = envconfig.Usage(envPrefix, &spec)
		return nil, fmt.Errorf("failed to parse configuration: %w. See internal/app/appconfig/spec.go for the list of STAFFHOURS_* variables", err)
	}

	return FromSpec(ctx, spec)
}

// FromSpec validates spec and derives the runtime Config from it.
func FromSpec(ctx appcontext.Ctx, spec ConfigSpec) (*Config, error) {
	loc, err := time.LoadLocation(spec.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid STAFFHOURS_TIME_ZONE %q: %w", spec.TimeZone, err)
	}
	if spec.HubstaffPageLimit <= 0 {
		return nil, fmt.Errorf("invalid STAFFHOURS_HUBSTAFF_PAGE_LIMIT %d: must be positive", spec.HubstaffPageLimit)
	}
	if spec.FetchMaxAttempts == 0 {
		spec.FetchMaxAttempts = 1
	}
	if ctx.Debug {
		spec.DevMode = true
	}

	return &Config{
		ConfigSpec: spec,
		AppContext: ctx,
		Location:   loc,
	}, nil
}

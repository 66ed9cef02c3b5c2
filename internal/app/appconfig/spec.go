package appconfig

import (
	"time"

	"github.com/staffhours/backend/internal/app/appcontext"
)

type ConfigSpec struct {
	// DatabasePath is the path of the SQLite file holding activities, projects, users and the schema version marker.
	DatabasePath string `required:"true" split_words:"true" default:"staffhours.db"`

	// HubstaffBaseURL is the root of the Hubstaff public API.
	HubstaffBaseURL string `required:"true" split_words:"true" default:"https://api.hubstaff.com"`

	// HubstaffAccountURL is the root of the Hubstaff account service that exchanges refresh tokens.
	HubstaffAccountURL string `split_words:"true" default:"https://account.hubstaff.com"`

	// HubstaffAccessToken is a bearer token used as-is. Ignored when HubstaffRefreshToken is set.
	HubstaffAccessToken string `split_words:"true"`

	// HubstaffRefreshToken is a personal access (refresh) token exchanged for a short-lived
	// access token once per process.
	HubstaffRefreshToken string `split_words:"true"`

	// HubstaffPageLimit is the page_limit sent with every list request.
	HubstaffPageLimit int `split_words:"true" default:"500"`

	// HTTPTimeout bounds every single request to Hubstaff.
	HTTPTimeout time.Duration `split_words:"true" default:"30s"`

	// FetchMaxAttempts is the number of attempts per page before giving up with FETCH_FAILED.
	FetchMaxAttempts uint `split_words:"true" default:"3"`

	// FetchBackoffBase is the first retry delay; later delays grow exponentially.
	FetchBackoffBase time.Duration `split_words:"true" default:"1s"`

	// TimeZone is the IANA zone used to resolve "yesterday" when no dates are given.
	TimeZone string `split_words:"true" default:"UTC"`

	// DevMode enables trace logging.
	DevMode bool `split_words:"true"`

	// LogJSON is whether to log JSON logs (instead of pretty-print logs) for the ease of log collection.
	// Logs always go to stderr so that the rendered report can be piped from stdout.
	LogJSON bool `split_words:"true" default:"false"`

	// LogFilePath is the rotated log file. Leaving this empty disables file logging.
	LogFilePath string `split_words:"true" default:"logs/staffhours.log"`

	// LogFileMaxSizeMB is the size at which the log file is rotated.
	LogFileMaxSizeMB int `split_words:"true" default:"20"`

	BunDebugVerbose bool `split_words:"true"`

	// SentryDSN is the DSN of the Sentry server. See https://pkg.go.dev/github.com/getsentry/sentry-go#ClientOptions
	SentryDSN string `split_words:"true"`

	// PushgatewayURL is the Prometheus Pushgateway that receives run metrics after each invocation.
	// Leaving this empty disables pushing.
	PushgatewayURL string `split_words:"true"`
}

type Config struct {
	// ConfigSpec is the configuration specification injected to the config.
	ConfigSpec

	// AppContext is the application context
	AppContext appcontext.Ctx

	// Location is TimeZone resolved.
	Location *time.Location
}

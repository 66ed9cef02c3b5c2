package infra

import (
	"net/http"

	"github.com/staffhours/backend/internal/app/appconfig"
)

// HTTPClient is the client every Hubstaff request goes through.
func HTTPClient(conf *appconfig.Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 2

	return &http.Client{
		Timeout:   conf.HTTPTimeout,
		Transport: transport,
	}
}

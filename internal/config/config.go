// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers a YAML file and CITYPATH_ environment variables on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// UpstreamURL is the base URL of the route service; requests go to
	// UpstreamURL + "/api/routes".
	UpstreamURL string `koanf:"upstream_url"`

	// UpstreamTimeoutMS bounds a single route service call. Zero means the
	// call is bounded only by the caller's context.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`

	// MaxInFlight caps concurrent route searches across all sessions.
	// Zero means no cap; each session is still limited to one.
	MaxInFlight int `koanf:"max_in_flight"`

	// Cities lists the selectable cities, in display order.
	Cities []string `koanf:"cities"`

	// PageTitle is shown in the page heading and <title>.
	PageTitle string `koanf:"page_title"`
}

// DefaultCities is the city list served when none is configured.
var DefaultCities = []string{
	"Aioun", "Aleg", "Atar", "Bougué", "Boumdeid", "Boutilimit", "Chinguitti",
	"Kenkoussa", "Kiffa", "Koubenni", "Mbout", "Nema", "Nouadhibou", "Nouakchott",
	"Rkiz", "Rosso", "Sangrava", "Selibaby", "Tejikja", "Tiguint", "Zouerat",
}

// New creates a Config populated with defaults.
func New() *Config {
	cities := make([]string, len(DefaultCities))
	copy(cities, DefaultCities)

	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8080",
		UpstreamURL:       "http://localhost:8000",
		UpstreamTimeoutMS: 0,
		MaxInFlight:       0,
		Cities:            cities,
		PageTitle:         "Route Finder",
	}
}

package config

const (
	defaultConfigPath           = "~/.config/credit-sync/config.toml"
	defaultCatalogBaseURL       = "https://api.tidal.com/v1"
	defaultCountryCode          = "US"
	defaultSearchLimit          = 50
	defaultCatalogTimeout       = 30
	defaultGSelectorURL         = "http://localhost/GSImportExportService/GSImportExportService.asmx"
	defaultGSelectorTimeout     = 60
	defaultMinIntervalMS        = 1000
	defaultParticipantMaxLength = 100
	defaultLogLevel             = "info"
	defaultLockFile             = "~/.cache/credit-sync/run.lock"

	// Environment variables that override file values.
	envCatalogToken = "CREDITSYNC_CATALOG_TOKEN"
	envGSelectorURL = "CREDITSYNC_GSELECTOR_URL"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Catalog: Catalog{
			BaseURL:        defaultCatalogBaseURL,
			CountryCode:    defaultCountryCode,
			SearchLimit:    defaultSearchLimit,
			TimeoutSeconds: defaultCatalogTimeout,
		},
		GSelector: GSelector{
			URL:            defaultGSelectorURL,
			TimeoutSeconds: defaultGSelectorTimeout,
			MinIntervalMS:  defaultMinIntervalMS,
		},
		Pipeline: Pipeline{
			ParticipantMaxLength: defaultParticipantMaxLength,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
		Paths: Paths{
			LockFile: defaultLockFile,
		},
	}
}

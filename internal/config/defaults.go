package config

const (
	defaultDataDir   = "~/.local/share/cgreplay"
	defaultLogDir    = "~/.local/share/cgreplay/logs"
	defaultPairCount = 5
	defaultLogFormat = "console"
	defaultLogLevel  = "info"
	defaultBind      = "127.0.0.1:7488"

	envCatalogPath = "CGREPLAY_CATALOG"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Catalog: Catalog{
			Extensions: []string{".mp4"},
		},
		Session: Session{
			PairCount: defaultPairCount,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Server: Server{
			Bind:           defaultBind,
			AllowedOrigins: []string{"*"},
		},
	}
}

package catalog

import "time"

type Config struct {
	RefreshInterval time.Duration // zero disables periodic refresh
	LoadTimeout     time.Duration
	Verbose         bool
}

func (config Config) periodicRefreshEnabled() bool {
	return config.RefreshInterval > 0
}

func (config Config) loadTimeout() time.Duration {
	if config.LoadTimeout > 0 {
		return config.LoadTimeout
	}
	return 60 * time.Second
}

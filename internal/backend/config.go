package backend

import (
	"fmt"

	"github.com/raj-kalepu/SpendWise/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		SQLiteDBPath: appConfig.SQLiteDBPath,

		RESTBaseURL: appConfig.RESTBaseURL,
		RESTTimeout: int(appConfig.RESTTimeout.Seconds()),

		SeedDemoData: appConfig.SeedDemoData,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}

	case RESTBackend:
		if c.RESTBaseURL == "" {
			return fmt.Errorf("base URL is required for rest backend")
		}

	case MemoryBackend:
		// Nothing to check, the store is self contained.
	}

	return nil
}

package configs

import (
	"flag"
	"os"

	"github.com/roomboardhq/roomboard/internal/infrastructure/env"
)

// DetermineConfigPath resolves the config file location from the --config flag,
// the ROOMBOARD_CONFIG env var, or a set of conventional candidates. An
// empty result means run entirely on defaults.
func DetermineConfigPath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("ROOMBOARD_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"/etc/roomboard/config.yaml",
			"/app/config.yaml", // common in Docker
		}

		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	return configPath
}

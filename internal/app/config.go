package app

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/go-crm/internal/config"
)

// configPathEnv optionally points at a .env or yaml file to read
// instead of the process environment.
const configPathEnv = "CONFIG_PATH"

func MustReadEnv() {
	path := os.Getenv(configPathEnv)
	cfg, err := config.NewReader(path).Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("path", path).
			Msg("failed to read config")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Msg("read config")

	config.SetGlobal(cfg)
}

package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// dotenvFile is loaded into the process environment when present.
// Variables already set in the environment take precedence over it.
var dotenvFile = ".env"

// parseEnv overlays variables such as DATABASE_URL and SESSION_SECRET onto
// config. Unset variables leave the current value untouched. A malformed
// value (e.g. SESSION_TTL=soon) panics, like a malformed flag does.
func parseEnv(config *Config) {
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if err := env.Parse(config); err != nil {
		panic(err)
	}
}

package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads dotenv files for the current APP_ENV, most specific first:
// .env.<env>.local, .env.<env>, .env.local, .env.
// godotenv never overwrites a variable that is already set, so real env vars win
// and earlier files win over later ones. Returns the files that were loaded.
func LoadDotEnv() []string {
	env := Env()
	candidates := []string{".env." + env + ".local", ".env." + env, ".env.local", ".env"}

	var loaded []string
	for _, f := range candidates {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}

package config

import (
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/wikilist/internal/foundation/errors"
)

// EnvFiles are the dotenv files loaded, in order, from the working directory.
var EnvFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads every existing file of EnvFiles into the process
// environment. Variables already set are never overridden, so earlier files
// win over later ones. It returns the files that were loaded.
func LoadEnvFiles() ([]string, error) {
	var loaded []string
	for _, name := range EnvFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return loaded, errors.ConfigError("failed to load env file").
				WithCause(err).
				WithContext("path", name).
				Build()
		}
		loaded = append(loaded, name)
	}
	return loaded, nil
}

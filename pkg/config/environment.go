package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Environment carries the process settings the field reads at render time.
type Environment struct {
	GoogleMapAPIKey string `envconfig:"GOOGLE_MAP_API_KEY"`
	// ClientPrefix is where the widget's own LeafletField.js/.css are served.
	ClientPrefix string `envconfig:"LEAFLETFIELD_CLIENT_PREFIX" default:"/leafletfield/client"`
}

// LoadEnvironment loads the optional dotenv files (missing ones are skipped,
// variables already set in the process win) and then decodes Environment.
func LoadEnvironment(files ...string) (Environment, error) {
	for _, file := range files {
		if file == "" {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Environment{}, fmt.Errorf("config: load env file %s: %w", file, err)
		}
	}

	var env Environment
	if err := envconfig.Process("", &env); err != nil {
		return Environment{}, fmt.Errorf("config: process environment: %w", err)
	}
	return env, nil
}

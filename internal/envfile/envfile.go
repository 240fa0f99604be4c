// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package envfile loads KEY=VALUE settings from a dotenv file into the
// process environment so viper's WORDHOARD_* bindings can pick them up.
package envfile

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Load reads the dotenv file at path and sets each variable that is not
// already present in the environment. It returns the variables it applied.
// A missing file is not an error; Load returns an empty map.
func Load(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}

	applied := make(map[string]string)
	for k, v := range vars {
		if _, ok := os.LookupEnv(k); ok {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return nil, fmt.Errorf("setting %s from %s: %w", k, path, err)
		}
		applied[k] = v
	}
	return applied, nil
}

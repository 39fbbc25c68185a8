// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// DotEnvFiles are read, in order, before the configuration. Variables already
// present in the environment win.
var DotEnvFiles = []string{".env.local", ".env"}

// LoadDotEnv exports the variables of the given files. Missing files are
// skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	return nil
}

// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jcodagnone/placescout/config"
	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manages the Places API key stored in the OS keychain",
}

var keySetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Stores the API key, read from stdin when not given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		var key string

		if len(args) == 1 {
			key = args[0]
		} else {
			fmt.Fprint(os.Stderr, "API key: ")

			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading key: %w", err)
			}

			key = line
		}

		if err := config.StoreAPIKey(key); err != nil {
			return fmt.Errorf("storing key: %w", err)
		}

		fmt.Println("✅ API key stored in the keychain")

		return nil
	},
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Removes the API key from the keychain",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := config.DeleteAPIKey(); err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				fmt.Println("No API key in the keychain")

				return nil
			}

			return fmt.Errorf("deleting key: %w", err)
		}

		fmt.Println("🗑️  API key removed from the keychain")

		return nil
	},
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Shows which API key would be used and where it comes from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		key, source := cfg.ResolveAPIKey(cmd.Context())
		if source == config.KeySourceNone {
			return errors.New("no API key found")
		}

		fmt.Printf("%s (from %s)\n", maskKey(key), source)

		return nil
	},
}

// maskKey keeps the first and last characters of a key.
func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}

	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyDeleteCmd)
	keyCmd.AddCommand(keyShowCmd)
}

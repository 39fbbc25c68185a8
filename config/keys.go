// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	apikeys "cloud.google.com/go/apikeys/apiv2"
	"cloud.google.com/go/apikeys/apiv2/apikeyspb"
	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
)

// Keychain coordinates of the API key.
const (
	KeyringService = "placescout"
	KeyringAccount = "google-maps-api-key"
)

// DefaultKeyDisplayName is the API key resource looked up through ADC.
const DefaultKeyDisplayName = "placescout Places Key"

// KeySource tells where an API key came from.
type KeySource string

const (
	KeySourceNone    KeySource = ""
	KeySourceConfig  KeySource = "config"
	KeySourceKeyring KeySource = "keyring"
	KeySourceADC     KeySource = "adc"
)

// replaced in tests
var adcLookup = APIKeyFromADC

// ResolveAPIKey returns the first key found in: the configuration (file or
// environment), the OS keychain, the GCP project of the Application Default
// Credentials. An empty key with KeySourceNone means none was found, which the
// caller reports as a missing configuration.
func (c *Config) ResolveAPIKey(ctx context.Context) (string, KeySource) {
	if key := strings.TrimSpace(c.APIKey); key != "" {
		return key, KeySourceConfig
	}

	if c.Keys.Keyring {
		key, err := keyring.Get(KeyringService, KeyringAccount)

		switch {
		case err == nil && strings.TrimSpace(key) != "":
			return strings.TrimSpace(key), KeySourceKeyring
		case err != nil && !errors.Is(err, keyring.ErrNotFound):
			log.Printf("⚠️  Reading API key from keychain: %v", err)
		}
	}

	if c.Keys.ADC {
		log.Printf("No Maps key in config, %s or keychain, asking the API Keys service", EnvAPIKey)

		key, err := adcLookup(ctx, c.Keys.Project, c.Keys.DisplayName)
		if err != nil {
			log.Printf("⚠️  API Keys lookup: %v", err)
		} else {
			log.Println("✅ Maps key loaded from the API Keys service")

			return key, KeySourceADC
		}
	}

	return "", KeySourceNone
}

// StoreAPIKey saves key in the OS keychain.
func StoreAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("API key is empty")
	}

	return keyring.Set(KeyringService, KeyringAccount, strings.TrimSpace(key))
}

// DeleteAPIKey removes the key from the OS keychain.
func DeleteAPIKey() error {
	return keyring.Delete(KeyringService, KeyringAccount)
}

// APIKeyFromADC reads the Maps key labelled displayName from the API Keys
// service, authenticating with Application Default Credentials.
func APIKeyFromADC(ctx context.Context, project, displayName string) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return "", fmt.Errorf("finding default credentials: %w", err)
	}

	projectID, err := keysProject(creds.ProjectID, project)
	if err != nil {
		return "", err
	}

	client, err := apikeys.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating apikeys client: %w", err)
	}
	defer client.Close()

	name, err := keyResourceName(client.ListKeys(ctx, &apikeyspb.ListKeysRequest{
		Parent: fmt.Sprintf("projects/%s/locations/global", projectID),
	}), displayName)
	if err != nil {
		return "", fmt.Errorf("project %s: %w", projectID, err)
	}

	log.Printf("🔑 Using Maps key %q from project %s", displayName, projectID)

	// ListKeys redacts the secret
	resp, err := client.GetKeyString(ctx, &apikeyspb.GetKeyStringRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("reading secret of %s: %w", name, err)
	}

	if resp.KeyString == "" {
		return "", fmt.Errorf("%s has an empty secret", name)
	}

	return resp.KeyString, nil
}

// keysProject picks the project holding the keys. User credentials usually
// carry no project, then keys.gcp_project is required.
func keysProject(fromCreds, configured string) (string, error) {
	switch {
	case fromCreds != "":
		return fromCreds, nil
	case configured != "":
		return configured, nil
	default:
		return "", errors.New("default credentials carry no project: set keys.gcp_project")
	}
}

// keyLister is the part of the ListKeys iterator used here.
type keyLister interface {
	Next() (*apikeyspb.Key, error)
}

// keyResourceName returns the resource name of the first key labelled displayName.
func keyResourceName(it keyLister, displayName string) (string, error) {
	for {
		key, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return "", fmt.Errorf("no API key labelled %q", displayName)
		}

		if err != nil {
			return "", fmt.Errorf("listing keys: %w", err)
		}

		if key.GetDisplayName() == displayName {
			return key.GetName(), nil
		}
	}
}

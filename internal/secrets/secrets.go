// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves NCBI credentials from the environment, a .env
// file, and a directory of plain-text key files. Each file in the directory
// represents one secret: the filename is the key name and the file contents
// (trimmed) are the value.
//
// Supported key files: ncbi-api-key, ncbi-email.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Key names in the secrets directory and their environment equivalents.
const (
	KeyAPIKey = "ncbi-api-key"
	KeyEmail  = "ncbi-email"

	EnvAPIKey = "NCBI_API_KEY"
	EnvEmail  = "NCBI_EMAIL"
)

// Credentials holds the resolved NCBI access settings.
type Credentials struct {
	APIKey string
	Email  string
}

// Resolve builds Credentials with precedence: process environment, then
// .env in the working directory, then key files under dir. Missing sources
// are not errors.
func Resolve(dir string) (Credentials, error) {
	// godotenv.Load never overrides variables already in the environment,
	// which gives the env > .env precedence for free.
	_ = godotenv.Load()

	fromFiles, err := LoadDir(dir)
	if err != nil {
		return Credentials{}, err
	}

	creds := Credentials{
		APIKey: os.Getenv(EnvAPIKey),
		Email:  os.Getenv(EnvEmail),
	}
	if creds.APIKey == "" {
		creds.APIKey = fromFiles[KeyAPIKey]
	}
	if creds.Email == "" {
		creds.Email = fromFiles[KeyEmail]
	}
	return creds, nil
}

// LoadDir reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error; LoadDir returns an empty
// map. Unreadable files produce a warning on stderr but do not abort.
func LoadDir(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Package secrets reads credentials kept outside the config file.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotConfigured is returned when a source names neither a file nor a value.
var ErrNotConfigured = errors.New("secret is not configured")

// Source describes how to load a secret value.
type Source struct {
	// Name is used in error messages, e.g. "api token".
	Name string
	// Value is an inline secret. File takes precedence over it.
	Value string
	// File points to a file holding the secret.
	File string
}

func (s Source) name() string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	return "secret"
}

// Load returns the trimmed secret from src.
func Load(src Source) (string, error) {
	name := src.name()

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}

		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	return "", fmt.Errorf("%s: %w", name, ErrNotConfigured)
}

// LoadOptional is Load for secrets that may be absent. An unconfigured source
// yields an empty secret, a broken file is still an error.
func LoadOptional(src Source) (string, error) {
	secret, err := Load(src)
	if errors.Is(err, ErrNotConfigured) {
		return "", nil
	}
	return secret, err
}

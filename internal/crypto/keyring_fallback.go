//go:build !darwin

package crypto

import (
	"errors"
	"fmt"
	"os"
)

// EnvKey holds the database key on platforms without a supported keyring.
const EnvKey = "INVOICEWIZ_DB_KEY"

type envKeyring struct{}

func newPlatformKeyring() Keyring {
	return &envKeyring{}
}

// GetKey reads the encryption key from INVOICEWIZ_DB_KEY
func (k *envKeyring) GetKey() (string, error) {
	key := os.Getenv(EnvKey)
	if key == "" {
		return "", fmt.Errorf("%s environment variable not set", EnvKey)
	}
	return key, nil
}

// SetKey cannot persist anything, so it tells the user what to export.
func (k *envKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	return fmt.Errorf("keyring not available on this platform: export %s before starting invoicewiz", EnvKey)
}

func (k *envKeyring) DeleteKey() error {
	return fmt.Errorf("keyring not available on this platform: unset %s manually", EnvKey)
}

func (k *envKeyring) IsAvailable() bool {
	return os.Getenv(EnvKey) != ""
}

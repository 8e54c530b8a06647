package credential

import (
	"errors"
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

const serviceName = "jarvis"

// APIKeyName is the keyring entry holding the hosted model key.
const APIKeyName = "llm-api-key"

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/jarvis/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("jarvis-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:   key,
		Label: "JARVIS.OS model key",
		Data:  []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the system keyring. A missing
// entry is not an error.
func Delete(key string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// keyringGet is swapped in tests.
var keyringGet = Get

// providerEnv maps a provider name to its conventional key variable.
var providerEnv = map[string]string{
	"anthropic": "ANTHROPIC_API_KEY",
	"openai":    "OPENAI_API_KEY",
}

// ResolveAPIKey finds the model key for provider, checking JARVIS_API_KEY,
// then the provider's own variable, then the keyring. It returns the key and
// a short description of where it came from, or two empty strings.
func ResolveAPIKey(provider string) (key, source string) {
	if v := os.Getenv("JARVIS_API_KEY"); v != "" {
		return v, "JARVIS_API_KEY"
	}
	if name, ok := providerEnv[provider]; ok {
		if v := os.Getenv(name); v != "" {
			return v, name
		}
	}
	if v, err := keyringGet(APIKeyName); err == nil && v != "" {
		return v, "keyring"
	}
	return "", ""
}

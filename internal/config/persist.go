package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// settableKeys are the keys `atomx config set` accepts.
var settableKeys = map[string]bool{
	"domain":   true,
	"port":     true,
	"version":  true,
	"email":    true,
	"password": true,
	"format":   true,
}

// SetKey writes a single key into the global config file, creating the file
// if needed. Values are validated per key before writing.
func SetKey(key, value string) error {
	if !settableKeys[key] {
		return fmt.Errorf("unknown config key %q", key)
	}

	raw, err := readGlobalFile()
	if err != nil {
		return err
	}

	if key == "port" {
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 || n > 65535 {
			return fmt.Errorf("invalid port %q", value)
		}
		raw[key] = n
	} else {
		raw[key] = value
	}

	return writeGlobalFile(raw)
}

// UnsetKey removes a key from the global config file. Removing a key that
// is not set is not an error.
func UnsetKey(key string) error {
	if !settableKeys[key] {
		return fmt.Errorf("unknown config key %q", key)
	}

	raw, err := readGlobalFile()
	if err != nil {
		return err
	}

	delete(raw, key)
	return writeGlobalFile(raw)
}

func readGlobalFile() (map[string]any, error) {
	raw := make(map[string]any)
	data, err := os.ReadFile(GlobalConfigPath()) //nolint:gosec // G304: Path is from trusted config locations
	if err != nil {
		if os.IsNotExist(err) {
			return raw, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed config at %s: %w", GlobalConfigPath(), err)
	}
	return raw, nil
}

func writeGlobalFile(raw map[string]any) error {
	if err := os.MkdirAll(GlobalConfigDir(), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	// May hold a password, so keep it user-only.
	return os.WriteFile(GlobalConfigPath(), data, 0600)
}

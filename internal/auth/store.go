package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/zalando/go-keyring"
)

const serviceName = "atomx"

// Credentials is a stored email/password pair for one API domain.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Store handles credential storage, preferring the system keychain.
type Store struct {
	useKeyring  bool
	fallbackDir string
}

// NewStore creates a credential store.
func NewStore(fallbackDir string) *Store {
	// Skip keyring for tests or when explicitly disabled
	if os.Getenv("ATOMX_NO_KEYRING") != "" {
		return &Store{useKeyring: false, fallbackDir: fallbackDir}
	}

	// Test if keyring is available
	testKey := "atomx::test"
	err := keyring.Set(serviceName, testKey, "test")
	if err == nil {
		_ = keyring.Delete(serviceName, testKey) // Best-effort cleanup
		return &Store{useKeyring: true, fallbackDir: fallbackDir}
	}
	fmt.Fprintf(os.Stderr, "warning: system keyring unavailable, credentials stored in plaintext at %s\n",
		filepath.Join(fallbackDir, "credentials.json"))
	return &Store{useKeyring: false, fallbackDir: fallbackDir}
}

// key returns the keyring key for a domain.
func key(domain string) string {
	return fmt.Sprintf("atomx::%s", domain)
}

// Lookup returns the stored email/password for a domain. A miss returns
// empty strings, not an error; the caller decides whether that is fatal.
func (s *Store) Lookup(domain string) (email, password string) {
	creds, err := s.Load(domain)
	if err != nil {
		return "", ""
	}
	return creds.Email, creds.Password
}

// Load retrieves credentials for the given domain.
func (s *Store) Load(domain string) (*Credentials, error) {
	if s.useKeyring {
		return s.loadFromKeyring(domain)
	}
	return s.loadFromFile(domain)
}

// Save stores credentials for the given domain.
func (s *Store) Save(domain string, creds *Credentials) error {
	if s.useKeyring {
		return s.saveToKeyring(domain, creds)
	}
	return s.saveToFile(domain, creds)
}

// Delete removes credentials for the given domain.
func (s *Store) Delete(domain string) error {
	if s.useKeyring {
		return keyring.Delete(serviceName, key(domain))
	}
	return s.deleteFile(domain)
}

// UsingKeyring returns true if the store is using the system keyring.
func (s *Store) UsingKeyring() bool {
	return s.useKeyring
}

// Keyring methods

func (s *Store) loadFromKeyring(domain string) (*Credentials, error) {
	data, err := keyring.Get(serviceName, key(domain))
	if err != nil {
		return nil, fmt.Errorf("credentials not found: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(data), &creds); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}
	return &creds, nil
}

func (s *Store) saveToKeyring(domain string, creds *Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, key(domain), string(data))
}

// File fallback methods

func (s *Store) credentialsPath() string {
	return filepath.Join(s.fallbackDir, "credentials.json")
}

func (s *Store) loadAllFromFile() (map[string]*Credentials, error) {
	data, err := os.ReadFile(s.credentialsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]*Credentials), nil
		}
		return nil, err
	}

	var all map[string]*Credentials
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (s *Store) saveAllToFile(all map[string]*Credentials) error {
	if err := os.MkdirAll(s.fallbackDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}

	// Atomic write with randomized temp file name
	tmpFile, err := os.CreateTemp(s.fallbackDir, "credentials-*.json.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Chmod(0600); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	// Unix: rename atomically replaces the destination.
	// Windows: rename fails when destination exists. Try rename first to
	// preserve the old file on unrelated errors; only remove+retry on failure.
	destPath := s.credentialsPath()
	if err := os.Rename(tmpPath, destPath); err != nil {
		if runtime.GOOS == "windows" {
			_ = os.Remove(destPath)
			return os.Rename(tmpPath, destPath)
		}
		os.Remove(tmpPath) // Clean up stale temp on failure
		return err
	}
	return nil
}

func (s *Store) loadFromFile(domain string) (*Credentials, error) {
	all, err := s.loadAllFromFile()
	if err != nil {
		return nil, err
	}

	creds, ok := all[domain]
	if !ok {
		return nil, fmt.Errorf("credentials not found for %s", domain)
	}
	return creds, nil
}

func (s *Store) saveToFile(domain string, creds *Credentials) error {
	all, err := s.loadAllFromFile()
	if err != nil {
		return err
	}

	all[domain] = creds
	return s.saveAllToFile(all)
}

func (s *Store) deleteFile(domain string) error {
	all, err := s.loadAllFromFile()
	if err != nil {
		return err
	}

	delete(all, domain)
	return s.saveAllToFile(all)
}

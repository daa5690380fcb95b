// Package secret stores credentials behind pluggable backends.
package secret

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/huimingz/commitgen/internal/config"
	"github.com/huimingz/commitgen/internal/log"
	"github.com/zalando/go-keyring"
)

// APIKey is the key under which the model API key is stored
const APIKey = "api_key"

// KeyringService is the service name used in the OS keychain
const KeyringService = "commitgen"

// EnvPrefix prefixes environment variable names read by EnvStore
const EnvPrefix = "COMMITGEN_"

var (
	// ErrNotFound is returned when a backend has no value for a key
	ErrNotFound = errors.New("secret not found")

	// ErrReadOnly is returned by backends that cannot store values
	ErrReadOnly = errors.New("secret backend is read-only")

	// ErrNotPersisted is returned when a value is usable for this run but
	// could not be written to disk
	ErrNotPersisted = errors.New("secret not persisted")
)

// Store reads and writes secrets by key
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// ConfigStore keeps the API key in the configuration file
type ConfigStore struct {
	cfg *config.Config
}

// NewConfigStore creates a store backed by cfg and its file
func NewConfigStore(cfg *config.Config) *ConfigStore {
	return &ConfigStore{cfg: cfg}
}

func (s *ConfigStore) Get(key string) (string, error) {
	if key != APIKey || s.cfg.APIKey == "" {
		return "", ErrNotFound
	}
	return s.cfg.APIKey, nil
}

// Set updates the in-memory configuration first, so the value stays usable
// even when saving fails. A failed save is logged and reported as
// ErrNotPersisted.
func (s *ConfigStore) Set(key, value string) error {
	if key != APIKey {
		return fmt.Errorf("config store does not hold %q", key)
	}
	s.cfg.APIKey = value

	if err := config.Save(s.cfg); err != nil {
		log.Warn("Could not save API key to config: %v", err)
		return fmt.Errorf("%w: %v", ErrNotPersisted, err)
	}
	return nil
}

// KeyringStore keeps secrets in the OS keychain
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a keychain store for service
func NewKeyringStore(service string) *KeyringStore {
	if service == "" {
		service = KeyringService
	}
	return &KeyringStore{service: service}
}

func (s *KeyringStore) Get(key string) (string, error) {
	value, err := keyring.Get(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s from keychain: %w", key, err)
	}
	return value, nil
}

func (s *KeyringStore) Set(key, value string) error {
	if err := keyring.Set(s.service, key, value); err != nil {
		return fmt.Errorf("failed to write %s to keychain: %w", key, err)
	}
	return nil
}

// EnvStore reads secrets from environment variables such as COMMITGEN_API_KEY
type EnvStore struct {
	prefix string
}

// NewEnvStore creates an environment store using EnvPrefix
func NewEnvStore() *EnvStore {
	return &EnvStore{prefix: EnvPrefix}
}

// VarName returns the environment variable consulted for key
func (s *EnvStore) VarName(key string) string {
	return s.prefix + strings.ToUpper(key)
}

func (s *EnvStore) Get(key string) (string, error) {
	value := strings.TrimSpace(os.Getenv(s.VarName(key)))
	if value == "" {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *EnvStore) Set(key, value string) error {
	return fmt.Errorf("%w: set %s in your shell instead", ErrReadOnly, s.VarName(key))
}

// Chain reads from each store in order. Writes go to the first store that
// is not read-only.
type Chain []Store

func (c Chain) Get(key string) (string, error) {
	for _, s := range c {
		value, err := s.Get(key)
		if err == nil {
			return value, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}
	return "", ErrNotFound
}

func (c Chain) Set(key, value string) error {
	for _, s := range c {
		err := s.Set(key, value)
		if errors.Is(err, ErrReadOnly) {
			continue
		}
		return err
	}
	return ErrReadOnly
}

// ForConfig builds the store selected by cfg.SecretBackend. The environment
// is always consulted first.
func ForConfig(cfg *config.Config) (Store, error) {
	env := NewEnvStore()

	switch cfg.SecretBackend {
	case "", "config":
		return Chain{env, NewConfigStore(cfg)}, nil
	case "keyring":
		return Chain{env, NewKeyringStore(KeyringService)}, nil
	case "env":
		return Chain{env}, nil
	default:
		return nil, fmt.Errorf("unsupported secret backend: %s", cfg.SecretBackend)
	}
}

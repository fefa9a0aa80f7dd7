package cliconfig

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	DirName        = ".amdapi"
	ConfigFileName = "config.json"
	LedgerFileName = "uploaded.json"
)

// Config holds CLI-level settings: API credentials and endpoint overrides.
// Credentials from this file lose to explicit flags and win over the
// environment.
type Config struct {
	ClientID     string `json:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
	BaseURL      string `json:"base_url,omitempty"`
	AuthURL      string `json:"auth_url,omitempty"`
}

// Ledger records sha256 hashes of recordings already uploaded by watch mode,
// so a re-touched file is not analyzed twice. Safe for concurrent use; watch
// mode updates it from both the quiescence callbacks and the retry loop.
type Ledger struct {
	mu     sync.Mutex
	Hashes map[string]time.Time `json:"hashes"`
}

func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, DirName)
}

func Path() string {
	return filepath.Join(Dir(), ConfigFileName)
}

func LedgerPath() string {
	return filepath.Join(Dir(), LedgerFileName)
}

func EnsureDir() error {
	return os.MkdirAll(Dir(), 0700)
}

func Load() (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save() error {
	if err := EnsureDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(Path(), data, 0600)
}

func (c *Config) HasCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

func LoadLedger() (*Ledger, error) {
	ledger := &Ledger{Hashes: make(map[string]time.Time)}

	data, err := os.ReadFile(LedgerPath())
	if err != nil {
		if os.IsNotExist(err) {
			return ledger, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, ledger); err != nil {
		return nil, err
	}
	if ledger.Hashes == nil {
		ledger.Hashes = make(map[string]time.Time)
	}
	return ledger, nil
}

func (l *Ledger) Save() error {
	if err := EnsureDir(); err != nil {
		return err
	}
	l.mu.Lock()
	data, err := json.MarshalIndent(l, "", "  ")
	l.mu.Unlock()
	if err != nil {
		return err
	}
	return os.WriteFile(LedgerPath(), data, 0600)
}

func (l *Ledger) Has(hash string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, exists := l.Hashes[hash]
	return exists
}

func (l *Ledger) Add(hash string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Hashes[hash] = time.Now()
}

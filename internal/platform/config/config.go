package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileName = "config.yaml"

// File holds the user-editable knobs read from <data>/config.yaml.
type File struct {
	Session struct {
		DefaultDurationMin int `yaml:"default_duration_min"`
		QueueLimit         int `yaml:"queue_limit"`
		RitualSeconds      int `yaml:"ritual_seconds"`
		CompletionSeconds  int `yaml:"completion_seconds"`
	} `yaml:"session"`
	Provider struct {
		Binary string `yaml:"binary"`
	} `yaml:"provider"`
}

type Config struct {
	DataDir      string
	DBPath       string
	SnapshotPath string
	JournalDir   string

	DefaultDurationMin int
	QueueLimit         int
	RitualSeconds      int
	CompletionSeconds  int
	ProviderBinary     string
}

// New resolves paths under dataDir and merges config.yaml over defaults.
// A missing file yields defaults; a malformed file is an error.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		dataDir = filepath.Join(home, ".forge")
	}

	cfg := Config{
		DataDir:            dataDir,
		DBPath:             filepath.Join(dataDir, "forge.db"),
		SnapshotPath:       filepath.Join(dataDir, "snapshot.json"),
		JournalDir:         filepath.Join(dataDir, "journal"),
		DefaultDurationMin: 25,
		QueueLimit:         5,
		RitualSeconds:      6,
		CompletionSeconds:  4,
	}

	raw, err := os.ReadFile(filepath.Join(dataDir, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	file := File{}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if file.Session.DefaultDurationMin > 0 {
		cfg.DefaultDurationMin = file.Session.DefaultDurationMin
	}
	if file.Session.QueueLimit > 0 {
		cfg.QueueLimit = file.Session.QueueLimit
	}
	if file.Session.RitualSeconds > 0 {
		cfg.RitualSeconds = file.Session.RitualSeconds
	}
	if file.Session.CompletionSeconds > 0 {
		cfg.CompletionSeconds = file.Session.CompletionSeconds
	}
	cfg.ProviderBinary = file.Provider.Binary
	return cfg, nil
}

package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/haunted-sh/haunted/internal/domain"
	"github.com/haunted-sh/haunted/internal/ports"
)

// FileLoader loads YAML configuration from ~/.haunted/config.yaml
// (overridable via HAUNTED_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. On first run the default config is
// written to disk so the user has something to edit.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := defaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("HAUNTED_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(userHomeDir(), ".haunted", "config.yaml")
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

func defaultConfig() domain.Config {
	home := filepath.Join(userHomeDir(), ".haunted")
	return domain.Config{
		ConfigFormatVersion: "1",
		Model: domain.ModelSettings{
			Endpoint:       domain.DefaultEndpoint,
			Name:           domain.DefaultModelName,
			TimeoutSeconds: int(domain.DefaultGatewayTimeout.Seconds()),
		},
		History: domain.HistorySettings{
			Enabled:         true,
			Path:            filepath.Join(home, "history.db"),
			SuggestionLimit: domain.DefaultSuggestionLimit,
		},
		Safety: domain.SafetySettings{
			RulesFile: filepath.Join(home, "safety.yaml"),
			Blacklist: filepath.Join(home, "blacklist.txt"),
		},
		Knowledge: domain.KnowledgeSettings{
			Path: filepath.Join(home, "knowledge.txt"),
		},
		Execution: domain.ExecutionSettings{
			Shell:           "/bin/sh",
			AutoExecuteSafe: false,
		},
	}
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Model.Endpoint == "" {
		cfg.Model.Endpoint = domain.DefaultEndpoint
	}
	if cfg.Model.Name == "" {
		cfg.Model.Name = domain.DefaultModelName
	}
	if cfg.Model.TimeoutSeconds == 0 {
		cfg.Model.TimeoutSeconds = int(domain.DefaultGatewayTimeout.Seconds())
	}
	if cfg.History.SuggestionLimit == 0 {
		cfg.History.SuggestionLimit = domain.DefaultSuggestionLimit
	}
	if cfg.Execution.Shell == "" {
		cfg.Execution.Shell = "/bin/sh"
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.ConfigProvider = (*FileLoader)(nil)

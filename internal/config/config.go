package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the CLI, the pipeline and the VM.
type Config struct {
	LogLevel  string     `yaml:"log_level"`
	TypeCheck string     `yaml:"typecheck"`
	VM        VMConfig   `yaml:"vm"`
	REPL      REPLConfig `yaml:"repl"`
}

type VMConfig struct {
	Trace        bool `yaml:"trace"`
	MaxStack     int  `yaml:"max_stack"`
	MaxCallDepth int  `yaml:"max_call_depth"`
}

type REPLConfig struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
}

func Default() *Config {
	return &Config{
		LogLevel:  "warn",
		TypeCheck: TypeCheckOff,
		VM: VMConfig{
			MaxStack:     1 << 20,
			MaxCallDepth: 10000,
		},
		REPL: REPLConfig{
			Prompt:      ">>> ",
			HistoryFile: "~/.func_history",
		},
	}
}

// Load reads path over the defaults. An empty path searches the working
// directory and then ~/.func.yaml; finding neither is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		found, err := findConfigFile()
		if err != nil {
			return nil, err
		}
		if found == "" {
			return cfg, cfg.Validate()
		}
		path = found
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", expanded, err)
	}
	return cfg, cfg.Validate()
}

func findConfigFile() (string, error) {
	candidates := []string{ConfigFileName}
	if home, err := homedir.Dir(); err == nil {
		candidates = append(candidates, filepath.Join(home, "."+ConfigFileName))
	}
	for _, candidate := range candidates {
		_, err := os.Stat(candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("config: %w", err)
		}
	}
	return "", nil
}

// Validate checks the settings and expands the history path.
func (c *Config) Validate() error {
	switch c.TypeCheck {
	case "":
		c.TypeCheck = TypeCheckOff
	case TypeCheckOff, TypeCheckWarn, TypeCheckStrict:
	default:
		return fmt.Errorf("config: unknown typecheck mode %q", c.TypeCheck)
	}
	if c.VM.MaxStack < 0 || c.VM.MaxCallDepth < 0 {
		return errors.New("config: vm limits must not be negative")
	}
	if c.REPL.HistoryFile != "" {
		expanded, err := homedir.Expand(c.REPL.HistoryFile)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		c.REPL.HistoryFile = expanded
	}
	return nil
}

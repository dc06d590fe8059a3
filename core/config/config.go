// Package config loads and validates the shell's YAML configuration.
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	ConfigurationName = "config.yaml"
	HistoryName       = "history"
	SessionLogName    = "session.log"
)

// Configuration is the shell's user-tunable configuration.
type Configuration struct {
	configFs  afero.Fs
	configDir string

	// Prompt is the prompt template; \u, \h, \w and \$ expand to the
	// user, host, working directory and prompt character.
	Prompt string `json:"prompt" validate:"required"`

	// ColorPrompt colorizes the prompt on terminals.
	ColorPrompt bool `json:"color_prompt"`

	// HistoryLimit caps stored history entries, zero means unlimited.
	HistoryLimit int `json:"history_limit" validate:"gte=0"`

	// CompleteCwd includes working-directory executables in completion.
	CompleteCwd bool `json:"complete_cwd"`

	// LogSession enables the JSON-lines session log.
	LogSession bool `json:"log_session"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewOsFs()
	}
	return c.configFs
}

func (c *Configuration) path(name string) string {
	return filepath.Join(c.configDir, name)
}

// OpenSessionLog opens the session log for appending.
func (c *Configuration) OpenSessionLog() (afero.File, error) {
	return c.fs().OpenFile(c.path(SessionLogName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
}

// ReadHistory returns the persisted history lines, oldest first. A missing
// history file is an empty history.
func (c *Configuration) ReadHistory() ([]string, error) {
	data, err := afero.ReadFile(c.fs(), c.path(HistoryName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// WriteHistory replaces the persisted history with the given lines.
func (c *Configuration) WriteHistory(lines []string) error {
	data := strings.Join(lines, "\n")
	if data != "" {
		data += "\n"
	}
	return afero.WriteFile(c.fs(), c.path(HistoryName), []byte(data), 0o600)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

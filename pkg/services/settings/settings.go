package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings are the optional tool-level defaults. Command flags always
// win over values loaded here.
type Settings struct {
	Profile    string `mapstructure:"profile"`
	OutputDir  string `mapstructure:"output_dir"`
	MaxDetails int    `mapstructure:"max_details"`
	NoColor    bool   `mapstructure:"no_color"`
}

func Default() *Settings {
	return &Settings{
		Profile:    "default",
		MaxDetails: 20,
	}
}

// Load reads settings from the given file, or from
// $HOME/.policy-atlas.yaml when path is empty. A missing default file is
// not an error; an explicitly named file must exist.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetDefault("profile", "default")
	v.SetDefault("max_details", 20)

	explicit := path != ""
	if !explicit {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return Default(), nil
		}
		path = filepath.Join(homeDir, ".policy-atlas.yaml")
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &s, nil
}

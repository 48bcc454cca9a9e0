package store

import (
	"log"
	"os"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config exposes the settings the persistence and sync layers need.
type Config interface {
	BasePath() string
	VaultPath() string
	SyncInterval() time.Duration
	PushDebounce() time.Duration
}

// LoadConfig resolves configuration from a .dayring file, DAYRING_*
// environment variables, and defaults, in that order of preference.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.dayring/db")
	viper.SetDefault("vault", "~/.dayring/vault")
	viper.SetDefault("sync-interval", "1m")
	viper.SetDefault("push-debounce", "2s")
	viper.SetConfigName(".dayring") // .yaml is implicit
	viper.SetEnvPrefix("DAYRING")
	viper.AutomaticEnv()

	if override := os.Getenv("DAYRING_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	viper.AddConfigPath("./")
	viper.AddConfigPath("$HOME")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("error reading config file: %v", err)
			return nil, err
		}
	}

	return &fileConfig{
		Path:     expand(viper.GetString("path")),
		Vault:    expand(viper.GetString("vault")),
		Interval: viper.GetDuration("sync-interval"),
		Debounce: viper.GetDuration("push-debounce"),
	}, nil
}

func expand(p string) string {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return p
	}
	return expanded
}

type fileConfig struct {
	Path     string        `json:"path"`
	Vault    string        `json:"vault"`
	Interval time.Duration `json:"syncInterval"`
	Debounce time.Duration `json:"pushDebounce"`
}

func (f *fileConfig) BasePath() string            { return f.Path }
func (f *fileConfig) VaultPath() string           { return f.Vault }
func (f *fileConfig) SyncInterval() time.Duration { return f.Interval }
func (f *fileConfig) PushDebounce() time.Duration { return f.Debounce }

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/apkforge/apkforge/internal/android"
	"github.com/apkforge/apkforge/internal/branding"
	"github.com/apkforge/apkforge/internal/identity"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys recognised in config.yaml. Environment variables use the branding
// prefix with dots replaced by underscores (APKFORGE_PLATFORM_MIN_SDK).
const (
	KeyPlatformJarURL   = "platform.jar_url"
	KeyMinSDK           = "platform.min_sdk"
	KeyTargetSDK        = "platform.target_sdk"
	KeyDefaultName      = "defaults.name"
	KeyDefaultNamespace = "defaults.namespace"
)

// Keys lists every recognised key in display order.
var Keys = []string{KeyPlatformJarURL, KeyMinSDK, KeyTargetSDK, KeyDefaultName, KeyDefaultNamespace}

// Known reports whether key is one of Keys.
func Known(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Compiled defaults.
const (
	DefaultPlatformJarURL = android.DefaultPlatformJarURL
	DefaultMinSDK         = android.DefaultMinSDK
	DefaultTargetSDK      = android.DefaultTargetSDK
	DefaultName           = identity.DefaultName
	DefaultNamespace      = identity.DefaultNamespace
)

// Settings is the typed view of the loaded configuration.
type Settings struct {
	PlatformJarURL   string
	MinSDK           int
	TargetSDK        int
	DefaultName      string
	DefaultNamespace string
}

// Dir returns the path to the config directory (~/.apkforge/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.apkforge/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyPlatformJarURL, DefaultPlatformJarURL)
	viper.SetDefault(KeyMinSDK, DefaultMinSDK)
	viper.SetDefault(KeyTargetSDK, DefaultTargetSDK)
	viper.SetDefault(KeyDefaultName, DefaultName)
	viper.SetDefault(KeyDefaultNamespace, DefaultNamespace)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Defaults returns the identity fallbacks carried by s.
func (s Settings) Defaults() identity.Defaults {
	return identity.Defaults{Name: s.DefaultName, Namespace: s.DefaultNamespace}
}

// Constants returns the platform constants with the configured overrides
// applied.
func (s Settings) Constants() android.Constants {
	c := android.Defaults()
	c.PlatformJarURL = s.PlatformJarURL
	c.MinSDK = s.MinSDK
	c.TargetSDK = s.TargetSDK
	return c
}

// Current returns the settings resolved by the last Load. Invalid or
// non-positive SDK levels fall back to the compiled defaults.
func Current() Settings {
	s := Settings{
		PlatformJarURL:   viper.GetString(KeyPlatformJarURL),
		MinSDK:           viper.GetInt(KeyMinSDK),
		TargetSDK:        viper.GetInt(KeyTargetSDK),
		DefaultName:      viper.GetString(KeyDefaultName),
		DefaultNamespace: viper.GetString(KeyDefaultNamespace),
	}
	if s.PlatformJarURL == "" {
		s.PlatformJarURL = DefaultPlatformJarURL
	}
	if s.MinSDK <= 0 {
		s.MinSDK = DefaultMinSDK
	}
	if s.TargetSDK <= 0 {
		s.TargetSDK = DefaultTargetSDK
	}
	if strings.TrimSpace(s.DefaultName) == "" {
		s.DefaultName = DefaultName
	}
	if strings.TrimSpace(s.DefaultNamespace) == "" {
		s.DefaultNamespace = DefaultNamespace
	}
	return s
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	v, err := parse(key, value)
	if err != nil {
		return err
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, v)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// parse converts value to the type stored under key. SDK levels must be
// positive integers.
func parse(key, value string) (any, error) {
	switch key {
	case KeyMinSDK, KeyTargetSDK:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid value %q for %s: must be a positive integer", value, key)
		}
		return n, nil
	}
	return value, nil
}

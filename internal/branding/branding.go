// Package branding provides compile-time identity values for the CLI.
//
// Forkers edit branding.yaml in this package before building. Go's
// //go:embed bakes it into the binary, overlaying the hard defaults below.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	GoModule    string `yaml:"go_module"`
	GitHubRepo  string `yaml:"github_repo"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:     "apkforge",
			DisplayName: "APKForge",
			Description: "Scaffold Android projects for shell-only toolchains",
			HomeDir:     ".apkforge",
			EnvPrefix:   "APKFORGE",
			GoModule:    "github.com/apkforge/apkforge",
			GitHubRepo:  "apkforge/apkforge",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "apkforge").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".apkforge").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "APKFORGE").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// GitHubRepo returns the "owner/repo" string.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// UserAgent returns the User-Agent sent with asset downloads.
func UserAgent() string { load(); return defaults.CLIName + "-provisioner" }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "APKFORGE_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}

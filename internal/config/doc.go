// Package config manages user-level settings stored at ~/.apkforge/config.yaml.
// It resolves the platform jar download URL, the minimum and target SDK
// levels baked into generated projects, and the default project identity,
// layering compiled defaults, the config file, and APKFORGE_* variables.
package config

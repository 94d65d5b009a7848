// Package android holds the fixed platform values a generated project is
// built against: SDK levels, the platform jar location, the debug keystore
// parameters, and the well-known file names shared by the provisioner and
// the build script.
package android

import (
	"fmt"
	"strconv"
)

// Well-known paths, relative to the project root and slash separated.
const (
	ManifestFile    = "AndroidManifest.xml"
	BuildScriptFile = "build.sh"
	PlatformJarFile = "lib/android.jar"
	KeystoreFile    = "debug.keystore"
	EntryClass      = "MainActivity"
)

// Compiled-in platform values.
const (
	DefaultMinSDK         = 21
	DefaultTargetSDK      = 34
	DefaultMilestoneEvery = 10
	DefaultPlatformJarURL = "https://github.com/Sable/android-platforms/raw/master/android-34/android.jar"
)

// Keystore describes the self-signed debug signing credential. The store
// password ends up in plain text inside build.sh; it is meant for local
// debug signing only.
type Keystore struct {
	Path         string
	Alias        string
	StorePass    string
	KeyPass      string
	KeyAlg       string
	KeySize      int
	ValidityDays int
	DName        string
}

// DebugKeystore is the credential every project is signed with.
var DebugKeystore = Keystore{
	Path:         KeystoreFile,
	Alias:        "androiddebugkey",
	StorePass:    "android",
	KeyPass:      "android",
	KeyAlg:       "RSA",
	KeySize:      2048,
	ValidityDays: 10000,
	DName:        "CN=Android Debug,O=Android,C=US",
}

// GenKeyArgs returns the keytool arguments that create k at path.
func (k Keystore) GenKeyArgs(path string) []string {
	return []string{
		"-genkey", "-v",
		"-keystore", path,
		"-storepass", k.StorePass,
		"-alias", k.Alias,
		"-keypass", k.KeyPass,
		"-keyalg", k.KeyAlg,
		"-keysize", strconv.Itoa(k.KeySize),
		"-validity", strconv.Itoa(k.ValidityDays),
		"-dname", k.DName,
	}
}

// Constants is everything besides the ProjectSpec that rendering depends on.
type Constants struct {
	MinSDK         int
	TargetSDK      int
	MilestoneEvery int
	PlatformJarURL string
	Keystore       Keystore
}

// Defaults returns the compiled-in constants.
func Defaults() Constants {
	return Constants{
		MinSDK:         DefaultMinSDK,
		TargetSDK:      DefaultTargetSDK,
		MilestoneEvery: DefaultMilestoneEvery,
		PlatformJarURL: DefaultPlatformJarURL,
		Keystore:       DebugKeystore,
	}
}

// Validate rejects SDK combinations no toolchain accepts.
func (c Constants) Validate() error {
	if c.MinSDK <= 0 || c.TargetSDK <= 0 {
		return fmt.Errorf("sdk levels must be positive (min %d, target %d)", c.MinSDK, c.TargetSDK)
	}
	if c.MinSDK > c.TargetSDK {
		return fmt.Errorf("min sdk %d is above target sdk %d", c.MinSDK, c.TargetSDK)
	}
	if c.MilestoneEvery <= 0 {
		return fmt.Errorf("milestone interval must be positive, got %d", c.MilestoneEvery)
	}
	return nil
}

// Package stamp reads and writes .apkforge.yaml, the record a scaffold run
// leaves in the project root. A later run compares it with its own
// identity to warn about drift the generator does not clean up.
package stamp

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"go.yaml.in/yaml/v3"
)

// FileName is the stamp file inside the project root.
const FileName = ".apkforge.yaml"

// Stamp describes the run that last generated a project.
type Stamp struct {
	Generator   string    `yaml:"generator"`
	Version     string    `yaml:"version"`
	Name        string    `yaml:"name"`
	Namespace   string    `yaml:"namespace"`
	MinSDK      int       `yaml:"min_sdk"`
	TargetSDK   int       `yaml:"target_sdk"`
	GeneratedAt time.Time `yaml:"generated_at"`
}

// Path returns the stamp location for root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Load reads the stamp in root. Returns nil, nil if there is none.
func Load(root string) (*Stamp, error) {
	data, err := os.ReadFile(Path(root))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading stamp: %w", err)
	}

	var s Stamp
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing stamp: %w", err)
	}
	return &s, nil
}

// Save writes s into root, replacing any previous stamp.
func Save(root string, s Stamp) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling stamp: %w", err)
	}
	if err := os.WriteFile(Path(root), data, 0o644); err != nil {
		return fmt.Errorf("writing stamp: %w", err)
	}
	return nil
}

// Compare returns human-readable warnings about differences between the
// stamp left by a previous run and the current one. A nil prev yields none.
func Compare(prev *Stamp, cur Stamp) []string {
	if prev == nil {
		return nil
	}

	var warnings []string
	if prev.Namespace != "" && prev.Namespace != cur.Namespace {
		warnings = append(warnings, fmt.Sprintf(
			"namespace changed from %s to %s; the old source tree under %s was left in place",
			prev.Namespace, cur.Namespace, sourceTree(prev.Namespace)))
	}
	if newer(prev.Version, cur.Version) {
		warnings = append(warnings, fmt.Sprintf(
			"project was generated by %s %s, newer than this %s",
			prev.Generator, prev.Version, cur.Version))
	}
	return warnings
}

func sourceTree(ns string) string {
	parts := []string{"src", "main", "java"}
	for _, seg := range strings.Split(ns, ".") {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return path.Join(parts...)
}

// newer reports whether a is a strictly higher release than b. Versions
// that do not parse as semver ("dev", "") never compare newer.
func newer(a, b string) bool {
	av, err := parseSemver(a)
	if err != nil {
		return false
	}
	bv, err := parseSemver(b)
	if err != nil {
		return false
	}
	return av.GreaterThan(bv)
}

func parseSemver(version string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(version, "v"))
}

package provision

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/apkforge/apkforge/internal/android"
	"github.com/apkforge/apkforge/internal/platform"
)

// RunFunc executes an external command and returns its combined output.
type RunFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRun runs the command with os/exec.
func ExecRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// KeyGenerator creates the signing keystore with keytool. Unlike a bare
// subprocess call, the exit status is checked: a failing keytool leaves the
// asset absent and is reported as a credential generation failure.
type KeyGenerator struct {
	Keystore android.Keystore
	Tool     string
	Run      RunFunc
}

// NewKeyGenerator returns a generator for ks using keytool from PATH.
func NewKeyGenerator(ks android.Keystore) *KeyGenerator {
	return &KeyGenerator{Keystore: ks, Tool: "keytool", Run: ExecRun}
}

// Acquire runs keytool to create a.LocalPath.
func (g *KeyGenerator) Acquire(ctx context.Context, a Asset) error {
	run := g.Run
	if run == nil {
		run = ExecRun
	}
	tool := g.Tool
	if tool == "" {
		tool = "keytool"
	}

	out, err := run(ctx, tool, g.Keystore.GenKeyArgs(a.LocalPath)...)
	if err != nil {
		// keytool can leave a truncated store behind on failure.
		os.Remove(a.LocalPath)
		return fmt.Errorf("%s failed: %w%s", tool, err, outputTail(out))
	}
	if _, err := os.Stat(a.LocalPath); err != nil {
		return fmt.Errorf("%s reported success but %s is missing", tool, a.LocalPath)
	}
	if err := platform.Chmod(a.LocalPath, 0600); err != nil {
		return fmt.Errorf("restricting permissions on %s: %w", a.LocalPath, err)
	}
	return nil
}

// outputTail returns the last non-empty line of out, formatted for an error.
func outputTail(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" {
		return ""
	}
	return ": " + last
}

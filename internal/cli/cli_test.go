package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apkforge/apkforge/internal/preflight"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at a fresh directory for the rest of the test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), stdin, args...)
}

func executeContext(t *testing.T, ctx context.Context, stdin string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	parentDir, answersFile, verbose = ".", "", false
	versionShort, versionJSON = false, false

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	return out.String(), err
}

func withTools(t *testing.T, missing ...string) {
	t.Helper()
	lookPath = func(name string) (string, error) {
		for _, m := range missing {
			if m == name {
				return "", errors.New("not found")
			}
		}
		return "/usr/bin/" + name, nil
	}
	runTool = func(_ context.Context, _ string, args ...string) ([]byte, error) {
		for i, a := range args {
			if a == "-keystore" {
				return nil, os.WriteFile(args[i+1], []byte("ks"), 0o600)
			}
		}
		return nil, errors.New("no keystore path")
	}
	t.Cleanup(func() { lookPath, runTool = nil, nil })
}

func jarServer(t *testing.T) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("PK fake jar"))
	}))
	t.Cleanup(srv.Close)
	t.Setenv("APKFORGE_PLATFORM_JAR_URL", srv.URL+"/android.jar")
}

func TestDoctor_AllFound(t *testing.T) {
	isolate(t)
	withTools(t)
	out, err := execute(t, "", "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "[ OK ] javac found at /usr/bin/javac")
	assert.Contains(t, out, "min sdk     21")
	assert.Contains(t, out, "All required tools found.")
}

func TestDoctor_Missing(t *testing.T) {
	isolate(t)
	withTools(t, preflight.Signer)
	out, err := execute(t, "", "doctor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 6 required tools missing")
	assert.Contains(t, out, "[MISS] apksigner not found")
	assert.Contains(t, out, preflight.Hint)
}

func TestVersion(t *testing.T) {
	isolate(t)
	buildVersion, buildCommit, buildDate = "1.2.3", "abc", "today"

	out, err := execute(t, "", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)

	out, err = execute(t, "", "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"commit": "abc"`)
	assert.Contains(t, out, `"min_sdk": 21`)
	assert.Contains(t, out, `"target_sdk": 34`)

	out, err = execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "apkforge version 1.2.3 (commit: abc, built: today)\n"+
		"generates projects for android-34 (min sdk 21)\n", out)
}

func TestVersion_ReflectsConfiguredPlatform(t *testing.T) {
	isolate(t)
	t.Setenv("APKFORGE_PLATFORM_TARGET_SDK", "33")

	out, err := execute(t, "", "version", "--json")
	require.NoError(t, err)
	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, 33, info.TargetSDK)
	assert.Equal(t, 21, info.MinSDK)
	assert.NotEmpty(t, info.PlatformJarURL)
}

func TestConfigSetGet(t *testing.T) {
	home := isolate(t)

	_, err := execute(t, "", "config", "set", "platform.colour", "blue")
	assert.ErrorContains(t, err, "unknown config key")

	out, err := execute(t, "", "config", "set", "defaults.name", "Cfg")
	require.NoError(t, err)
	assert.Equal(t, "Set defaults.name = Cfg\n", out)

	data, err := os.ReadFile(filepath.Join(home, ".apkforge", "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Cfg")

	out, err = execute(t, "", "config", "get", "defaults.name")
	require.NoError(t, err)
	assert.Equal(t, "Cfg\n", out)
}

func TestConfigSet_RejectsNonNumericSDK(t *testing.T) {
	home := isolate(t)

	_, err := execute(t, "", "config", "set", "platform.min_sdk", "abc")
	assert.ErrorContains(t, err, "must be a positive integer")
	assert.NoFileExists(t, filepath.Join(home, ".apkforge", "config.yaml"))

	out, err := execute(t, "", "config", "set", "platform.target_sdk", "33")
	require.NoError(t, err)
	assert.Equal(t, "Set platform.target_sdk = 33\n", out)
}

func TestRoot_Scaffold(t *testing.T) {
	isolate(t)
	withTools(t)
	jarServer(t)
	dir := t.TempDir()

	out, err := execute(t, "Demo\ncom.example.demo\n", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Project Name (default: MyTermuxApp): ")
	assert.Contains(t, out, "=== DONE ===")
	assert.Contains(t, out, "2. ./build.sh")

	for _, rel := range []string{"build.sh", "AndroidManifest.xml", "lib/android.jar", "debug.keystore"} {
		assert.FileExists(t, filepath.Join(dir, "Demo", filepath.FromSlash(rel)))
	}
}

func TestRoot_AnswersFileDeclined(t *testing.T) {
	isolate(t)
	withTools(t)
	jarServer(t)
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Demo"), 0o755))
	answers := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(answers, []byte("name: Demo\noverwrite: false\n"), 0o644))

	out, err := execute(t, "", "--dir", dir, "--answers", answers)
	require.NoError(t, err)
	assert.NotContains(t, out, "DONE")
	assert.NoFileExists(t, filepath.Join(dir, "Demo", "build.sh"))
}

func TestRoot_NoInput(t *testing.T) {
	isolate(t)
	withTools(t)
	dir := t.TempDir()

	_, err := execute(t, "", "--dir", dir)
	require.NoError(t, err)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestRoot_InterruptedAtPrompt(t *testing.T) {
	isolate(t)
	withTools(t)
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := executeContext(t, ctx, "Demo\ncom.example.demo\n", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted by user.")
	assert.NotContains(t, out, "Project Name")
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestRoot_MissingTools(t *testing.T) {
	isolate(t)
	withTools(t, preflight.Compiler, preflight.KeyTool)
	dir := t.TempDir()

	out, err := execute(t, "Demo\n\n", "--dir", dir)
	var missing *preflight.MissingToolsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"javac", "keytool"}, missing.Names)
	assert.Contains(t, out, preflight.Hint)
	assert.NotContains(t, out, "Project Name")

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestRoot_BadAnswersFile(t *testing.T) {
	isolate(t)
	withTools(t)
	answers := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(answers, []byte("nme: typo\n"), 0o644))

	_, err := execute(t, "", "--dir", t.TempDir(), "--answers", answers)
	assert.ErrorContains(t, err, "invalid answers file")
}

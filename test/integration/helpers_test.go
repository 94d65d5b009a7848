//go:build integration

package integration_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir   string // HOME, holds ~/.apkforge/config.yaml
	BinDir    string // fake toolchain, prepended to PATH
	ParentDir string // where projects are generated
	JarURL    string
	Fetches   *atomic.Int32
}

// fakeTools are shell stand-ins for the Android toolchain. Each one checks
// that its inputs exist and creates the output the real tool would, so a
// generated build.sh can run end to end.
var fakeTools = map[string]string{
	"javac": `out=""
while [ $# -gt 0 ]; do
  case "$1" in -d) out="$2"; shift ;; *.java) [ -f "$1" ] || exit 3 ;; esac
  shift
done
[ -n "$out" ] || exit 2
mkdir -p "$out" && touch "$out/MainActivity.class"`,

	"d8": `out=""
seen=0
while [ $# -gt 0 ]; do
  case "$1" in
    --output) out="$2"; shift ;;
    --lib) [ -f "$2" ] || exit 3; shift ;;
    *.class) [ -f "$1" ] || exit 3; seen=1 ;;
  esac
  shift
done
[ "$seen" = 1 ] || exit 4
mkdir -p "$out" && touch "$out/classes.dex"`,

	"aapt2": `[ "$1" = link ] || exit 2
shift
out=""
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift ;;
    -I|--manifest) [ -f "$2" ] || exit 3; shift ;;
  esac
  shift
done
touch "$out"`,

	"zip": `[ "$1" = -uj ] || exit 2
[ -f "$2" ] && [ -f "$3" ] || exit 3`,

	"apksigner": `[ "$1" = sign ] || exit 2
shift
out=""
while [ $# -gt 0 ]; do
  case "$1" in
    --ks) [ -f "$2" ] || exit 3; shift ;;
    --ks-pass) shift ;;
    --out) out="$2"; shift ;;
    *) in="$1" ;;
  esac
  shift
done
[ -f "$in" ] || exit 3
cp "$in" "$out"`,

	"keytool": `while [ $# -gt 0 ]; do
  case "$1" in -keystore) touch "$2"; exit 0 ;; esac
  shift
done
exit 1`,
}

// setupTestEnv isolates HOME, installs the fake toolchain on PATH, and
// serves a platform jar. Env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:   t.TempDir(),
		BinDir:    t.TempDir(),
		ParentDir: t.TempDir(),
		Fetches:   &atomic.Int32{},
	}

	for name, body := range fakeTools {
		writeExecutable(t, filepath.Join(env.BinDir, name), "#!/bin/sh\n"+body+"\n")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.Fetches.Add(1)
		w.Write([]byte("PK\x03\x04 platform classes"))
	}))
	t.Cleanup(srv.Close)
	env.JarURL = srv.URL + "/android.jar"

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("PATH", env.BinDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv("APKFORGE_PLATFORM_JAR_URL", env.JarURL)

	return env
}

// removeTool deletes a fake tool so preflight sees it as missing.
func removeTool(t *testing.T, env *testEnv, name string) {
	t.Helper()
	if err := os.Remove(filepath.Join(env.BinDir, name)); err != nil {
		t.Fatalf("removing %s: %v", name, err)
	}
}

func writeExecutable(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}

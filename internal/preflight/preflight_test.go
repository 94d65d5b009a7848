package preflight

import (
	"bytes"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLookPath resolves every name except those listed as absent.
func fakeLookPath(absent ...string) LookPathFunc {
	gone := make(map[string]bool)
	for _, a := range absent {
		gone[a] = true
	}
	return func(name string) (string, error) {
		if gone[name] {
			return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
		}
		return "/usr/bin/" + name, nil
	}
}

func TestCheck_AllPresent(t *testing.T) {
	c := New(fakeLookPath())
	assert.NoError(t, c.Check(RequiredTools))
}

func TestCheck_ReportsEveryMissingTool(t *testing.T) {
	c := New(fakeLookPath(Transformer, Signer))

	err := c.Check(RequiredTools)
	require.Error(t, err)

	var missing *MissingToolsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"d8", "apksigner"}, missing.Names)
	assert.Contains(t, err.Error(), "d8, apksigner")
}

func TestCheck_GenericNames(t *testing.T) {
	tools := []string{"compiler", "transformer", "linker", "archiver", "signer", "keytool"}
	c := New(fakeLookPath("transformer", "signer"))

	var missing *MissingToolsError
	require.ErrorAs(t, c.Check(tools), &missing)
	assert.Equal(t, []string{"transformer", "signer"}, missing.Names)
}

func TestCheck_DuplicatesReportedOnce(t *testing.T) {
	c := New(fakeLookPath("zip"))

	var missing *MissingToolsError
	require.ErrorAs(t, c.Check([]string{"zip", "javac", "zip"}), &missing)
	assert.Equal(t, []string{"zip"}, missing.Names)
}

func TestCheck_ConsultsEveryTool(t *testing.T) {
	var asked []string
	c := New(func(name string) (string, error) {
		asked = append(asked, name)
		return "", exec.ErrNotFound
	})

	_ = c.Check(RequiredTools)
	assert.Equal(t, RequiredTools, asked, "check must not stop at the first failure")
}

func TestNew_DefaultsToExecLookPath(t *testing.T) {
	c := New(nil)
	require.NotNil(t, c.LookPath)
}

func TestWriteReport(t *testing.T) {
	res := New(fakeLookPath(Linker)).Probe([]string{Compiler, Linker})

	var buf bytes.Buffer
	n := WriteReport(&buf, res)

	assert.Equal(t, 1, n)
	assert.Contains(t, buf.String(), "[ OK ] javac found at /usr/bin/javac")
	assert.Contains(t, buf.String(), "[MISS] aapt2 not found")
}

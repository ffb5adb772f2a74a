package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCatalog(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"catalog"}, args...))
	t.Cleanup(func() {
		catalogFile = ""
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCatalogCommand_Default(t *testing.T) {
	out, err := runCatalog(t)
	require.NoError(t, err)

	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "Plane of Time B (Quarm)")
	assert.Contains(t, out, `19 flags, root "knowledge", terminal "quarm"`)
}

func TestCatalogCommand_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cycle.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[flag]]
key = "a"
name = "A"
depends_on = ["b"]

[[flag]]
key = "b"
name = "B"
depends_on = ["a"]
`), 0o600))

	_, err := runCatalog(t, "--file", path)
	assert.Error(t, err)
}

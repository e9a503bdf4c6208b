package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/folio/internal/model"
)

// run executes the CLI with args from an empty working directory.
func run(t *testing.T, args ...string) (stdout string, err error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), err
}

func TestShow(t *testing.T) {
	out, err := run(t, "show", "saas", "--db", ":memory:")
	require.NoError(t, err)

	var c model.Content
	require.NoError(t, json.Unmarshal([]byte(out), &c), out)
	assert.NotEmpty(t, c.Name)
	assert.Contains(t, out, `"socialLinks"`)
}

func TestShow_RejectsUnknownKind(t *testing.T) {
	_, err := run(t, "show", "blog", "--db", ":memory:")
	assert.Error(t, err)

	_, err = run(t, "show", "--db", ":memory:")
	assert.Error(t, err)
}

func TestShow_UsesOverrideDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "portfolio.yaml"), []byte("name: From Override\n"), 0o644))

	out, err := run(t, "show", "portfolio", "--db", ":memory:", "--defaults-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "From Override")
}

func TestExport(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "site")

	out, err := run(t, "export", "--db", ":memory:", "--out", outDir)
	require.NoError(t, err)

	lines := strings.Fields(out)
	assert.Len(t, lines, len(model.Kinds())+1)
	for _, k := range model.Kinds() {
		_, err := os.Stat(filepath.Join(outDir, string(k), "index.html"))
		assert.NoError(t, err, k)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("FOLIO_SESSION_TTL", "-1s")

	_, err := run(t, "show", "portfolio", "--db", ":memory:")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session.ttl")
}

package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// GoldenUpdateEnv names the variable that rewrites golden files instead of
// comparing against them.
const GoldenUpdateEnv = "TODO_UPDATE_GOLDEN"

// Golden compares output against testdata/<name>.golden.
// Line endings are normalized so checkouts with CRLF still match.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	goldenPath := filepath.Join("testdata", name+".golden")

	if os.Getenv(GoldenUpdateEnv) != "" {
		require.NoError(t, os.MkdirAll("testdata", 0o755))
		require.NoError(t, os.WriteFile(goldenPath, got, 0o644))
		return
	}

	want, err := os.ReadFile(goldenPath)
	require.NoErrorf(t, err, "reading golden file %s; got:\n%s", goldenPath, got)

	assert.Equal(t, normalize(string(want)), normalize(string(got)), "output mismatch for %s", name)
}

// GoldenString is like Golden but takes a string.
func GoldenString(t *testing.T, name string, got string) {
	t.Helper()
	Golden(t, name, []byte(got))
}

func normalize(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

package uringcat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	. "github.com/stretchr/testify/require"
)

var testLogger = zerolog.Nop()

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

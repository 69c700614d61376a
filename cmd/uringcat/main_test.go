package main

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	. "github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := run(append([]string{"uringcat"}, args...), &stdout, &stderr)

	return stdout.String(), stderr.String(), err
}

func TestUsageWithoutFiles(t *testing.T) {
	stdout, stderr, err := runCmd(t)
	NoError(t, err)
	Empty(t, stdout)
	Equal(t, usage+"\n", stderr)
}

func TestPrintsFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	NoError(t, os.WriteFile(a, []byte("A"), 0o600))
	NoError(t, os.WriteFile(b, []byte("B"), 0o600))

	stdout, stderr, err := runCmd(t, "--strict", a, b)
	NoError(t, err)
	Equal(t, "A\nB\n", stdout)
	Empty(t, stderr)

	stdout, _, err = runCmd(t, "--strict", "--pipelined", "--openWorkers", "2", b, a)
	NoError(t, err)
	Equal(t, "B\nA\n", stdout)
}

func TestMissingFileAborts(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	NoError(t, os.WriteFile(a, []byte("A"), 0o600))
	missing := filepath.Join(dir, "missing.txt")

	stdout, _, err := runCmd(t, a, missing)
	ErrorIs(t, err, fs.ErrNotExist)
	Contains(t, err.Error(), missing)
	Empty(t, stdout)
}

func TestRejectsUnknownLoggerLevel(t *testing.T) {
	_, _, err := runCmd(t, "--loggerLevel", "verbose", "a.txt")
	ErrorContains(t, err, "possible values for logger level")
}

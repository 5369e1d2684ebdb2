package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const libraryFile = "../../internal/library/testdata/nist-800-171.json"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConvertBundle(t *testing.T) {
	out, err := run(t, "convert", libraryFile, "--type", "bundle")
	require.NoError(t, err)

	var res struct {
		Success bool   `json:"success"`
		Format  string `json:"format"`
		Data    struct {
			Code    string `json:"code"`
			Version string `json:"version"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "NIST-SP-800-171-rev2", res.Data.Code)
	assert.Equal(t, "3", res.Data.Version)
}

func TestTreeText(t *testing.T) {
	out, err := run(t, "tree", libraryFile)
	require.NoError(t, err)

	assert.Contains(t, out, "3.1 Access Control\n")
	assert.Contains(t, out, "  3.1.1 Limit system access *\n")
	assert.Contains(t, out, "    3.10.1 Limit physical access *\n")
	assert.NotContains(t, out, "Orphan")
}

func TestConvertMissingFile(t *testing.T) {
	_, err := run(t, "convert", "does-not-exist.json")
	assert.Error(t, err)
}

func TestSyncRequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	_, err := run(t, "sync-bundles")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")
}

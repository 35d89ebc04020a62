package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calpicker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	old := flags
	flags = globalFlags{configPath: path}
	t.Cleanup(func() { flags = old })
}

func TestGridCommand(t *testing.T) {
	writeConfig(t, "timezone: UTC\nselected_date: \"2024-03-15\"\nmarked_days: [\"2024-03-08\"]\n")

	cmd := newGridCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	s := out.String()
	assert.Contains(t, s, "March 2024")
	assert.Contains(t, s, "[15]")
	assert.Contains(t, s, " 8*")
}

func TestGridCommandDateOverride(t *testing.T) {
	writeConfig(t, "timezone: UTC\nselected_date: \"2024-03-15\"\nweek_start: monday\n")

	cmd := newGridCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--date", "2023-12-31"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "December 2023")
	assert.Contains(t, out.String(), "Mon Tue Wed Thu Fri Sat Sun")

	cmd = newGridCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--date", "31/12/2023"})
	assert.Error(t, cmd.Execute())
}

func TestGridCommandInvalidConfig(t *testing.T) {
	writeConfig(t, "timezone: UTC\nselected_date: \"2024-03-15\"\nmin_date: \"2024-04-01\"\nmax_date: \"2024-01-01\"\n")

	cmd := newGridCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs(nil)
	assert.Error(t, cmd.Execute())
}

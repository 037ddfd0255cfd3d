package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "simulator", cfg.Backend.Type)
	assert.Equal(t, 1024, cfg.Defaults.Shots)
	assert.Equal(t, []int{0, 1, 2}, cfg.Defaults.Qubits)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
backend:
  type: qiskit
  qiskit:
    api_key: test-key
    crn: "crn:v1:test"
    backend: ibm_brisbane
defaults:
  shots: 4096
  qubits: [5, 3, 8]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "qiskit", cfg.Backend.Type)
	assert.Equal(t, "test-key", cfg.Backend.Qiskit.APIKey)
	assert.Equal(t, "ibm_brisbane", cfg.Backend.Qiskit.Backend)
	assert.Equal(t, 4096, cfg.Defaults.Shots)
	assert.Equal(t, []int{5, 3, 8}, cfg.Defaults.Qubits)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "3000"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "simulator", cfg.Backend.Type)
	assert.Equal(t, 1024, cfg.Defaults.Shots)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
backend:
  type: qiskit
`)
	t.Setenv("GHZ_QISKIT_API_KEY", "env-key")
	t.Setenv("PORT", "7777")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Backend.Qiskit.APIKey)
	assert.Equal(t, "7777", cfg.Server.Port)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown backend type", "backend:\n  type: abacus\n"},
		{"qiskit without key", "backend:\n  type: qiskit\n"},
		{"non-positive shots", "defaults:\n  shots: -1\n"},
		{"malformed yaml", "backend: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GHZ_QISKIT_API_KEY", "")
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

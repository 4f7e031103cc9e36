// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDir(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyAPIKey, "  abc123  \n")
				writeFile(t, dir, KeyEmail, "user@example.com\n")
				return dir
			},
			want: map[string]string{
				KeyAPIKey: "abc123",
				KeyEmail:  "user@example.com",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files and dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyAPIKey, "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				return dir
			},
			want: map[string]string{
				KeyAPIKey: "valid-key",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyEmail, "a@b.org")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				KeyEmail: "a@b.org",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := LoadDir(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePrecedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, KeyAPIKey, "from-file")
	writeFile(t, dir, KeyEmail, "file@example.com")

	// Environment wins over key files.
	t.Setenv(EnvAPIKey, "from-env")
	t.Setenv(EnvEmail, "")

	creds, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", creds.APIKey)
	assert.Equal(t, "file@example.com", creds.Email, "unset env falls back to key file")
}

func TestResolveAllMissing(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvEmail, "")

	creds, err := Resolve(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, creds.APIKey)
	assert.Empty(t, creds.Email)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

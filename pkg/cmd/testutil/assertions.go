package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pseudomuto/dbkeeper/pkg/consts"
	"github.com/stretchr/testify/require"
)

// RequireValidProject asserts that a project structure is correctly initialized
func RequireValidProject(t *testing.T, projectDir string) {
	t.Helper()

	require.FileExists(t, filepath.Join(projectDir, consts.ProjectFile), ".db should exist")
	require.FileExists(t, filepath.Join(projectDir, "db", "create.sql"), "create.sql should exist")
	require.DirExists(t, filepath.Join(projectDir, "db", "populate"), "populate directory should exist")
	require.DirExists(t, filepath.Join(projectDir, "db", "populate", "default"), "default data set should exist")
}

// RequireFileExists asserts that a file exists and optionally checks its content
func RequireFileExists(t *testing.T, path string, checks ...func(content string)) {
	t.Helper()

	require.FileExists(t, path, "File should exist: %s", path)

	if len(checks) > 0 {
		content, err := os.ReadFile(path)
		require.NoError(t, err, "Failed to read file: %s", path)

		contentStr := string(content)
		for _, check := range checks {
			check(contentStr)
		}
	}
}

// RequireFileContains returns a check function that verifies file contains text
func RequireFileContains(t *testing.T, expected string) func(string) {
	return func(content string) {
		require.Contains(t, content, expected, "File should contain: %s", expected)
	}
}

// RequireNoTempFiles asserts that dir holds no leftover temporary SQL files
func RequireNoTempFiles(t *testing.T, dir string) {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, consts.TempPattern))
	require.NoError(t, err)
	require.Empty(t, matches, "Temporary files should be removed")
}

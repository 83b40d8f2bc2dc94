package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/memo/internal/adapters/fs"
)

func TestResolver_ResolveInputs(t *testing.T) {
	tmpDir := t.TempDir()
	for _, f := range []string{"z.txt", "a.txt", "m.txt", "c.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, f), []byte("content"), 0o600))
	}

	resolver := fs.NewResolver()

	t.Run("sorted and deduplicated", func(t *testing.T) {
		resolved, err := resolver.ResolveInputs([]string{"*.txt", "a.txt"}, tmpDir)
		require.NoError(t, err)
		require.Len(t, resolved, 3)
		assert.Equal(t, filepath.Join(tmpDir, "a.txt"), resolved[0])
		assert.Equal(t, filepath.Join(tmpDir, "m.txt"), resolved[1])
		assert.Equal(t, filepath.Join(tmpDir, "z.txt"), resolved[2])
	})

	t.Run("no matches", func(t *testing.T) {
		_, err := resolver.ResolveInputs([]string{"*.nonexistent"}, tmpDir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "input not found")
	})

	t.Run("malformed pattern", func(t *testing.T) {
		_, err := resolver.ResolveInputs([]string{"["}, tmpDir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to glob path")
	})
}

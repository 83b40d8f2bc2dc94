package cas_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/memo/internal/adapters/cas"
	"go.trai.ch/memo/internal/core/domain"
)

const (
	fpA = domain.Fingerprint("becdbfe1c8ec08d5c4ccc32f58602fc227f4ce35")
	fpB = domain.Fingerprint("c0e0c3b38dfa744fae4654bdaf174ae27417c5c0")
)

func snapshotOf(name, tag string, fp domain.Fingerprint) *domain.ParamSnapshot {
	return &domain.ParamSnapshot{
		ObjectName:  name,
		RunTag:      tag,
		Fingerprint: fp,
		Fields: []domain.SnapshotField{
			{Name: "A1", Kind: domain.FieldParam, Value: "x", Digest: "11f6ad8ec52a2984abaafd7c3b516503785c2072"},
		},
	}
}

func TestStore_RootNotConfigured(t *testing.T) {
	t.Parallel()

	store := cas.NewStore("")

	_, err := store.Root()
	require.ErrorIs(t, err, domain.ErrCacheRootNotConfigured)

	_, _, err = store.Find("A", fpA)
	require.ErrorIs(t, err, domain.ErrCacheRootNotConfigured)

	_, err = store.Create(snapshotOf("A", "", fpA))
	require.ErrorIs(t, err, domain.ErrCacheRootNotConfigured)
}

func TestStore_CreateAndFind(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := cas.NewStore(root)

	_, ok, err := store.Find("A", fpA)
	require.NoError(t, err)
	assert.False(t, ok)

	folder, err := store.Create(snapshotOf("A", "first", fpA))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "A", "A_first_"+fpA.String()), folder)

	got, ok, err := store.Find("A", fpA)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, folder, got)

	snapshot, err := store.ReadSnapshot(folder)
	require.NoError(t, err)
	assert.Equal(t, snapshotOf("A", "first", fpA), snapshot)

	entries, err := os.ReadDir(filepath.Join(root, "A"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary directories must not remain")
}

func TestStore_Resolve_IgnoresRunTag(t *testing.T) {
	t.Parallel()

	store := cas.NewStore(t.TempDir())

	first, err := store.Resolve(snapshotOf("A", "first", fpA))
	require.NoError(t, err)

	second, err := store.Resolve(snapshotOf("A", "second", fpA))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := store.Resolve(snapshotOf("A", "second", fpB))
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
	assert.Equal(t, "A_second_"+fpB.String(), filepath.Base(other))
}

func TestStore_Find_ExactName(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := cas.NewStore(root)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "A", "AB_"+fpA.String()), domain.DirPerm))

	_, ok, err := store.Find("A", fpA)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Find_Ambiguous(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := cas.NewStore(root)

	for _, tag := range []string{"first", "second"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "A", domain.FolderName("A", tag, fpA)), domain.DirPerm))
	}

	_, _, err := store.Find("A", fpA)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAmbiguousCacheEntry)
}

func TestStore_Create_Concurrent(t *testing.T) {
	t.Parallel()

	store := cas.NewStore(t.TempDir())

	const workers = 8
	results := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = store.Create(snapshotOf("A", "", fpA))
		}()
	}
	wg.Wait()

	for i := range workers {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}

	folders, err := store.List("A")
	require.NoError(t, err)
	assert.Len(t, folders, 1)
}

func TestStore_List(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := cas.NewStore(root)

	folders, err := store.List("A")
	require.NoError(t, err)
	assert.Empty(t, folders)

	_, err = store.Create(snapshotOf("A", "x_y", fpA))
	require.NoError(t, err)
	_, err = store.Create(snapshotOf("A", "", fpB))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "A", domain.TempDirPrefix+"stale"), domain.DirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(root, "A", "notes.txt"), nil, domain.PrivateFilePerm))

	folders, err = store.List("A")
	require.NoError(t, err)
	require.Len(t, folders, 2)

	assert.Equal(t, fpA, folders[0].Fingerprint)
	assert.Equal(t, "x_y", folders[0].RunTag)
	assert.Equal(t, fpB, folders[1].Fingerprint)
	assert.Empty(t, folders[1].RunTag)
}

func TestStore_List_OrderedByFingerprintThenTag(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := cas.NewStore(root)

	for _, name := range []string{
		domain.FolderName("A", "zeta", fpA),
		domain.FolderName("A", "", fpB),
		domain.FolderName("A", "alpha", fpA),
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "A", name), domain.DirPerm))
	}

	folders, err := store.List("A")
	require.NoError(t, err)
	require.Len(t, folders, 3)

	got := make([]string, 0, len(folders))
	for _, f := range folders {
		got = append(got, f.Fingerprint.Short()+"/"+f.RunTag)
	}
	assert.Equal(t, []string{fpA.Short() + "/alpha", fpA.Short() + "/zeta", fpB.Short() + "/"}, got)
}

func TestStore_Publish(t *testing.T) {
	t.Parallel()

	store := cas.NewStore(t.TempDir())
	folder, err := store.Create(snapshotOf("A", "", fpA))
	require.NoError(t, err)

	err = store.Publish(folder, func(staging string) error {
		require.NoError(t, os.WriteFile(filepath.Join(staging, "data.txt"), []byte("v1"), domain.PrivateFilePerm))
		return os.Mkdir(filepath.Join(staging, "parts"), domain.DirPerm)
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(folder, "data.txt"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
	assert.DirExists(t, filepath.Join(folder, "parts"))

	t.Run("replaces existing entries", func(t *testing.T) {
		err := store.Publish(folder, func(staging string) error {
			return os.WriteFile(filepath.Join(staging, "data.txt"), []byte("v2"), domain.PrivateFilePerm)
		})
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(folder, "data.txt"))
		require.NoError(t, err)
		assert.Equal(t, "v2", string(data))
	})

	t.Run("failed write leaves nothing behind", func(t *testing.T) {
		boom := assert.AnError
		err := store.Publish(folder, func(staging string) error {
			_ = os.WriteFile(filepath.Join(staging, "partial.txt"), []byte("x"), domain.PrivateFilePerm)
			return boom
		})
		require.ErrorIs(t, err, boom)
		assert.NoFileExists(t, filepath.Join(folder, "partial.txt"))

		entries, err := os.ReadDir(folder)
		require.NoError(t, err)
		for _, entry := range entries {
			assert.NotContains(t, entry.Name(), domain.StagingDirPrefix)
		}
	})
}

func TestStore_Relocate(t *testing.T) {
	t.Parallel()

	store := cas.NewStore(t.TempDir())
	folder, err := store.Create(snapshotOf("A", "first", fpA))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(folder, "data.txt"), []byte("payload"), domain.PrivateFilePerm))

	moved, err := store.Relocate(folder, snapshotOf("A", "first", fpB))
	require.NoError(t, err)
	assert.Equal(t, "A_first_"+fpB.String(), filepath.Base(moved))
	assert.NoDirExists(t, folder)
	assert.FileExists(t, filepath.Join(moved, "data.txt"))

	snapshot, err := store.ReadSnapshot(moved)
	require.NoError(t, err)
	assert.Equal(t, fpB, snapshot.Fingerprint)

	t.Run("same name rewrites params only", func(t *testing.T) {
		again, err := store.Relocate(moved, snapshotOf("A", "first", fpB))
		require.NoError(t, err)
		assert.Equal(t, moved, again)
	})

	t.Run("target taken", func(t *testing.T) {
		other, err := store.Create(snapshotOf("A", "first", fpA))
		require.NoError(t, err)
		_, err = store.Relocate(other, snapshotOf("A", "first", fpB))
		require.ErrorIs(t, err, domain.ErrRelocateFailed)
	})
}

func TestStore_Remove(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := cas.NewStore(root)
	folder, err := store.Create(snapshotOf("A", "", fpA))
	require.NoError(t, err)

	require.NoError(t, store.Remove(folder))
	assert.NoDirExists(t, folder)

	for _, outside := range []string{root, filepath.Dir(root), filepath.Join(root, "..", "elsewhere")} {
		err := store.Remove(outside)
		require.ErrorIs(t, err, domain.ErrOutsideCacheRoot, outside)
	}
	assert.DirExists(t, root)
}

func TestStore_ReadSnapshot_Corrupt(t *testing.T) {
	t.Parallel()

	store := cas.NewStore(t.TempDir())
	folder, err := store.Create(snapshotOf("A", "", fpA))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(folder, domain.ParamsFileName), []byte("{ invalid json"), domain.PrivateFilePerm))

	_, err = store.ReadSnapshot(folder)
	require.ErrorIs(t, err, domain.ErrSnapshotReadFailed)

	_, err = store.ReadSnapshot(filepath.Join(folder, "missing"))
	require.ErrorIs(t, err, domain.ErrSnapshotReadFailed)
}

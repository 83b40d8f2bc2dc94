// Package cas implements the content addressed cache store: one folder per object
// name and fingerprint, each carrying a params.json snapshot of its inputs.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CacheStore = (*Store)(nil)

// Store implements ports.CacheStore below a single cache root.
type Store struct {
	root string
}

// NewStore creates a store rooted at root. An empty root yields a store whose
// every operation fails with domain.ErrCacheRootNotConfigured.
func NewStore(root string) *Store {
	if root != "" {
		root = filepath.Clean(root)
	}
	return &Store{root: root}
}

// Root returns the cache root.
func (s *Store) Root() (string, error) {
	if s.root == "" {
		return "", domain.ErrCacheRootNotConfigured
	}
	return s.root, nil
}

func (s *Store) objectDir(name string) (string, error) {
	root, err := s.Root()
	if err != nil {
		return "", err
	}
	if err := domain.ValidateObjectName(name); err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

// Find returns the folder of name with fingerprint fp, whatever its run tag.
func (s *Store) Find(name string, fp domain.Fingerprint) (string, bool, error) {
	folders, err := s.List(name)
	if err != nil {
		return "", false, err
	}

	var matches []string
	for _, folder := range folders {
		if folder.Fingerprint == fp {
			matches = append(matches, folder.Path)
		}
	}

	switch len(matches) {
	case 0:
		return "", false, nil
	case 1:
		return matches[0], true, nil
	default:
		err := zerr.With(zerr.Wrap(domain.ErrAmbiguousCacheEntry, "resolve cache folder"), "object", name)
		err = zerr.With(err, "fingerprint", fp.String())
		return "", false, zerr.With(err, "candidates", matches)
	}
}

// List returns every cache folder of name, ordered by fingerprint and then run tag.
func (s *Store) List(name string) ([]domain.CacheFolder, error) {
	dir, err := s.objectDir(name)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Join(domain.ErrCacheFolderListFailed,
			zerr.With(zerr.Wrap(err, "read object directory"), "path", dir))
	}

	matcher := domain.NewFolderMatcher(name)
	var folders []domain.CacheFolder
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), domain.HiddenPrefix) {
			continue
		}
		tag, fp, ok := matcher.Parse(entry.Name())
		if !ok {
			continue
		}
		folders = append(folders, domain.CacheFolder{
			ObjectName:  name,
			RunTag:      tag,
			Fingerprint: fp,
			Path:        filepath.Join(dir, entry.Name()),
		})
	}

	sort.Slice(folders, func(i, j int) bool {
		if folders[i].Fingerprint != folders[j].Fingerprint {
			return folders[i].Fingerprint < folders[j].Fingerprint
		}
		return folders[i].RunTag < folders[j].RunTag
	})
	return folders, nil
}

// Create builds the folder in a hidden temporary directory and renames it into place,
// so other processes never observe a folder without params.json. If another process
// wins the rename, its folder is returned.
func (s *Store) Create(snapshot *domain.ParamSnapshot) (string, error) {
	dir, err := s.objectDir(snapshot.ObjectName)
	if err != nil {
		return "", err
	}
	if err := domain.ValidateRunTag(snapshot.RunTag); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return "", createFailed(err, dir)
	}

	tmp := filepath.Join(dir, domain.TempDirPrefix+uuid.NewString())
	if err := os.Mkdir(tmp, domain.DirPerm); err != nil {
		return "", createFailed(err, tmp)
	}

	if err := writeSnapshot(tmp, snapshot); err != nil {
		_ = os.RemoveAll(tmp)
		return "", err
	}

	target := filepath.Join(dir, domain.FolderName(snapshot.ObjectName, snapshot.RunTag, snapshot.Fingerprint))
	if err := os.Rename(tmp, target); err != nil {
		_ = os.RemoveAll(tmp)
		if info, statErr := os.Stat(target); statErr == nil && info.IsDir() {
			return target, nil
		}
		return "", createFailed(err, target)
	}

	return target, nil
}

// Resolve returns the existing folder for snapshot or creates a new one.
func (s *Store) Resolve(snapshot *domain.ParamSnapshot) (string, error) {
	folder, ok, err := s.Find(snapshot.ObjectName, snapshot.Fingerprint)
	if err != nil {
		return "", err
	}
	if ok {
		return folder, nil
	}
	return s.Create(snapshot)
}

// Publish hands write an empty staging directory inside folder and then renames
// every entry it produced into folder, replacing entries of the same name.
// Errors returned by write are passed through unchanged.
func (s *Store) Publish(folder string, write func(staging string) error) error {
	if err := s.inside(folder); err != nil {
		return err
	}

	staging := filepath.Join(folder, domain.StagingDirPrefix+uuid.NewString())
	if err := os.Mkdir(staging, domain.DirPerm); err != nil {
		return publishFailed(err, staging)
	}
	defer os.RemoveAll(staging) //nolint:errcheck // Best effort cleanup

	if err := write(staging); err != nil {
		return err
	}

	entries, err := os.ReadDir(staging)
	if err != nil {
		return publishFailed(err, staging)
	}

	for _, entry := range entries {
		src := filepath.Join(staging, entry.Name())
		dst := filepath.Join(folder, entry.Name())
		if info, err := os.Lstat(dst); err == nil && info.IsDir() {
			if err := os.RemoveAll(dst); err != nil {
				return publishFailed(err, dst)
			}
		}
		if err := os.Rename(src, dst); err != nil {
			return publishFailed(err, dst)
		}
	}

	return nil
}

// ReadSnapshot decodes the params.json of folder.
func (s *Store) ReadSnapshot(folder string) (*domain.ParamSnapshot, error) {
	path := filepath.Join(folder, domain.ParamsFileName)
	//nolint:gosec // Path is a cache folder below the configured root
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(domain.ErrSnapshotReadFailed,
			zerr.With(zerr.Wrap(err, "read params file"), "path", path))
	}

	var snapshot domain.ParamSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, errors.Join(domain.ErrSnapshotReadFailed,
			zerr.With(zerr.Wrap(err, "decode params file"), "path", path))
	}
	return &snapshot, nil
}

// Relocate moves folder to the name derived from snapshot and rewrites its params.json.
// The payload files are kept.
func (s *Store) Relocate(folder string, snapshot *domain.ParamSnapshot) (string, error) {
	if err := s.inside(folder); err != nil {
		return "", err
	}
	dir, err := s.objectDir(snapshot.ObjectName)
	if err != nil {
		return "", err
	}
	if err := domain.ValidateRunTag(snapshot.RunTag); err != nil {
		return "", err
	}

	target := filepath.Join(dir, domain.FolderName(snapshot.ObjectName, snapshot.RunTag, snapshot.Fingerprint))
	if filepath.Clean(folder) != target {
		if _, err := os.Stat(target); err == nil {
			err := zerr.With(zerr.Wrap(domain.ErrRelocateFailed, "target folder already exists"), "from", folder)
			return "", zerr.With(err, "to", target)
		}
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return "", relocateFailed(err, folder, target)
		}
		if err := os.Rename(folder, target); err != nil {
			return "", relocateFailed(err, folder, target)
		}
	}

	if err := writeSnapshot(target, snapshot); err != nil {
		return "", err
	}
	return target, nil
}

// Remove deletes folder and everything in it.
func (s *Store) Remove(folder string) error {
	if err := s.inside(folder); err != nil {
		return err
	}
	if err := os.RemoveAll(folder); err != nil {
		return errors.Join(domain.ErrRemoveFailed,
			zerr.With(zerr.Wrap(err, "remove cache folder"), "path", folder))
	}
	return nil
}

// inside rejects paths that are not strictly below the cache root.
func (s *Store) inside(path string) error {
	root, err := s.Root()
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(root, filepath.Clean(path))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		err := zerr.With(zerr.Wrap(domain.ErrOutsideCacheRoot, "check cache path"), "path", path)
		return zerr.With(err, "root", root)
	}
	return nil
}

// writeSnapshot writes params.json through a temporary file and a rename.
func writeSnapshot(folder string, snapshot *domain.ParamSnapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return errors.Join(domain.ErrSnapshotMarshalFailed, zerr.Wrap(err, "encode params file"))
	}
	data = append(data, '\n')

	path := filepath.Join(folder, domain.ParamsFileName)
	tmp := filepath.Join(folder, domain.HiddenPrefix+domain.ParamsFileName+"-"+uuid.NewString())
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return errors.Join(domain.ErrSnapshotWriteFailed,
			zerr.With(zerr.Wrap(err, "write params file"), "path", tmp))
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Join(domain.ErrSnapshotWriteFailed,
			zerr.With(zerr.Wrap(err, "rename params file"), "path", path))
	}
	return nil
}

func createFailed(err error, path string) error {
	return errors.Join(domain.ErrCacheFolderCreateFailed,
		zerr.With(zerr.Wrap(err, "create cache folder"), "path", path))
}

func publishFailed(err error, path string) error {
	return errors.Join(domain.ErrPublishFailed,
		zerr.With(zerr.Wrap(err, "move staged payload"), "path", path))
}

func relocateFailed(err error, from, to string) error {
	wrapped := zerr.With(zerr.Wrap(err, "rename cache folder"), "from", from)
	return errors.Join(domain.ErrRelocateFailed, zerr.With(wrapped, "to", to))
}

package fs

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/zerr"
)

// File returns a parameter whose canonical value is the content hash of the file at path.
// Moving the file does not change the value, editing it does.
func File(path string) domain.Param {
	return &fileParam{path: path, hasher: NewHasher(NewWalker())}
}

// Dir returns a parameter covering every file below path. Names matching one of the
// ignore patterns are skipped, as are .git and .jj.
func Dir(path string, ignores ...string) domain.Param {
	return &dirParam{path: path, ignores: ignores, hasher: NewHasher(NewWalker())}
}

// Glob returns a parameter covering every file matched by patterns relative to root.
func Glob(root string, patterns ...string) domain.Param {
	return &globParam{root: root, patterns: patterns, resolver: NewResolver(), hasher: NewHasher(NewWalker())}
}

type fileParam struct {
	path   string
	hasher *Hasher
}

func (p *fileParam) Canonical() ([]byte, error) {
	hash, err := p.hasher.ComputeFileHash(p.path)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("%016x", hash)), nil
}

type dirParam struct {
	path    string
	ignores []string
	hasher  *Hasher
}

func (p *dirParam) Canonical() ([]byte, error) {
	info, err := os.Stat(p.path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", p.path)
	}
	if !info.IsDir() {
		return nil, zerr.With(zerr.New("not a directory"), "path", p.path)
	}

	digest := xxhash.New()
	for file, err := range p.hasher.walker.WalkFiles(p.path, p.ignores) {
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to walk directory"), "path", p.path)
		}
		if err := p.hasher.hashFile(p.path, file, digest); err != nil {
			return nil, err
		}
	}

	return []byte(fmt.Sprintf("%016x", digest.Sum64())), nil
}

type globParam struct {
	root     string
	patterns []string
	resolver *Resolver
	hasher   *Hasher
}

func (p *globParam) Canonical() ([]byte, error) {
	paths, err := p.resolver.ResolveInputs(p.patterns, p.root)
	if err != nil {
		return nil, err
	}

	digest := xxhash.New()
	for _, path := range paths {
		if err := p.hasher.hashPath(p.root, path, digest); err != nil {
			return nil, err
		}
	}

	return []byte(fmt.Sprintf("%016x", digest.Sum64())), nil
}

// hashPath hashes a file, or every file below a directory.
func (h *Hasher) hashPath(base, path string, digest *xxhash.Digest) error {
	info, err := os.Stat(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}

	if !info.IsDir() {
		return h.hashFile(base, path, digest)
	}

	for file, err := range h.walker.WalkFiles(path, nil) {
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to walk directory"), "path", path)
		}
		if err := h.hashFile(base, file, digest); err != nil {
			return err
		}
	}
	return nil
}

// hashFile writes the path relative to base and the content hash of path into digest.
func (h *Hasher) hashFile(base, path string, digest *xxhash.Digest) error {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		rel = path
	}
	_, _ = digest.WriteString(filepath.ToSlash(rel))
	_, _ = digest.Write([]byte{0})

	hash, err := h.ComputeFileHash(path)
	if err != nil {
		return err
	}

	if err := binary.Write(digest, binary.LittleEndian, hash); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	return nil
}

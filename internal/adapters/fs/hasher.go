package fs

import (
	"crypto/sha1" //nolint:gosec // SHA-1 is the fingerprint format, not a security boundary
	"encoding/hex"
	"errors"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Fingerprinter = (*Hasher)(nil)

// maxDependencyDepth bounds the recursion into dependency fingerprints.
const maxDependencyDepth = 64

// Hasher computes object fingerprints and file content hashes.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// Fingerprint computes the digest of id's tracked fields.
func (h *Hasher) Fingerprint(id domain.Identity) (domain.Fingerprint, error) {
	snapshot, err := h.Snapshot(id)
	if err != nil {
		return "", err
	}
	return snapshot.Fingerprint, nil
}

// Snapshot computes the fingerprint of id together with its per-field record.
//
// Every parameter contributes "<field>: sha1(canonical value)", every dependency
// contributes "<field>: <dependency fingerprint>". The lines are sorted by field
// name, joined with newlines and hashed with SHA-1.
func (h *Hasher) Snapshot(id domain.Identity) (*domain.ParamSnapshot, error) {
	return h.snapshot(id, 0)
}

func (h *Hasher) snapshot(id domain.Identity, depth int) (*domain.ParamSnapshot, error) {
	if isNil(id) {
		return nil, zerr.Wrap(domain.ErrInvalidField, "nil identity")
	}
	name := id.Name()
	if depth > maxDependencyDepth {
		return nil, zerr.With(zerr.Wrap(domain.ErrDependencyCycle, "dependency closure too deep"), "object", name)
	}
	if err := domain.ValidateObjectName(name); err != nil {
		return nil, err
	}
	tag := id.RunTag()
	if err := domain.ValidateRunTag(tag); err != nil {
		return nil, err
	}

	fields := id.TrackedFields()
	entries := make([]domain.SnapshotField, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))

	for _, field := range fields {
		if err := validateFieldName(field.Name); err != nil {
			return nil, zerr.With(err, "object", name)
		}
		if _, dup := seen[field.Name]; dup {
			err := zerr.With(zerr.Wrap(domain.ErrDuplicateField, "collect tracked fields"), "object", name)
			return nil, zerr.With(err, "field", field.Name)
		}
		seen[field.Name] = struct{}{}

		entry, err := h.hashField(name, field, depth)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	digest := sha1.New() //nolint:gosec // See import
	for i, entry := range entries {
		if i > 0 {
			_, _ = io.WriteString(digest, "\n")
		}
		_, _ = io.WriteString(digest, entry.Name)
		_, _ = io.WriteString(digest, ": ")
		if entry.Kind == domain.FieldDependency {
			_, _ = io.WriteString(digest, entry.Fingerprint.String())
		} else {
			_, _ = io.WriteString(digest, entry.Digest)
		}
	}

	return &domain.ParamSnapshot{
		ObjectName:  name,
		RunTag:      tag,
		Fingerprint: domain.FingerprintFromDigest(digest.Sum(nil)),
		Fields:      entries,
	}, nil
}

// hashField builds the snapshot entry of a single field.
func (h *Hasher) hashField(object string, field domain.Field, depth int) (domain.SnapshotField, error) {
	if isNil(field.Param) {
		field.Param = nil
	}
	if isNil(field.Dep) {
		field.Dep = nil
	}

	switch {
	case field.Param != nil && field.Dep == nil:
		raw, err := field.Param.Canonical()
		if err != nil {
			err = zerr.With(zerr.Wrap(err, "failed to canonicalize parameter"), "object", object)
			return domain.SnapshotField{}, errors.Join(domain.ErrUnstableParam, zerr.With(err, "field", field.Name))
		}
		sum := sha1.Sum(raw) //nolint:gosec // See import
		entry := domain.SnapshotField{
			Name:   field.Name,
			Kind:   domain.FieldParam,
			Digest: hex.EncodeToString(sum[:]),
		}
		if utf8.Valid(raw) {
			entry.Value = string(raw)
		}
		return entry, nil

	case field.Dep != nil && field.Param == nil:
		dep, err := h.snapshot(field.Dep, depth+1)
		if err != nil {
			err = zerr.With(zerr.Wrap(err, "failed to fingerprint dependency"), "object", object)
			return domain.SnapshotField{}, zerr.With(err, "field", field.Name)
		}
		return domain.SnapshotField{
			Name:        field.Name,
			Kind:        domain.FieldDependency,
			ObjectName:  dep.ObjectName,
			RunTag:      dep.RunTag,
			Fingerprint: dep.Fingerprint,
		}, nil

	default:
		err := zerr.With(zerr.Wrap(domain.ErrInvalidField,
			"field must hold exactly one non-nil parameter or dependency"), "object", object)
		return domain.SnapshotField{}, zerr.With(err, "field", field.Name)
	}
}

func validateFieldName(name string) error {
	if name == "" || strings.ContainsAny(name, ":\n") {
		return zerr.With(zerr.Wrap(domain.ErrInvalidField, "invalid field name"), "field", name)
	}
	return nil
}

// isNil reports whether v is nil or an interface holding a nil pointer, map,
// slice, func or chan.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

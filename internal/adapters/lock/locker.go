// Package lock serializes work on a single cache entry across processes with
// advisory file locks placed next to the cache folders.
package lock

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Locker = (*Locker)(nil)

// Locker implements ports.Locker with one lock file per object name and fingerprint.
type Locker struct {
	root  string
	retry time.Duration
}

// NewLocker creates a Locker for the cache root. A non-positive retry falls back
// to domain.DefaultLockRetry.
func NewLocker(root string, retry time.Duration) *Locker {
	if retry <= 0 {
		retry = domain.DefaultLockRetry
	}
	return &Locker{root: root, retry: retry}
}

// Path returns the lock file guarding name and fp.
func (l *Locker) Path(name string, fp domain.Fingerprint) string {
	return filepath.Join(l.root, name, domain.HiddenPrefix+fp.String()+domain.LockFileSuffix)
}

// Acquire blocks until the lock is held, polling every retry interval.
func (l *Locker) Acquire(ctx context.Context, name string, fp domain.Fingerprint) (func() error, error) {
	if l.root == "" {
		return nil, domain.ErrCacheRootNotConfigured
	}
	if err := domain.ValidateObjectName(name); err != nil {
		return nil, err
	}

	path := l.Path(name, fp)
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, lockFailed(err, path)
	}

	fl := flock.New(path, flock.SetPermissions(domain.FilePerm))
	locked, err := fl.TryLockContext(ctx, l.retry)
	if err != nil {
		return nil, lockFailed(err, path)
	}
	if !locked {
		return nil, zerr.With(zerr.Wrap(domain.ErrLockFailed, "lock not acquired"), "path", path)
	}

	return fl.Unlock, nil
}

func lockFailed(err error, path string) error {
	return errors.Join(domain.ErrLockFailed, zerr.With(zerr.Wrap(err, "acquire lock"), "path", path))
}

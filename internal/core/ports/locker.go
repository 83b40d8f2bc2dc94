package ports

import (
	"context"

	"go.trai.ch/memo/internal/core/domain"
)

// Locker provides mutual exclusion per object name and fingerprint across processes.
//
//go:generate go run go.uber.org/mock/mockgen -source=locker.go -destination=mocks/mock_locker.go -package=mocks
type Locker interface {
	// Acquire blocks until the lock is held or ctx is done. The returned function releases it.
	Acquire(ctx context.Context, name string, fp domain.Fingerprint) (func() error, error)
}

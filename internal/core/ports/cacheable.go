// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/memo/internal/core/domain"
)

// Creator produces a payload from scratch.
type Creator[T any] interface {
	// Create runs the expensive computation. The context carries the lifecycle
	// controller, so dependency payloads are obtained with lifecycle.Dep.
	Create(ctx context.Context) (T, error)
}

// Loader reads a payload from a cache folder.
type Loader[T any] interface {
	// LoadFromFile returns domain.ErrNotFound or an fs.ErrNotExist error when the
	// payload has not been saved yet. Any other error is treated as a real failure.
	LoadFromFile(dir string) (T, error)
}

// Saver writes a payload into a directory.
type Saver[T any] interface {
	// SaveToFile writes payload into dir using the same file names LoadFromFile reads.
	SaveToFile(dir string, payload T) error
}

// Cacheable is the capability set of a memoized computation.
type Cacheable[T any] interface {
	domain.Identity
	Creator[T]
	Loader[T]
	Saver[T]
}

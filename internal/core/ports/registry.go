package ports

import "go.trai.ch/memo/internal/core/domain"

// Registry persists registry entries as structured documents.
//
//go:generate go run go.uber.org/mock/mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type Registry interface {
	// Validate checks that path has a supported extension. It performs no I/O.
	Validate(path string) error

	// Write stores entry at path, creating parent directories and replacing any previous entry.
	Write(path string, entry domain.RegistryEntry) error

	// Read decodes the entry stored at path.
	Read(path string) (*domain.RegistryEntry, error)
}

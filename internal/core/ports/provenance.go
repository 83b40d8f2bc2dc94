package ports

import (
	"context"

	"go.trai.ch/memo/internal/core/domain"
)

// Provenance captures source control metadata.
//
//go:generate go run go.uber.org/mock/mockgen -source=provenance.go -destination=mocks/mock_provenance.go -package=mocks
type Provenance interface {
	// Capture returns the current revision. Failures wrap domain.ErrProvenanceUnavailable.
	Capture(ctx context.Context) (domain.Provenance, error)
}

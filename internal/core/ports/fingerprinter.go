package ports

import "go.trai.ch/memo/internal/core/domain"

// Fingerprinter derives identities from tracked fields.
//
//go:generate go run go.uber.org/mock/mockgen -source=fingerprinter.go -destination=mocks/mock_fingerprinter.go -package=mocks
type Fingerprinter interface {
	// Fingerprint computes the digest of id's tracked fields, recursing into dependencies.
	Fingerprint(id domain.Identity) (domain.Fingerprint, error)

	// Snapshot computes the fingerprint together with the per-field record stored as params.json.
	Snapshot(id domain.Identity) (*domain.ParamSnapshot, error)
}

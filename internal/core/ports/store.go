package ports

import "go.trai.ch/memo/internal/core/domain"

// CacheStore resolves fingerprints to cache folders below the cache root.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CacheStore interface {
	// Root returns the cache root or domain.ErrCacheRootNotConfigured.
	Root() (string, error)

	// Find returns the folder matching name and fingerprint under any run tag.
	// The boolean is false when no folder exists. Several matches are an
	// domain.ErrAmbiguousCacheEntry error.
	Find(name string, fp domain.Fingerprint) (string, bool, error)

	// Create atomically creates the folder described by snapshot and writes params.json.
	Create(snapshot *domain.ParamSnapshot) (string, error)

	// Resolve returns the existing folder for snapshot or creates it.
	Resolve(snapshot *domain.ParamSnapshot) (string, error)

	// Publish calls write with an empty staging directory and moves what it wrote into folder.
	Publish(folder string, write func(staging string) error) error

	// List returns all cache folders of an object, ordered by fingerprint and then run tag.
	List(name string) ([]domain.CacheFolder, error)

	// ReadSnapshot decodes the params.json of a cache folder.
	ReadSnapshot(folder string) (*domain.ParamSnapshot, error)

	// Relocate renames folder to the fingerprint of snapshot and rewrites params.json.
	Relocate(folder string, snapshot *domain.ParamSnapshot) (string, error)

	// Remove deletes a cache folder. It refuses paths outside the cache root.
	Remove(folder string) error
}

package domain

import "go.trai.ch/zerr"

var (
	// ErrCacheRootNotConfigured is returned when CACHE_FOLDER is not set and a cache location is needed.
	ErrCacheRootNotConfigured = zerr.New("cache root not configured, set CACHE_FOLDER in the environment or .env")

	// ErrConfigReadFailed is returned when a settings file exists but cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read settings file")

	// ErrInvalidObjectName is returned when an object name is empty or contains path separators.
	ErrInvalidObjectName = zerr.New("invalid object name")

	// ErrInvalidRunTag is returned when a run tag contains path separators.
	ErrInvalidRunTag = zerr.New("invalid run tag")

	// ErrInvalidFingerprint is returned when a string is not a 40 character lowercase hex digest.
	ErrInvalidFingerprint = zerr.New("invalid fingerprint")

	// ErrInvalidField is returned when a tracked field is malformed.
	ErrInvalidField = zerr.New("invalid tracked field")

	// ErrDuplicateField is returned when two tracked fields share a name.
	ErrDuplicateField = zerr.New("duplicate tracked field")

	// ErrDependencyCycle is returned when the dependency closure of an object does not terminate.
	ErrDependencyCycle = zerr.New("dependency cycle detected")

	// ErrUnstableParam is returned when a tracked parameter cannot be canonically serialized.
	ErrUnstableParam = zerr.New("tracked parameter cannot be serialized")

	// ErrNotFound marks a payload that does not exist yet in its cache folder.
	ErrNotFound = zerr.New("cached payload not found")

	// ErrNotComputed is returned by strict loads when the object has to be computed first.
	ErrNotComputed = zerr.New("object not computed yet, run Compute first")

	// ErrAmbiguousCacheEntry is returned when several cache folders match the same name and fingerprint.
	ErrAmbiguousCacheEntry = zerr.New("ambiguous cache entry")

	// ErrCacheFolderCreateFailed is returned when a cache folder cannot be created.
	ErrCacheFolderCreateFailed = zerr.New("failed to create cache folder")

	// ErrCacheFolderListFailed is returned when the object directory cannot be listed.
	ErrCacheFolderListFailed = zerr.New("failed to list cache folders")

	// ErrSnapshotMarshalFailed is returned when the parameter snapshot cannot be encoded.
	ErrSnapshotMarshalFailed = zerr.New("failed to marshal parameter snapshot")

	// ErrSnapshotReadFailed is returned when the parameter snapshot cannot be read or decoded.
	ErrSnapshotReadFailed = zerr.New("failed to read parameter snapshot")

	// ErrSnapshotWriteFailed is returned when the parameter snapshot cannot be written.
	ErrSnapshotWriteFailed = zerr.New("failed to write parameter snapshot")

	// ErrPublishFailed is returned when staged payload files cannot be moved into the cache folder.
	ErrPublishFailed = zerr.New("failed to publish payload")

	// ErrRelocateFailed is returned when a cache folder cannot be renamed.
	ErrRelocateFailed = zerr.New("failed to relocate cache folder")

	// ErrOutsideCacheRoot is returned when a path handed to the store is not below the cache root.
	ErrOutsideCacheRoot = zerr.New("path is outside the cache root")

	// ErrRemoveFailed is returned when a cache folder cannot be removed.
	ErrRemoveFailed = zerr.New("failed to remove cache folder")

	// ErrLockFailed is returned when the per-fingerprint lock cannot be acquired.
	ErrLockFailed = zerr.New("failed to acquire cache lock")

	// ErrLoadFailed is returned when loading a payload fails for a reason other than absence.
	ErrLoadFailed = zerr.New("failed to load cached payload")

	// ErrCreateFailed is returned when the creation logic of an object fails.
	ErrCreateFailed = zerr.New("failed to create object")

	// ErrSaveFailed is returned when a created payload cannot be saved.
	ErrSaveFailed = zerr.New("failed to save object")

	// ErrNoController is returned by Dep when the context does not carry a lifecycle controller.
	ErrNoController = zerr.New("no lifecycle controller in context, Dep must be called from Create")

	// ErrInvalidRegistryPath is returned when a registry path has an unsupported extension.
	ErrInvalidRegistryPath = zerr.New("registry path must end in .toml, .yaml, .yml or .json")

	// ErrRegistryWriteFailed is returned when a registry entry cannot be written.
	ErrRegistryWriteFailed = zerr.New("failed to write registry entry")

	// ErrRegistryReadFailed is returned when a registry entry cannot be read.
	ErrRegistryReadFailed = zerr.New("failed to read registry entry")

	// ErrRegistryDecodeFailed is returned when a registry entry cannot be decoded.
	ErrRegistryDecodeFailed = zerr.New("failed to decode registry entry")

	// ErrProvenanceUnavailable is returned when source control metadata cannot be captured.
	ErrProvenanceUnavailable = zerr.New("source control provenance unavailable")
)

// Package memo memoizes expensive deterministic computations on disk.
//
// A cacheable type declares the fields that determine its identity and knows
// how to create, save and load its payload:
//
//	type Features struct {
//		memo.Tag
//		Window int
//	}
//
//	func (f *Features) Name() string { return "Features" }
//	func (f *Features) TrackedFields() []memo.Field {
//		return []memo.Field{memo.Track("window", memo.Int(f.Window))}
//	}
//
// Compute loads the payload from <root>/<name>/<name>[_<tag>]_<fingerprint>
// when it exists and creates it otherwise. The run tag only labels new
// folders, it never changes which folder is found.
package memo

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/memo/internal/adapters/cas"
	"go.trai.ch/memo/internal/adapters/fs"
	"go.trai.ch/memo/internal/adapters/git"
	"go.trai.ch/memo/internal/adapters/lock"
	"go.trai.ch/memo/internal/adapters/logger"
	"go.trai.ch/memo/internal/adapters/registry"
	"go.trai.ch/memo/internal/adapters/telemetry"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/memo/internal/engine/lifecycle"
	_ "go.trai.ch/memo/internal/wiring"
)

type (
	// Identity is the identity-relevant view of a cacheable object.
	Identity = domain.Identity
	// Field is a tracked parameter or dependency.
	Field = domain.Field
	// Param is a tracked value with a canonical encoding.
	Param = domain.Param
	// Fingerprint is the hex SHA-1 identity of an object.
	Fingerprint = domain.Fingerprint
	// Tag is embedded by cacheable types to carry the run tag.
	Tag = domain.Tag
	// Settings configures a Controller built with New.
	Settings = domain.Settings
	// RegistryEntry is a named pointer to a cache folder.
	RegistryEntry = domain.RegistryEntry
	// ParamSnapshot is the content of params.json.
	ParamSnapshot = domain.ParamSnapshot
	// Controller runs the cache lifecycle.
	Controller = lifecycle.Controller

	// Cacheable is the capability set of a memoized computation.
	Cacheable[T any] = ports.Cacheable[T]
	// Loader reads a payload from a cache folder.
	Loader[T any] = ports.Loader[T]
)

// Built-in parameter types.
type (
	String    = domain.String
	Int       = domain.Int
	Float     = domain.Float
	Bool      = domain.Bool
	Bytes     = domain.Bytes
	Strings   = domain.Strings
	StringMap = domain.StringMap
)

// Field constructors and helpers.
var (
	Track     = domain.Track
	DependsOn = domain.DependsOn
	TypeName  = domain.TypeName
)

// Content parameters hashed from the filesystem.
var (
	File = fs.File
	Dir  = fs.Dir
	Glob = fs.Glob
)

// Errors callers are expected to match with errors.Is.
var (
	ErrCacheRootNotConfigured = domain.ErrCacheRootNotConfigured
	ErrNotFound               = domain.ErrNotFound
	ErrNotComputed            = domain.ErrNotComputed
	ErrAmbiguousCacheEntry    = domain.ErrAmbiguousCacheEntry
	ErrUnstableParam          = domain.ErrUnstableParam
	ErrInvalidRegistryPath    = domain.ErrInvalidRegistryPath
	ErrNoController           = domain.ErrNoController
	ErrCreateFailed           = domain.ErrCreateFailed
	ErrSaveFailed             = domain.ErrSaveFailed
	ErrLoadFailed             = domain.ErrLoadFailed
)

// Open builds a Controller from the environment and the .env files of the
// working directory.
func Open(ctx context.Context) (*Controller, error) {
	c, _, err := graft.ExecuteFor[*lifecycle.Controller](ctx)
	return c, err
}

// New builds a Controller from explicit settings.
func New(settings Settings) (*Controller, error) {
	if settings.LockRetry <= 0 {
		settings.LockRetry = domain.DefaultLockRetry
	}

	log, err := logger.NewFromSettings(&settings)
	if err != nil {
		return nil, err
	}

	var tracer ports.Tracer = telemetry.NewOTelTracer(telemetry.InstrumentationName)
	if settings.Trace {
		tracer = telemetry.NewOTelTracerWithProvider(telemetry.NewTracingProvider(log), telemetry.InstrumentationName)
	}

	return lifecycle.New(
		fs.NewHasher(fs.NewWalker()),
		cas.NewStore(settings.CacheFolder),
		lock.NewLocker(settings.CacheFolder, settings.LockRetry),
		registry.NewFileRegistry(),
		git.NewProvenance(""),
		tracer,
		log,
	), nil
}

// Compute returns the payload of obj, creating it on a cache miss.
func Compute[T any](ctx context.Context, c *Controller, obj Cacheable[T]) (T, error) {
	return lifecycle.Compute(ctx, c, obj)
}

// Load returns the payload of obj without ever creating it.
func Load[T any](ctx context.Context, c *Controller, obj Cacheable[T]) (T, error) {
	return lifecycle.Load(ctx, c, obj)
}

// Dep computes a dependency from inside a Create method.
func Dep[T any](ctx context.Context, obj Cacheable[T]) (T, error) {
	return lifecycle.Dep(ctx, obj)
}

// LoadFromRegister loads the payload a registry entry points to.
func LoadFromRegister[T any](ctx context.Context, c *Controller, path string, loader Loader[T]) (T, error) {
	return lifecycle.LoadFromRegister(ctx, c, path, loader)
}

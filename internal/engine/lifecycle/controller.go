// Package lifecycle implements the compute, load and register flows of cacheable objects.
package lifecycle

import (
	"context"
	"os/user"
	"time"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"golang.org/x/sync/singleflight"
)

// Span names and attribute keys recorded by the controller.
const (
	SpanCompute  = "memo.compute"
	SpanLoad     = "memo.load"
	SpanRegister = "memo.register"
	SpanRepair   = "memo.repair"

	AttrObject      = "memo.object"
	AttrFingerprint = "memo.fingerprint"
	AttrCacheHit    = "memo.cache_hit"
	AttrFolder      = "memo.folder"
)

// Controller drives cacheable objects through fingerprinting, locking,
// loading, creation and publication.
type Controller struct {
	hasher     ports.Fingerprinter
	store      ports.CacheStore
	locker     ports.Locker
	registry   ports.Registry
	provenance ports.Provenance
	tracer     ports.Tracer
	logger     ports.Logger

	now  func() time.Time
	user func() string

	requestGroup singleflight.Group
}

// New creates a new Controller.
func New(
	hasher ports.Fingerprinter,
	store ports.CacheStore,
	locker ports.Locker,
	registry ports.Registry,
	provenance ports.Provenance,
	tracer ports.Tracer,
	logger ports.Logger,
) *Controller {
	return &Controller{
		hasher:     hasher,
		store:      store,
		locker:     locker,
		registry:   registry,
		provenance: provenance,
		tracer:     tracer,
		logger:     logger,
		now:        time.Now,
		user:       currentUser,
	}
}

// WithClock replaces the clock used for registry timestamps.
func (c *Controller) WithClock(now func() time.Time) *Controller {
	c.now = now
	return c
}

// WithUser replaces the lookup of the registering user.
func (c *Controller) WithUser(lookup func() string) *Controller {
	c.user = lookup
	return c
}

// Fingerprint returns the fingerprint of id.
func (c *Controller) Fingerprint(id domain.Identity) (domain.Fingerprint, error) {
	return c.hasher.Fingerprint(id)
}

// Folder returns the cache folder of id, creating it when it does not exist yet.
func (c *Controller) Folder(id domain.Identity) (string, error) {
	snapshot, err := c.hasher.Snapshot(id)
	if err != nil {
		return "", err
	}
	return c.store.Resolve(snapshot)
}

type controllerKey struct{}

// WithController returns a context that carries c.
func WithController(ctx context.Context, c *Controller) context.Context {
	return context.WithValue(ctx, controllerKey{}, c)
}

// FromContext returns the controller carried by ctx, if any.
func FromContext(ctx context.Context) (*Controller, bool) {
	c, ok := ctx.Value(controllerKey{}).(*Controller)
	return c, ok && c != nil
}

func currentUser() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return u.Username
}

package lifecycle

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
)

// Register writes a registry entry pointing at the cache folder of id.
//
// The path is validated before any I/O. Provenance is best effort: when it
// cannot be captured a warning is logged and the git fields stay empty.
func (c *Controller) Register(ctx context.Context, id domain.Identity, path, comment string) (*domain.RegistryEntry, error) {
	if err := c.registry.Validate(path); err != nil {
		return nil, err
	}

	snapshot, err := c.hasher.Snapshot(id)
	if err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, SpanRegister)
	defer span.End()
	span.SetAttribute(AttrObject, snapshot.ObjectName)
	span.SetAttribute(AttrFingerprint, snapshot.Fingerprint.String())

	folder, err := c.store.Resolve(snapshot)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if abs, err := filepath.Abs(folder); err == nil {
		folder = abs
	}
	span.SetAttribute(AttrFolder, folder)

	entry := domain.RegistryEntry{
		ObjectName:  snapshot.ObjectName,
		Hash:        snapshot.Fingerprint,
		Comment:     comment,
		RunTag:      snapshot.RunTag,
		CacheFolder: folder,
		CreatedAt:   c.now().Format(time.RFC3339),
		CreatedBy:   c.user(),
	}

	prov, err := c.provenance.Capture(ctx)
	if err != nil {
		c.logger.Warn(fmt.Sprintf("registering %s without source control provenance: %v", snapshot.ObjectName, err))
	} else {
		entry.GitCommit = prov.Commit
		entry.GitRepo = prov.Remote
	}

	if err := c.registry.Write(path, entry); err != nil {
		span.RecordError(err)
		return nil, err
	}
	c.logger.Info(fmt.Sprintf("Registered %s at %s", snapshot.ObjectName, path))

	return &entry, nil
}

// LoadFromRegister reads the registry entry at path and loads the payload
// from the folder it names. The object is never fingerprinted again.
func LoadFromRegister[T any](ctx context.Context, c *Controller, path string, loader ports.Loader[T]) (T, error) {
	var zero T

	entry, err := c.registry.Read(path)
	if err != nil {
		return zero, err
	}

	_, span := c.tracer.Start(ctx, SpanLoad)
	defer span.End()
	span.SetAttribute(AttrObject, entry.ObjectName)
	span.SetAttribute(AttrFingerprint, entry.Hash.String())
	span.SetAttribute(AttrFolder, entry.CacheFolder)

	if entry.CacheFolder == "" {
		err := zerr.With(zerr.Wrap(domain.ErrRegistryDecodeFailed, "entry has no cache folder"), "path", path)
		span.RecordError(err)
		return zero, err
	}

	payload, err := loadFolder(loader, entry.ObjectName, entry.CacheFolder)
	if err != nil {
		span.RecordError(err)
		return zero, err
	}
	span.SetAttribute(AttrCacheHit, true)
	return payload, nil
}

package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

type computeResult struct {
	payload any
	folder  string
	hit     bool
}

// Compute returns the payload of obj, loading it from its cache folder or
// creating and publishing it when the folder holds no payload yet.
//
// The per-fingerprint lock is held from folder resolution until the payload is
// published. Concurrent callers in the same process share one computation. The
// shared computation is detached from the cancellation of the caller that
// started it; each caller stops waiting when its own ctx is done.
func Compute[T any](ctx context.Context, c *Controller, obj ports.Cacheable[T]) (T, error) {
	var zero T

	ctx, span := c.tracer.Start(ctx, SpanCompute)
	defer span.End()

	snapshot, err := c.hasher.Snapshot(obj)
	if err != nil {
		span.RecordError(err)
		return zero, err
	}
	span.SetAttribute(AttrObject, snapshot.ObjectName)
	span.SetAttribute(AttrFingerprint, snapshot.Fingerprint.String())

	shared := context.WithoutCancel(ctx)
	key := snapshot.ObjectName + "/" + snapshot.Fingerprint.String()
	ch := c.requestGroup.DoChan(key, func() (any, error) {
		payload, folder, hit, err := computeLocked(shared, c, obj, snapshot)
		if err != nil {
			return nil, err
		}
		return computeResult{payload: payload, folder: folder, hit: hit}, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		err := zerr.With(zerr.Wrap(ctx.Err(), "wait for computation"), "object", snapshot.ObjectName)
		span.RecordError(err)
		return zero, err
	case res = <-ch:
	}
	if res.Err != nil {
		span.RecordError(res.Err)
		return zero, res.Err
	}

	out, ok := res.Val.(computeResult)
	if !ok {
		return zero, zerr.With(zerr.New("unexpected compute result"), "object", snapshot.ObjectName)
	}
	span.SetAttribute(AttrFolder, out.folder)
	payload, ok := out.payload.(T)
	if !ok {
		err := zerr.With(zerr.New("payload type mismatch between concurrent callers"), "object", snapshot.ObjectName)
		span.RecordError(err)
		return zero, err
	}
	span.SetAttribute(AttrCacheHit, out.hit)
	return payload, nil
}

func computeLocked[T any](
	ctx context.Context,
	c *Controller,
	obj ports.Cacheable[T],
	snapshot *domain.ParamSnapshot,
) (T, string, bool, error) {
	var zero T
	name := snapshot.ObjectName

	release, err := c.locker.Acquire(ctx, name, snapshot.Fingerprint)
	if err != nil {
		return zero, "", false, err
	}
	defer func() {
		if err := release(); err != nil {
			c.logger.Warn(fmt.Sprintf("failed to release lock of %s %s: %v", name, snapshot.Fingerprint.Short(), err))
		}
	}()

	folder, err := c.store.Resolve(snapshot)
	if err != nil {
		return zero, "", false, err
	}

	c.logger.Info(fmt.Sprintf("Trying to load %s from cache...", name))
	payload, err := obj.LoadFromFile(folder)
	if err == nil {
		c.logger.Info(fmt.Sprintf("Loaded %s from %s", name, folder))
		return payload, folder, true, nil
	}
	if !isNotFound(err) {
		err = zerr.With(zerr.Wrap(err, "load from cache folder"), "folder", folder)
		return zero, folder, false, errors.Join(domain.ErrLoadFailed, zerr.With(err, "object", name))
	}

	c.logger.Info(fmt.Sprintf("Creating %s from scratch...", name))
	payload, err = obj.Create(WithController(ctx, c))
	if err != nil {
		return zero, folder, false, errors.Join(domain.ErrCreateFailed, zerr.With(zerr.Wrap(err, "create"), "object", name))
	}
	c.logger.Info(fmt.Sprintf("Successfully created %s", name))

	err = c.store.Publish(folder, func(staging string) error {
		if err := obj.SaveToFile(staging, payload); err != nil {
			return errors.Join(domain.ErrSaveFailed, zerr.With(zerr.Wrap(err, "save"), "object", name))
		}
		return nil
	})
	if err != nil {
		return zero, folder, false, err
	}
	c.logger.Info(fmt.Sprintf("Saved %s to %s", name, folder))

	return payload, folder, false, nil
}

// Load returns the payload of obj from its cache folder. It never creates
// anything: a missing folder or payload is domain.ErrNotComputed.
func Load[T any](ctx context.Context, c *Controller, obj ports.Cacheable[T]) (T, error) {
	var zero T

	fp, err := c.hasher.Fingerprint(obj)
	if err != nil {
		return zero, err
	}
	name := obj.Name()

	_, span := c.tracer.Start(ctx, SpanLoad)
	defer span.End()
	span.SetAttribute(AttrObject, name)
	span.SetAttribute(AttrFingerprint, fp.String())

	folder, ok, err := c.store.Find(name, fp)
	if err != nil {
		span.RecordError(err)
		return zero, err
	}
	if !ok {
		err := zerr.With(zerr.Wrap(domain.ErrNotComputed, "no cache folder"), "object", name)
		err = zerr.With(err, "fingerprint", fp.String())
		span.RecordError(err)
		return zero, err
	}
	span.SetAttribute(AttrFolder, folder)

	payload, err := loadFolder(obj, name, folder)
	if err != nil {
		span.RecordError(err)
		return zero, err
	}
	span.SetAttribute(AttrCacheHit, true)
	return payload, nil
}

// Dep computes a dependency from inside a Create call, using the controller
// carried by ctx.
func Dep[T any](ctx context.Context, obj ports.Cacheable[T]) (T, error) {
	c, ok := FromContext(ctx)
	if !ok {
		var zero T
		return zero, zerr.With(zerr.Wrap(domain.ErrNoController, "resolve dependency"), "object", obj.Name())
	}
	return Compute(ctx, c, obj)
}

// loadFolder reads a payload from folder, mapping absence to domain.ErrNotComputed.
func loadFolder[T any](obj ports.Loader[T], name, folder string) (T, error) {
	payload, err := obj.LoadFromFile(folder)
	if err == nil {
		return payload, nil
	}
	var zero T
	if isNotFound(err) {
		err = zerr.With(zerr.Wrap(domain.ErrNotComputed, "payload missing"), "object", name)
		return zero, zerr.With(err, "folder", folder)
	}
	err = zerr.With(zerr.Wrap(err, "load from cache folder"), "folder", folder)
	return zero, errors.Join(domain.ErrLoadFailed, zerr.With(err, "object", name))
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

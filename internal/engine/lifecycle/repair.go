package lifecycle

import (
	"context"
	"fmt"
	"path/filepath"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/zerr"
)

// Repair renames folder to the current fingerprint of id, keeping the object
// name and run tag. It is used after the fingerprint of a type changed while
// its cached payloads stayed valid.
//
// The folder must contain params.json. When the fingerprint is unchanged the
// folder is returned as is.
func (c *Controller) Repair(ctx context.Context, folder string, id domain.Identity) (string, error) {
	current, err := c.store.ReadSnapshot(folder)
	if err != nil {
		return "", err
	}

	snapshot, err := c.hasher.Snapshot(id)
	if err != nil {
		return "", err
	}

	_, span := c.tracer.Start(ctx, SpanRepair)
	defer span.End()
	span.SetAttribute(AttrObject, snapshot.ObjectName)
	span.SetAttribute(AttrFingerprint, snapshot.Fingerprint.String())
	span.SetAttribute(AttrFolder, folder)

	if current.ObjectName != snapshot.ObjectName {
		err := zerr.With(zerr.Wrap(domain.ErrRelocateFailed, "object name mismatch"), "folder", folder)
		err = zerr.With(err, "expected", snapshot.ObjectName)
		span.RecordError(err)
		return "", zerr.With(err, "found", current.ObjectName)
	}

	// The tag stays the one encoded in the folder name.
	tag, fp, ok := domain.NewFolderMatcher(current.ObjectName).Parse(filepath.Base(folder))
	if !ok {
		tag, fp = current.RunTag, current.Fingerprint
	}
	if fp == snapshot.Fingerprint {
		c.logger.Info(fmt.Sprintf("Fingerprint of %s unchanged, nothing to do", snapshot.ObjectName))
		return folder, nil
	}

	target := *snapshot
	target.RunTag = tag
	moved, err := c.store.Relocate(folder, &target)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	c.logger.Info(fmt.Sprintf("Renamed %s to %s", filepath.Base(folder), filepath.Base(moved)))

	return moved, nil
}

// Package app implements the application layer for memo.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
)

// App represents the administrative operations on the cache.
type App struct {
	store    ports.CacheStore
	registry ports.Registry
	logger   ports.Logger
}

// New creates a new App instance.
func New(store ports.CacheStore, registry ports.Registry, log ports.Logger) *App {
	return &App{
		store:    store,
		registry: registry,
		logger:   log,
	}
}

// List returns the cache folders of an object.
func (a *App) List(_ context.Context, object string) ([]domain.CacheFolder, error) {
	folders, err := a.store.List(object)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to list cache folders")
	}
	return folders, nil
}

// Show reads the registry entry at path.
func (a *App) Show(_ context.Context, path string) (*domain.RegistryEntry, error) {
	if err := a.registry.Validate(path); err != nil {
		return nil, err
	}
	return a.registry.Read(path)
}

// Params reads the parameter snapshot of a cache folder.
func (a *App) Params(_ context.Context, folder string) (*domain.ParamSnapshot, error) {
	return a.store.ReadSnapshot(folder)
}

// CleanOptions selects the cache folders removed by Clean.
type CleanOptions struct {
	// Object is the object whose folders are removed.
	Object string
	// Hash restricts removal to fingerprints starting with this prefix.
	Hash string
}

// Clean removes cache folders of an object and returns the removed folders.
func (a *App) Clean(ctx context.Context, options CleanOptions) ([]domain.CacheFolder, error) {
	folders, err := a.List(ctx, options.Object)
	if err != nil {
		return nil, err
	}

	prefix := strings.ToLower(options.Hash)
	var (
		removed []domain.CacheFolder
		errs    error
	)
	for _, folder := range folders {
		if !strings.HasPrefix(folder.Fingerprint.String(), prefix) {
			continue
		}
		name := filepath.Base(folder.Path)
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := a.store.Remove(folder.Path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			continue
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
		removed = append(removed, folder)
	}

	return removed, errs
}

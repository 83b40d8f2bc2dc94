// Package config resolves process settings from the environment and dotenv files.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ConfigLoader = (*EnvLoader)(nil)

// EnvLoader implements ports.ConfigLoader.
//
// Sources in increasing precedence: example.env, .env, process environment.
type EnvLoader struct{}

// NewLoader creates a new EnvLoader.
func NewLoader() *EnvLoader {
	return &EnvLoader{}
}

// Load reads the settings files in cwd and overlays the environment.
// A missing CACHE_FOLDER is not an error here; the cache store reports it on use.
func (l *EnvLoader) Load(cwd string) (*domain.Settings, error) {
	v := viper.New()
	v.SetConfigType("env")
	v.SetDefault(strings.ToLower(domain.LockRetryEnv), domain.DefaultLockRetry)
	v.SetDefault(strings.ToLower(domain.LogJSONEnv), false)
	v.SetDefault(strings.ToLower(domain.TraceEnv), false)

	for _, name := range []string{domain.ExampleSettingsFileName, domain.SettingsFileName} {
		if err := mergeFile(v, filepath.Join(cwd, name)); err != nil {
			return nil, err
		}
	}
	v.AutomaticEnv()

	settings := &domain.Settings{
		CacheFolder: strings.TrimSpace(v.GetString(domain.CacheFolderEnv)),
		LogFile:     strings.TrimSpace(v.GetString(domain.LogFileEnv)),
		LogJSON:     v.GetBool(domain.LogJSONEnv),
		Trace:       v.GetBool(domain.TraceEnv),
		LockRetry:   v.GetDuration(domain.LockRetryEnv),
	}

	if settings.CacheFolder != "" && !filepath.IsAbs(settings.CacheFolder) {
		settings.CacheFolder = filepath.Join(cwd, settings.CacheFolder)
	}
	if settings.LockRetry <= 0 {
		settings.LockRetry = domain.DefaultLockRetry
	}

	return settings, nil
}

func mergeFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Join(domain.ErrConfigReadFailed, zerr.With(zerr.Wrap(err, "stat settings file"), "path", path))
	}

	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return errors.Join(domain.ErrConfigReadFailed, zerr.With(zerr.Wrap(err, "merge settings file"), "path", path))
	}
	return nil
}

package wsdl

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// Fetcher downloads a remote document
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Loader resolves a Source into parsed Definitions
type Loader struct {
	// CacheDir holds downloaded WSDL files. Empty disables caching.
	CacheDir string
	Fetcher  Fetcher
	Logger   *slog.Logger
}

// Load returns the definitions for src, preferring the cached copy
func (l *Loader) Load(ctx context.Context, src Source) (*Definitions, error) {
	log := l.logger().With("ambiente", src.Ambiente, "location", src.Location)

	if !src.IsRemote() {
		data, err := os.ReadFile(src.Location)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", ErrInvalidWSDL, src.Location, err)
		}
		return Parse(data)
	}

	cachePath := l.cachePath(src)
	if cachePath != "" {
		data, err := os.ReadFile(cachePath)
		if err == nil {
			log.Debug("using cached WSDL", "path", cachePath)
			return Parse(data)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: reading cache %s: %w", ErrInvalidWSDL, cachePath, err)
		}
	}

	if l.Fetcher == nil {
		return nil, fmt.Errorf("%w: no fetcher configured for %s", ErrInvalidWSDL, src.Location)
	}

	log.Info("downloading WSDL")
	data, err := l.Fetcher.Get(ctx, src.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: downloading %s: %w", ErrInvalidWSDL, src.Location, err)
	}

	// Only well-formed contracts are cached
	defs, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if cachePath != "" {
		if err := writeCache(cachePath, data); err != nil {
			log.Warn("failed to cache WSDL", "path", cachePath, "error", err)
		}
	}

	return defs, nil
}

func (l *Loader) cachePath(src Source) string {
	if l.CacheDir == "" || src.CacheFile == "" {
		return ""
	}
	return filepath.Join(l.CacheDir, src.CacheFile)
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

func writeCache(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending WSDL file: %w", err)
	}
	defer pending.Cleanup()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write WSDL data: %w", err)
	}

	return pending.CloseAtomicallyReplace()
}

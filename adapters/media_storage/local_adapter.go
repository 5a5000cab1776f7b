package media_storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/MoSamy004/Portfolio/internal/application/service"
	"github.com/MoSamy004/Portfolio/pkg/apperror"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

const localBackendName = "local"

// LocalAdapter stores objects under a directory that the HTTP server exposes
// at PublicBaseURL.
type LocalAdapter struct {
	baseDir       string
	publicBaseURL string
	logger        logger.Logger
}

var (
	_ service.Uploader    = (*LocalAdapter)(nil)
	_ service.KeyResolver = (*LocalAdapter)(nil)
)

func NewLocalAdapter(baseDir, publicBaseURL string, log logger.Logger) (*LocalAdapter, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("local storage directory is not configured")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalAdapter{
		baseDir:       baseDir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        log,
	}, nil
}

func (a *LocalAdapter) Name() string { return localBackendName }

// Dir is the directory served as static files.
func (a *LocalAdapter) Dir() string { return a.baseDir }

func (a *LocalAdapter) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	fullPath, err := a.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", apperror.NewInternal("failed to create directories", err)
	}

	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", apperror.NewConflict("object", "key", key)
		}
		return "", apperror.NewInternal("failed to write file", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(fullPath)
		return "", apperror.NewInternal("failed to write file", err)
	}
	if err := f.Close(); err != nil {
		return "", apperror.NewInternal("failed to write file", err)
	}

	a.logger.Info("File saved successfully", zap.String("key", key), zap.Int("size", len(data)))
	return a.publicBaseURL + "/" + escapePath(key), nil
}

func (a *LocalAdapter) Delete(_ context.Context, key string) error {
	fullPath, err := a.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperror.NewInternal("failed to delete file", err)
	}
	return nil
}

func (a *LocalAdapter) KeyFromURL(rawURL string) (string, bool) {
	if a.publicBaseURL == "" || !strings.HasPrefix(rawURL, a.publicBaseURL+"/") {
		return "", false
	}
	rest := strings.TrimPrefix(rawURL, a.publicBaseURL+"/")
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	key, err := url.PathUnescape(rest)
	if err != nil || key == "" {
		return "", false
	}
	return key, true
}

// resolve maps a key to a path inside baseDir, rejecting keys that escape it.
func (a *LocalAdapter) resolve(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", apperror.NewInvalidInput("empty object key", nil)
	}
	absBase, err := filepath.Abs(a.baseDir)
	if err != nil {
		return "", apperror.NewInternal("failed to resolve base path", err)
	}
	absPath, err := filepath.Abs(filepath.Join(a.baseDir, filepath.FromSlash(key)))
	if err != nil {
		return "", apperror.NewInternal("failed to resolve path", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", apperror.NewInvalidInput(fmt.Sprintf("path escapes storage directory: %s", key), nil)
	}
	return absPath, nil
}

func escapePath(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

package media_storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"github.com/MoSamy004/Portfolio/internal/application/service"
	"github.com/MoSamy004/Portfolio/internal/config"
	"github.com/MoSamy004/Portfolio/pkg/apperror"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

const (
	cloudinaryBackendName = "cloudinary"
	cloudinaryHost        = "res.cloudinary.com"
)

var cloudinaryVersionSegment = regexp.MustCompile(`^v\d+$`)

// cloudinaryAPI is the subset of the Cloudinary upload API the adapter calls.
type cloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

type cloudinaryAdapter struct {
	api    cloudinaryAPI
	folder string
	logger logger.Logger
}

var (
	_ service.Uploader    = (*cloudinaryAdapter)(nil)
	_ service.KeyResolver = (*cloudinaryAdapter)(nil)
)

func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.Uploader, error) {
	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}

	log.Info("Connect Cloudinary successfully.", zap.String("cloud_name", cfg.Cloudinary.CloudName))
	return newCloudinaryAdapter(&cld.Upload, cfg.S3.Bucket, log), nil
}

func newCloudinaryAdapter(a cloudinaryAPI, folder string, log logger.Logger) *cloudinaryAdapter {
	return &cloudinaryAdapter{api: a, folder: strings.Trim(folder, "/"), logger: log}
}

func (a *cloudinaryAdapter) Name() string { return cloudinaryBackendName }

func (a *cloudinaryAdapter) Put(ctx context.Context, key string, data []byte, _ string) (string, error) {
	result, err := a.api.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:  a.publicID(key),
		Overwrite: api.Bool(false),
	})
	if err != nil {
		return "", apperror.NewUpstream("failed to upload cloudinary", err)
	}
	if result.Error.Message != "" {
		return "", apperror.NewAppError(apperror.ErrUpstream, result.Error.Message, "cloudinary rejected the upload", nil)
	}
	return result.SecureURL, nil
}

func (a *cloudinaryAdapter) Delete(ctx context.Context, key string) error {
	result, err := a.api.Destroy(ctx, uploader.DestroyParams{PublicID: a.publicID(key)})
	if err != nil {
		return apperror.NewUpstream("failed to delete cloudinary", err)
	}
	if result.Error.Message != "" {
		return apperror.NewAppError(apperror.ErrUpstream, result.Error.Message, "cloudinary rejected the delete", nil)
	}
	if result.Result != "ok" {
		a.logger.Warn("Cloudinary destroy did not remove an asset", zap.String("key", key), zap.String("result", result.Result))
	}
	return nil
}

// KeyFromURL maps a delivery URL like
// https://res.cloudinary.com/<cloud>/image/upload/v123/<folder>/<key> back to
// the storage key.
func (a *cloudinaryAdapter) KeyFromURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host != cloudinaryHost {
		return "", false
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	idx := -1
	for i, s := range segments {
		if s == "upload" {
			idx = i
			break
		}
	}
	if idx < 0 || idx+1 >= len(segments) {
		return "", false
	}
	rest := segments[idx+1:]
	if cloudinaryVersionSegment.MatchString(rest[0]) {
		rest = rest[1:]
	}
	full := strings.Join(rest, "/")
	if a.folder != "" {
		if !strings.HasPrefix(full, a.folder+"/") {
			return "", false
		}
		full = strings.TrimPrefix(full, a.folder+"/")
	}
	if full == "" {
		return "", false
	}
	return full, true
}

// publicID drops the extension; Cloudinary appends its own on delivery.
func (a *cloudinaryAdapter) publicID(key string) string {
	id := strings.TrimSuffix(key, path.Ext(key))
	if a.folder == "" {
		return id
	}
	return a.folder + "/" + id
}

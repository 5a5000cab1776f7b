package media_storage

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/MoSamy004/Portfolio/internal/application/service"
	"github.com/MoSamy004/Portfolio/internal/config"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

const (
	DriverAuto       = "auto"
	DriverSupabase   = supabaseBackendName
	DriverS3         = s3BackendName
	DriverCloudinary = cloudinaryBackendName
	DriverLocal      = localBackendName
)

// SelectDriver picks the backend for the configuration. An explicit
// storage.driver wins; otherwise the REST API is preferred whenever an origin
// and a service key are present.
func SelectDriver(cfg config.Config) string {
	if d := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)); d != "" && d != DriverAuto {
		return d
	}
	switch {
	case cfg.StorageOrigin() != "" && cfg.Supabase.ServiceRoleKey != "":
		return DriverSupabase
	case cfg.S3.Endpoint != "" || cfg.S3.AccessKeyID != "":
		return DriverS3
	case cfg.Cloudinary.CloudName != "":
		return DriverCloudinary
	default:
		return DriverLocal
	}
}

// NewUploader resolves the storage backend once at startup.
func NewUploader(ctx context.Context, cfg config.Config, log logger.Logger) (service.Uploader, error) {
	driver := SelectDriver(cfg)

	log.Info("Storage diagnostics",
		zap.String("driver", driver),
		zap.Bool("origin_set", cfg.StorageOrigin() != ""),
		zap.String("service_role_key", logger.Mask(cfg.Supabase.ServiceRoleKey)),
		zap.Bool("s3_access_key_set", cfg.S3.AccessKeyID != ""),
		zap.Bool("s3_secret_key_set", cfg.S3.SecretAccessKey != ""),
		zap.Bool("force_path_style", cfg.S3.ForcePathStyle))

	switch driver {
	case DriverSupabase:
		return NewSupabaseAdapter(cfg.StorageOrigin(), cfg.S3.Bucket, cfg.Supabase.ServiceRoleKey, nil, log)
	case DriverS3:
		return NewS3Adapter(ctx, S3Options{
			Endpoint:        cfg.S3SDKEndpoint(),
			PublicOrigin:    cfg.StorageOrigin(),
			Region:          cfg.S3.Region,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Bucket:          cfg.S3.Bucket,
			ForcePathStyle:  cfg.S3.ForcePathStyle,
		}, log)
	case DriverCloudinary:
		return NewCloudinaryAdapter(cfg, log)
	case DriverLocal:
		local, err := NewLocalAdapter(cfg.LocalStorage.Dir, cfg.LocalStorage.PublicBaseURL, log)
		if err != nil {
			return nil, err
		}
		return local, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", driver)
}

package media_storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MoSamy004/Portfolio/internal/config"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

func TestSelectDriver(t *testing.T) {
	cases := []struct {
		name  string
		setup func(c *config.Config)
		want  string
	}{
		{name: "nothing configured", setup: func(c *config.Config) {}, want: DriverLocal},
		{
			name: "origin and service key prefer REST",
			setup: func(c *config.Config) {
				c.S3.Endpoint = "https://proj.supabase.co/storage/v1/s3"
				c.S3.AccessKeyID = "ak"
				c.Supabase.ServiceRoleKey = "service"
			},
			want: DriverSupabase,
		},
		{
			name: "supabase url without s3 endpoint",
			setup: func(c *config.Config) {
				c.Supabase.URL = "https://proj.supabase.co"
				c.Supabase.ServiceRoleKey = "service"
			},
			want: DriverSupabase,
		},
		{
			name:  "s3 credentials without service key",
			setup: func(c *config.Config) { c.S3.AccessKeyID = "ak" },
			want:  DriverS3,
		},
		{
			name:  "cloudinary only",
			setup: func(c *config.Config) { c.Cloudinary.CloudName = "demo" },
			want:  DriverCloudinary,
		},
		{
			name: "explicit driver wins",
			setup: func(c *config.Config) {
				c.Storage.Driver = "LOCAL"
				c.S3.AccessKeyID = "ak"
			},
			want: DriverLocal,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var cfg config.Config
			cfg.Storage.Driver = DriverAuto
			tc.setup(&cfg)
			assert.Equal(t, tc.want, SelectDriver(cfg))
		})
	}
}

func TestNewUploader(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()

	var cfg config.Config
	cfg.LocalStorage.Dir = t.TempDir()
	cfg.LocalStorage.PublicBaseURL = "http://localhost:8080/uploads"
	up, err := NewUploader(ctx, cfg, log)
	require.NoError(t, err)
	assert.Equal(t, DriverLocal, up.Name())

	cfg.Supabase.URL = "https://proj.supabase.co"
	cfg.Supabase.ServiceRoleKey = "service"
	cfg.S3.Bucket = "uploads"
	up, err = NewUploader(ctx, cfg, log)
	require.NoError(t, err)
	assert.Equal(t, DriverSupabase, up.Name())

	cfg.Storage.Driver = "ftp"
	_, err = NewUploader(ctx, cfg, log)
	assert.ErrorContains(t, err, "unknown storage driver")
}

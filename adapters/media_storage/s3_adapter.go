package media_storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/MoSamy004/Portfolio/internal/application/service"
	"github.com/MoSamy004/Portfolio/internal/domain/media"
	"github.com/MoSamy004/Portfolio/pkg/apperror"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

const (
	s3BackendName       = "s3"
	noSuchBucketCode    = "NoSuchBucket"
	defaultS3Region     = "auto"
	bucketRetryFailures = "Bucket creation failed or upload retry failed"
)

// s3API is the subset of *s3.Client the adapter calls.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Options struct {
	Endpoint        string // SDK endpoint, may be empty for AWS
	PublicOrigin    string // origin used to build public object URLs
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	ForcePathStyle  bool
}

type s3Adapter struct {
	client s3API
	opts   S3Options
	logger logger.Logger
}

var _ service.KeyResolver = (*s3Adapter)(nil)

func NewS3Adapter(ctx context.Context, opts S3Options, log logger.Logger) (service.Uploader, error) {
	if opts.Region == "" {
		opts.Region = defaultS3Region
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKeyID,
			opts.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.ForcePathStyle
	})

	log.Info("S3 storage client initialized",
		zap.String("endpoint", opts.Endpoint),
		zap.String("bucket", opts.Bucket),
		zap.Bool("force_path_style", opts.ForcePathStyle),
		zap.String("access_key_id", logger.Mask(opts.AccessKeyID)))

	return newS3Adapter(client, opts, log), nil
}

func newS3Adapter(client s3API, opts S3Options, log logger.Logger) *s3Adapter {
	if opts.Region == "" {
		opts.Region = defaultS3Region
	}
	opts.PublicOrigin = strings.TrimRight(opts.PublicOrigin, "/")
	return &s3Adapter{client: client, opts: opts, logger: log}
}

func (a *s3Adapter) Name() string { return s3BackendName }

func (a *s3Adapter) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = defaultContentType
	}
	put := func() error {
		_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(a.opts.Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		return err
	}

	err := put()
	if err != nil && isNoSuchBucket(err) {
		a.logger.Warn("Bucket not found, attempting to create bucket", zap.String("bucket", a.opts.Bucket))
		if _, cerr := a.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(a.opts.Bucket)}); cerr != nil {
			return "", apperror.NewUpstream(bucketRetryFailures, cerr)
		}
		a.logger.Info("Bucket created successfully, retrying upload", zap.String("bucket", a.opts.Bucket))
		if rerr := put(); rerr != nil {
			return "", apperror.NewUpstream(bucketRetryFailures, rerr)
		}
		err = nil
	}
	if err != nil {
		a.logger.Error("S3 upload error", err, zap.String("bucket", a.opts.Bucket), zap.String("key", key))
		return "", classifyS3Error(err)
	}

	return a.publicURL(key), nil
}

func (a *s3Adapter) Delete(ctx context.Context, key string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.opts.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return classifyS3Error(err)
	}
	return nil
}

func (a *s3Adapter) publicURL(key string) string {
	if a.opts.PublicOrigin != "" {
		return media.PublicObjectURL(a.opts.PublicOrigin, a.opts.Bucket, key)
	}
	host := a.opts.Bucket + ".s3.amazonaws.com"
	if a.opts.Region != defaultS3Region {
		host = fmt.Sprintf("%s.s3.%s.amazonaws.com", a.opts.Bucket, a.opts.Region)
	}
	return (&url.URL{Scheme: "https", Host: host, Path: "/" + key}).String()
}

// KeyFromURL maps a URL returned by Put back to its key. Besides the
// public-object shape it accepts virtual-hosted
// (https://<bucket>.s3[.<region>].amazonaws.com/<key>) and path-style
// (https://<host>/<bucket>/<key>) object URLs.
func (a *s3Adapter) KeyFromURL(rawURL string) (string, bool) {
	if key, ok := media.ObjectKeyFromURL(rawURL); ok {
		return key, true
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	bucket := strings.ToLower(a.opts.Bucket)
	path := strings.TrimPrefix(u.Path, "/")

	if strings.HasPrefix(host, bucket+".s3.") || strings.HasPrefix(host, bucket+".s3-") {
		if !strings.HasSuffix(host, ".amazonaws.com") || path == "" {
			return "", false
		}
		return path, true
	}

	if !a.isS3Host(host) {
		return "", false
	}
	key, found := strings.CutPrefix(path, a.opts.Bucket+"/")
	if !found || key == "" {
		return "", false
	}
	return key, true
}

// isS3Host reports whether host serves path-style URLs for this adapter:
// an AWS S3 endpoint or the configured endpoint host.
func (a *s3Adapter) isS3Host(host string) bool {
	if strings.HasSuffix(host, ".amazonaws.com") && (strings.HasPrefix(host, "s3.") || strings.HasPrefix(host, "s3-")) {
		return true
	}
	if a.opts.Endpoint == "" {
		return false
	}
	ep, err := url.Parse(a.opts.Endpoint)
	return err == nil && strings.EqualFold(ep.Hostname(), host)
}

func isNoSuchBucket(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == noSuchBucketCode
}

func classifyS3Error(err error) error {
	if isTLSFailure(err) {
		return apperror.NewBadGateway(tlsGuidanceS3, err)
	}
	msg := err.Error()
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorMessage() != "" {
		msg = apiErr.ErrorMessage()
	}
	return apperror.NewAppError(apperror.ErrUpstream, msg, "S3 request failed", err)
}

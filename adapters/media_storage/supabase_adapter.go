package media_storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MoSamy004/Portfolio/internal/application/service"
	"github.com/MoSamy004/Portfolio/internal/domain/media"
	"github.com/MoSamy004/Portfolio/pkg/apperror"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

const (
	defaultContentType  = "application/octet-stream"
	maxErrorBodyBytes   = 64 << 10
	invalidCompactJWS   = "Invalid Compact JWS"
	defaultHTTPTimeout  = 60 * time.Second
	supabaseBackendName = "supabase"
)

// supabaseAdapter talks to the object REST API with the privileged service
// key.
type supabaseAdapter struct {
	origin     string
	bucket     string
	serviceKey string
	httpClient *http.Client
	logger     logger.Logger
}

func NewSupabaseAdapter(origin, bucket, serviceKey string, httpClient *http.Client, log logger.Logger) (service.Uploader, error) {
	if origin == "" || serviceKey == "" {
		return nil, fmt.Errorf("supabase storage requires an origin URL and a service role key")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &supabaseAdapter{
		origin:     strings.TrimRight(origin, "/"),
		bucket:     bucket,
		serviceKey: serviceKey,
		httpClient: httpClient,
		logger:     log,
	}, nil
}

func (a *supabaseAdapter) Name() string { return supabaseBackendName }

func (a *supabaseAdapter) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := media.ValidateKey(key); err != nil {
		return "", apperror.NewInvalidInput("Invalid object key", err)
	}
	if contentType == "" {
		contentType = defaultContentType
	}
	putURL := media.ObjectAPIURL(a.origin, a.bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, putURL, bytes.NewReader(data))
	if err != nil {
		return "", apperror.NewInternal("failed to build storage request", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.serviceKey)
	req.Header.Set("Content-Type", contentType)

	a.logger.Info("Using Supabase REST PUT for upload",
		zap.String("bucket", a.bucket), zap.String("key", key), zap.String("service_key", logger.Mask(a.serviceKey)))

	res, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Error("Supabase REST PUT error", err)
		return "", classifyTransport(err, tlsGuidanceREST, transportGuidanceREST)
	}
	defer res.Body.Close()
	body := readErrorBody(res.Body)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		a.logger.Warn("Supabase PUT rejected", zap.Int("status", res.StatusCode), zap.String("body", body))
		msg := fmt.Sprintf("Supabase PUT failed: %d %s", res.StatusCode, body)
		switch {
		case res.StatusCode == http.StatusForbidden && strings.Contains(body, invalidCompactJWS):
			return "", apperror.NewInvalidCredential(invalidServiceKeyMessage, body)
		case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
			return "", apperror.NewAppError(apperror.ErrUpstream, msg, "storage backend rejected the credential", nil)
		default:
			return "", apperror.NewAppError(apperror.ErrUpstream, msg, "storage backend rejected the upload", nil)
		}
	}

	return media.PublicObjectURL(a.origin, a.bucket, key), nil
}

func (a *supabaseAdapter) Delete(ctx context.Context, key string) error {
	if err := media.ValidateKey(key); err != nil {
		return apperror.NewInvalidInput("Invalid object key", err)
	}
	deleteURL := media.ObjectAPIURL(a.origin, a.bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, deleteURL, nil)
	if err != nil {
		return apperror.NewInternal("failed to build storage request", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.serviceKey)

	a.logger.Info("Using Supabase REST DELETE", zap.String("bucket", a.bucket), zap.String("key", key))

	res, err := a.httpClient.Do(req)
	if err != nil {
		return classifyTransport(err, tlsGuidanceREST, transportGuidanceREST)
	}
	defer res.Body.Close()
	body := readErrorBody(res.Body)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg := fmt.Sprintf("Delete failed: %d %s", res.StatusCode, body)
		return apperror.NewAppError(apperror.ErrUpstream, msg, "storage backend rejected the delete", nil)
	}
	return nil
}

func readErrorBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

package media

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/MoSamy004/Portfolio/internal/application/service"
	"github.com/MoSamy004/Portfolio/internal/domain/media"
	"github.com/MoSamy004/Portfolio/pkg/apperror"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

const missingKeyMessage = "No key or valid url provided"

type DeleteMediaUseCase struct {
	uploader  service.Uploader
	publisher service.EventPublisher
	logger    logger.Logger
}

func NewDeleteMediaUseCase(u service.Uploader, p service.EventPublisher, log logger.Logger) *DeleteMediaUseCase {
	if p == nil {
		p = service.NopPublisher{}
	}
	return &DeleteMediaUseCase{uploader: u, publisher: p, logger: log}
}

type DeleteMediaInput struct {
	Key string
	URL string
}

type DeleteMediaOutput struct {
	// Skipped is true for local-only references that never reached a backend.
	Skipped bool
	Key     string
}

func (uc *DeleteMediaUseCase) Execute(ctx context.Context, input DeleteMediaInput) (*DeleteMediaOutput, error) {
	ctx, span := tracer.Start(ctx, "DeleteMedia")
	defer span.End()

	if media.IsEphemeralReference(input.Key) || media.IsEphemeralReference(input.URL) {
		span.SetAttributes(attribute.Bool("media.ephemeral", true))
		return &DeleteMediaOutput{Skipped: true}, nil
	}

	key, ok := uc.resolveKey(input)
	if !ok {
		err := apperror.NewInvalidInput(missingKeyMessage, nil)
		span.RecordError(err)
		return nil, err
	}
	if err := media.ValidateKey(key); err != nil {
		span.RecordError(err)
		return nil, apperror.NewInvalidInput("Invalid object key", err)
	}
	span.SetAttributes(attribute.String("media.key", key), attribute.String("media.backend", uc.uploader.Name()))

	if err := uc.uploader.Delete(ctx, key); err != nil {
		span.RecordError(err)
		uc.logger.Error("Delete failed", err, zap.String("key", key), zap.String("backend", uc.uploader.Name()))
		return nil, asAppError(err, "failed to delete media file")
	}

	evt := service.MediaEvent{
		ID:         uuid.New(),
		EventType:  service.MediaEventDeleted,
		Key:        key,
		URL:        input.URL,
		Backend:    uc.uploader.Name(),
		OccurredAt: time.Now().UTC(),
	}
	go func() {
		if err := uc.publisher.PublishMediaEvent(context.Background(), evt); err != nil {
			uc.logger.Error("Failed to publish Kafka 'media.deleted' event", err, zap.String("key", evt.Key))
		}
	}()
	return &DeleteMediaOutput{Key: key}, nil
}

// resolveKey prefers an explicit key, then the public-object URL shape, then
// whatever URL shape the backend itself understands.
func (uc *DeleteMediaUseCase) resolveKey(input DeleteMediaInput) (string, bool) {
	if key := strings.TrimSpace(input.Key); key != "" {
		return key, true
	}
	rawURL := strings.TrimSpace(input.URL)
	if rawURL == "" {
		return "", false
	}
	if key, ok := media.ObjectKeyFromURL(rawURL); ok {
		return key, true
	}
	if resolver, ok := uc.uploader.(service.KeyResolver); ok {
		return resolver.KeyFromURL(rawURL)
	}
	return "", false
}

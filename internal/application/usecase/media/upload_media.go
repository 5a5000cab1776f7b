package media

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/MoSamy004/Portfolio/internal/application/service"
	"github.com/MoSamy004/Portfolio/internal/domain/media"
	"github.com/MoSamy004/Portfolio/pkg/apperror"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

var tracer = otel.Tracer("media_usecase")

type UploadMediaUseCase struct {
	uploader  service.Uploader
	publisher service.EventPublisher
	logger    logger.Logger
	now       func() time.Time
}

func NewUploadMediaUseCase(u service.Uploader, p service.EventPublisher, log logger.Logger) *UploadMediaUseCase {
	if p == nil {
		p = service.NopPublisher{}
	}
	return &UploadMediaUseCase{uploader: u, publisher: p, logger: log, now: time.Now}
}

type UploadMediaInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

type UploadMediaOutput struct {
	Key string
	URL string
}

func (uc *UploadMediaUseCase) Execute(ctx context.Context, input UploadMediaInput) (*UploadMediaOutput, error) {
	ctx, span := tracer.Start(ctx, "UploadMedia")
	defer span.End()

	key := media.ObjectName(uc.now(), input.Filename)
	span.SetAttributes(
		attribute.String("media.key", key),
		attribute.String("media.backend", uc.uploader.Name()),
		attribute.Int("media.size", len(input.Data)),
	)

	url, err := uc.uploader.Put(ctx, key, input.Data, input.ContentType)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Upload failed", err, zap.String("key", key), zap.String("backend", uc.uploader.Name()))
		return nil, asAppError(err, "failed to upload media file")
	}

	uc.publish(service.MediaEvent{
		ID:         uuid.New(),
		EventType:  service.MediaEventUploaded,
		Key:        key,
		URL:        url,
		Backend:    uc.uploader.Name(),
		OccurredAt: uc.now().UTC(),
	})
	return &UploadMediaOutput{Key: key, URL: url}, nil
}

func (uc *UploadMediaUseCase) publish(evt service.MediaEvent) {
	go func() {
		if err := uc.publisher.PublishMediaEvent(context.Background(), evt); err != nil {
			uc.logger.Error("Failed to publish Kafka 'media.uploaded' event", err, zap.String("key", evt.Key))
		}
	}()
}

// asAppError keeps backend classifications and wraps anything else as internal.
func asAppError(err error, details string) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.NewInternal(details, err)
}

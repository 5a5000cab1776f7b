package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/MoSamy004/Portfolio/internal/application/service"
	"github.com/MoSamy004/Portfolio/internal/domain/portfolio"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

var tracer = otel.Tracer("portfolio_usecase")

type PortfolioUseCase struct {
	repo      portfolio.Repository
	publisher service.EventPublisher
	logger    logger.Logger
}

func NewPortfolioUseCase(repo portfolio.Repository, publisher service.EventPublisher, log logger.Logger) *PortfolioUseCase {
	if publisher == nil {
		publisher = service.NopPublisher{}
	}
	return &PortfolioUseCase{repo: repo, publisher: publisher, logger: log}
}

func (uc *PortfolioUseCase) GetPortfolio(ctx context.Context) (*portfolio.Portfolio, error) {
	ctx, span := tracer.Start(ctx, "GetPortfolio")
	defer span.End()

	p, err := uc.repo.Fetch(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get portfolio failed: %w", err)
	}
	return p.Normalize(), nil
}

func (uc *PortfolioUseCase) ReplaceProfile(ctx context.Context, profile portfolio.Profile) error {
	ctx, span := tracer.Start(ctx, "ReplaceProfile")
	defer span.End()

	if err := uc.repo.ReplaceProfile(ctx, profile); err != nil {
		span.RecordError(err)
		return fmt.Errorf("save profile failed: %w", err)
	}
	uc.publishReplaced(portfolio.SectionProfile)
	return nil
}

func (uc *PortfolioUseCase) ReplaceProjects(ctx context.Context, projects []portfolio.Project) error {
	ctx, span := tracer.Start(ctx, "ReplaceProjects")
	defer span.End()
	span.SetAttributes(attribute.Int("projects.count", len(projects)))

	normalized := make([]portfolio.Project, len(projects))
	for i, p := range projects {
		if p.Images == nil {
			p.Images = []string{}
		}
		normalized[i] = p
	}
	if err := uc.repo.ReplaceProjects(ctx, normalized); err != nil {
		span.RecordError(err)
		return fmt.Errorf("save projects failed: %w", err)
	}
	uc.publishReplaced(portfolio.SectionProjects)
	return nil
}

func (uc *PortfolioUseCase) ReplaceExperiences(ctx context.Context, experiences []portfolio.Experience) error {
	ctx, span := tracer.Start(ctx, "ReplaceExperiences")
	defer span.End()
	span.SetAttributes(attribute.Int("experiences.count", len(experiences)))

	if experiences == nil {
		experiences = []portfolio.Experience{}
	}
	if err := uc.repo.ReplaceExperiences(ctx, experiences); err != nil {
		span.RecordError(err)
		return fmt.Errorf("save experiences failed: %w", err)
	}
	uc.publishReplaced(portfolio.SectionExperiences)
	return nil
}

func (uc *PortfolioUseCase) publishReplaced(section portfolio.Section) {
	evt := service.PortfolioEvent{
		ID:         uuid.New(),
		EventType:  service.PortfolioEventSectionReplaced,
		Section:    string(section),
		OccurredAt: time.Now().UTC(),
	}
	go func() {
		if err := uc.publisher.PublishPortfolioEvent(context.Background(), evt); err != nil {
			uc.logger.Error("Failed to publish Kafka 'portfolio.section_replaced' event", err, zap.String("section", evt.Section))
		}
	}()
}

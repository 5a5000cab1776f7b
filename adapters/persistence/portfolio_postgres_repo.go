package persistence

import (
	"context"
	"encoding/json"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/MoSamy004/Portfolio/internal/domain/portfolio"
	"github.com/MoSamy004/Portfolio/pkg/apperror"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

var psqlPortfolio = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type postgresPortfolioRepo struct {
	conn   *PostgresConnector
	logger logger.Logger
}

func NewPostgresPortfolioRepo(conn *PostgresConnector, logger logger.Logger) portfolio.Repository {
	return &postgresPortfolioRepo{conn: conn, logger: logger}
}

func (r *postgresPortfolioRepo) Fetch(ctx context.Context) (*portfolio.Portfolio, error) {
	pool, err := r.conn.Pool(ctx)
	if err != nil {
		return nil, apperror.NewUpstream("document store unavailable", err)
	}

	query, args, err := psqlPortfolio.
		Select("profile", "projects", "experiences").
		From(portfolio.CollectionName).
		Where(sq.Eq{"id": portfolio.DocumentID}).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build portfolio query", err)
	}

	var profileBytes, projectsBytes, experiencesBytes []byte
	err = pool.QueryRow(ctx, query, args...).Scan(&profileBytes, &projectsBytes, &experiencesBytes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return portfolio.Default(), nil
		}
		return nil, apperror.NewUpstream("failed to read portfolio", err)
	}

	p := portfolio.Default()
	if len(profileBytes) > 0 {
		var stored portfolio.Profile
		if err := json.Unmarshal(profileBytes, &stored); err != nil {
			r.logger.Warn("Failed to unmarshal profile", zap.Error(err))
		} else {
			p.Profile = stored
		}
	}
	if len(projectsBytes) > 0 {
		if err := json.Unmarshal(projectsBytes, &p.Projects); err != nil {
			r.logger.Warn("Failed to unmarshal projects", zap.Error(err))
			p.Projects = []portfolio.Project{}
		}
	}
	if len(experiencesBytes) > 0 {
		if err := json.Unmarshal(experiencesBytes, &p.Experiences); err != nil {
			r.logger.Warn("Failed to unmarshal experiences", zap.Error(err))
			p.Experiences = []portfolio.Experience{}
		}
	}
	return p.Normalize(), nil
}

func (r *postgresPortfolioRepo) ReplaceProfile(ctx context.Context, profile portfolio.Profile) error {
	return r.upsertSection(ctx, portfolio.SectionProfile, profile)
}

func (r *postgresPortfolioRepo) ReplaceProjects(ctx context.Context, projects []portfolio.Project) error {
	if projects == nil {
		projects = []portfolio.Project{}
	}
	return r.upsertSection(ctx, portfolio.SectionProjects, projects)
}

func (r *postgresPortfolioRepo) ReplaceExperiences(ctx context.Context, experiences []portfolio.Experience) error {
	if experiences == nil {
		experiences = []portfolio.Experience{}
	}
	return r.upsertSection(ctx, portfolio.SectionExperiences, experiences)
}

// upsertSection writes one JSONB column. The column name is only ever taken
// from a valid Section.
func (r *postgresPortfolioRepo) upsertSection(ctx context.Context, section portfolio.Section, value any) error {
	if !section.Valid() {
		return apperror.NewInvalidInput("unknown portfolio section", nil)
	}
	column := string(section)

	payload, err := json.Marshal(value)
	if err != nil {
		return apperror.NewInternal("failed to marshal "+column, err)
	}

	pool, err := r.conn.Pool(ctx)
	if err != nil {
		return apperror.NewUpstream("document store unavailable", err)
	}

	query, args, err := psqlPortfolio.
		Insert(portfolio.CollectionName).
		Columns("id", column, "updated_at").
		Values(portfolio.DocumentID, payload, sq.Expr("NOW()")).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + column + " = EXCLUDED." + column + ", updated_at = NOW()").
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build upsert query", err)
	}

	if _, err := pool.Exec(ctx, query, args...); err != nil {
		return apperror.NewUpstream("failed to save "+column, err)
	}
	return nil
}

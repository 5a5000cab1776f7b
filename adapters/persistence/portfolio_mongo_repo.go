package persistence

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MoSamy004/Portfolio/internal/domain/portfolio"
	"github.com/MoSamy004/Portfolio/pkg/apperror"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

// portfolioDocument mirrors the stored shape. Pointer fields distinguish a
// missing section from an empty one.
type portfolioDocument struct {
	ID          string                 `bson:"_id"`
	Profile     *portfolio.Profile     `bson:"profile,omitempty"`
	Projects    []portfolio.Project    `bson:"projects,omitempty"`
	Experiences []portfolio.Experience `bson:"experiences,omitempty"`
}

type mongoPortfolioRepo struct {
	conn   *MongoConnector
	logger logger.Logger
}

func NewMongoPortfolioRepo(conn *MongoConnector, logger logger.Logger) portfolio.Repository {
	return &mongoPortfolioRepo{conn: conn, logger: logger}
}

func (r *mongoPortfolioRepo) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.conn.Database(ctx)
	if err != nil {
		return nil, apperror.NewUpstream("document store unavailable", err)
	}
	return db.Collection(portfolio.CollectionName), nil
}

func (r *mongoPortfolioRepo) Fetch(ctx context.Context) (*portfolio.Portfolio, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var doc portfolioDocument
	err = coll.FindOne(ctx, bson.M{"_id": portfolio.DocumentID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return portfolio.Default(), nil
		}
		return nil, apperror.NewUpstream("failed to read portfolio", err)
	}

	p := portfolio.Default()
	if doc.Profile != nil {
		p.Profile = *doc.Profile
	}
	if doc.Projects != nil {
		p.Projects = doc.Projects
	}
	if doc.Experiences != nil {
		p.Experiences = doc.Experiences
	}
	return p.Normalize(), nil
}

func (r *mongoPortfolioRepo) ReplaceProfile(ctx context.Context, profile portfolio.Profile) error {
	return r.setSection(ctx, portfolio.SectionProfile, profile)
}

func (r *mongoPortfolioRepo) ReplaceProjects(ctx context.Context, projects []portfolio.Project) error {
	if projects == nil {
		projects = []portfolio.Project{}
	}
	return r.setSection(ctx, portfolio.SectionProjects, projects)
}

func (r *mongoPortfolioRepo) ReplaceExperiences(ctx context.Context, experiences []portfolio.Experience) error {
	if experiences == nil {
		experiences = []portfolio.Experience{}
	}
	return r.setSection(ctx, portfolio.SectionExperiences, experiences)
}

func (r *mongoPortfolioRepo) setSection(ctx context.Context, section portfolio.Section, value any) error {
	if !section.Valid() {
		return apperror.NewInvalidInput("unknown portfolio section", nil)
	}
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	_, err = coll.UpdateOne(ctx,
		bson.M{"_id": portfolio.DocumentID},
		bson.M{"$set": bson.M{string(section): value}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return apperror.NewUpstream("failed to save "+string(section), err)
	}
	return nil
}

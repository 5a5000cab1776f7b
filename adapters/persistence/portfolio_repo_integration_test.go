package persistence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/MoSamy004/Portfolio/internal/domain/portfolio"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

// PortfolioRepoContractSuite runs the same behaviour checks against every
// document store. countDocs reports how many aggregate rows exist.
type PortfolioRepoContractSuite struct {
	suite.Suite
	repo      portfolio.Repository
	countDocs func(ctx context.Context) int64
	reset     func(ctx context.Context)
	teardown  func()
}

func (s *PortfolioRepoContractSuite) SetupTest() {
	s.reset(context.Background())
}

func (s *PortfolioRepoContractSuite) TearDownSuite() {
	if s.teardown != nil {
		s.teardown()
	}
}

func (s *PortfolioRepoContractSuite) Test_Fetch_NeverWritten_ReturnsDefaults() {
	ctx := context.Background()

	got, err := s.repo.Fetch(ctx)
	s.Require().NoError(err)
	s.Equal(portfolio.Default(), got)
	s.Equal(int64(0), s.countDocs(ctx))
}

func (s *PortfolioRepoContractSuite) Test_Replace_LeavesOtherSectionsUntouched() {
	ctx := context.Background()

	profile := portfolio.Profile{
		Name:        "Jane Doe",
		Title:       "BI Developer",
		AccentColor: "#111111",
		Links:       portfolio.SocialLinks{LinkedIn: "https://linkedin.com/in/jane"},
	}
	projects := []portfolio.Project{
		{ID: "1700000000000", Title: "Churn model", Images: []string{"https://h/storage/v1/object/public/uploads/a.png"}},
	}
	experiences := []portfolio.Experience{{ID: "e1", Title: "Acme", Position: "Analyst", Date: "2021-2023"}}

	s.Require().NoError(s.repo.ReplaceProfile(ctx, profile))
	s.Require().NoError(s.repo.ReplaceProjects(ctx, projects))
	s.Require().NoError(s.repo.ReplaceExperiences(ctx, experiences))

	got, err := s.repo.Fetch(ctx)
	s.Require().NoError(err)
	s.Equal(profile, got.Profile)
	s.Equal(projects, got.Projects)
	s.Equal(experiences, got.Experiences)
	s.Equal(int64(1), s.countDocs(ctx))

	s.Require().NoError(s.repo.ReplaceProjects(ctx, []portfolio.Project{}))
	got, err = s.repo.Fetch(ctx)
	s.Require().NoError(err)
	s.Empty(got.Projects)
	s.Equal(profile, got.Profile)
	s.Equal(experiences, got.Experiences)
}

func (s *PortfolioRepoContractSuite) Test_OnlyProjectsWritten_ProfileStaysDefault() {
	ctx := context.Background()

	s.Require().NoError(s.repo.ReplaceProjects(ctx, []portfolio.Project{{ID: "1", Title: "A", Images: []string{}}}))

	got, err := s.repo.Fetch(ctx)
	s.Require().NoError(err)
	s.Equal(portfolio.DefaultProfile(), got.Profile)
	s.Len(got.Projects, 1)
	s.Empty(got.Experiences)
}

func (s *PortfolioRepoContractSuite) Test_SequentialWrites_LastWins() {
	ctx := context.Background()

	s.Require().NoError(s.repo.ReplaceProfile(ctx, portfolio.Profile{Name: "A", Title: "first"}))
	s.Require().NoError(s.repo.ReplaceProfile(ctx, portfolio.Profile{Name: "B", Title: "second"}))

	got, err := s.repo.Fetch(ctx)
	s.Require().NoError(err)
	s.Equal("B", got.Profile.Name)
	s.Equal("second", got.Profile.Title)
}

func skipUnlessIntegration(t *testing.T) {
	t.Helper()
	if testing.Short() || os.Getenv("INTEGRATION_TESTS") != "1" {
		t.Skip("Skipping integration test. Set INTEGRATION_TESTS=1 to run.")
	}
}

func TestMongoPortfolioRepoIntegration(t *testing.T) {
	skipUnlessIntegration(t)
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("Failed to start mongo container: %s", err)
	}
	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("Failed to get connection string: %s", err)
	}

	log := logger.NewNop()
	conn := NewMongoConnector(uri, "portfolio_test", log)
	db, err := conn.Database(ctx)
	if err != nil {
		t.Fatalf("Failed to connect mongo: %s", err)
	}
	coll := db.Collection(portfolio.CollectionName)

	suite.Run(t, &PortfolioRepoContractSuite{
		repo: NewMongoPortfolioRepo(conn, log),
		countDocs: func(ctx context.Context) int64 {
			n, err := coll.CountDocuments(ctx, bson.M{})
			if err != nil {
				t.Fatalf("count documents: %s", err)
			}
			return n
		},
		reset: func(ctx context.Context) {
			if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
				t.Fatalf("reset collection: %s", err)
			}
		},
		teardown: func() {
			_ = conn.Close(context.Background())
			_ = container.Terminate(context.Background())
		},
	})
}

func TestPostgresPortfolioRepoIntegration(t *testing.T) {
	skipUnlessIntegration(t)
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %s", err)
	}

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %s", err)
	}
	if err := Migrate(dsn); err != nil {
		t.Fatalf("Failed to run migrations: %s", err)
	}

	log := logger.NewNop()
	conn := NewPostgresConnector(dsn, log)
	pool, err := conn.Pool(ctx)
	if err != nil {
		t.Fatalf("Failed to create pool: %s", err)
	}

	suite.Run(t, &PortfolioRepoContractSuite{
		repo: NewPostgresPortfolioRepo(conn, log),
		countDocs: func(ctx context.Context) int64 {
			var n int64
			if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM portfolio").Scan(&n); err != nil {
				t.Fatalf("count rows: %s", err)
			}
			return n
		},
		reset: func(ctx context.Context) {
			if _, err := pool.Exec(ctx, "DELETE FROM portfolio"); err != nil {
				t.Fatalf("reset table: %s", err)
			}
		},
		teardown: func() {
			conn.Close()
			_ = pgContainer.Terminate(context.Background())
		},
	})
}

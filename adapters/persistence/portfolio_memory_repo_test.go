package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MoSamy004/Portfolio/internal/domain/portfolio"
)

func TestMemoryPortfolioRepo_FetchDoesNotCreate(t *testing.T) {
	repo := NewMemoryPortfolioRepo()

	got, err := repo.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, portfolio.Default(), got)
	assert.False(t, repo.Exists())
}

func TestMemoryPortfolioRepo_SectionsAreIndependent(t *testing.T) {
	repo := NewMemoryPortfolioRepo()
	ctx := context.Background()

	profile := portfolio.Profile{Name: "Jane", Title: "Engineer", Links: portfolio.SocialLinks{GitHub: "https://github.com/jane"}}
	require.NoError(t, repo.ReplaceProfile(ctx, profile))
	require.NoError(t, repo.ReplaceProjects(ctx, []portfolio.Project{{ID: "1", Title: "A"}}))

	got, err := repo.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, profile, got.Profile)
	assert.Equal(t, []portfolio.Project{{ID: "1", Title: "A", Images: []string{}}}, got.Projects)
	assert.Equal(t, []portfolio.Experience{}, got.Experiences)

	// a later profile without links must not keep the old ones
	require.NoError(t, repo.ReplaceProfile(ctx, portfolio.Profile{Name: "Jane"}))
	got, err = repo.Fetch(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Profile.Links.GitHub)
	assert.Len(t, got.Projects, 1)
}

func TestMemoryPortfolioRepo_LastWriteWins(t *testing.T) {
	repo := NewMemoryPortfolioRepo()
	ctx := context.Background()

	require.NoError(t, repo.ReplaceExperiences(ctx, []portfolio.Experience{{ID: "a", Title: "A"}}))
	require.NoError(t, repo.ReplaceExperiences(ctx, []portfolio.Experience{{ID: "b", Title: "B"}}))

	got, err := repo.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []portfolio.Experience{{ID: "b", Title: "B"}}, got.Experiences)
}

func TestMemoryPortfolioRepo_CallerSliceIsDetached(t *testing.T) {
	repo := NewMemoryPortfolioRepo()
	ctx := context.Background()

	projects := []portfolio.Project{{ID: "1", Title: "A", Images: []string{"u1"}}}
	require.NoError(t, repo.ReplaceProjects(ctx, projects))
	projects[0].Title = "mutated"

	got, err := repo.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Projects[0].Title)
}

package editor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpAdapter "github.com/MoSamy004/Portfolio/adapters/http"
	"github.com/MoSamy004/Portfolio/adapters/media_storage"
	"github.com/MoSamy004/Portfolio/adapters/persistence"
	authUC "github.com/MoSamy004/Portfolio/internal/application/usecase/auth"
	mediaUC "github.com/MoSamy004/Portfolio/internal/application/usecase/media"
	portfolioUC "github.com/MoSamy004/Portfolio/internal/application/usecase/portfolio"
	"github.com/MoSamy004/Portfolio/internal/domain/portfolio"
	"github.com/MoSamy004/Portfolio/pkg/auth"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

const (
	adminUser = "admin"
	adminPass = "s3cret-for-tests"
)

type testAPI struct {
	server *httptest.Server
	repo   *persistence.MemoryPortfolioRepo
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()

	var handler http.Handler
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	local, err := media_storage.NewLocalAdapter(t.TempDir(), srv.URL+"/uploads", log)
	require.NoError(t, err)

	creds, err := authUC.NewAdminCredentials(adminUser, adminPass, "")
	require.NoError(t, err)
	jwtSvc := auth.NewJWTService("editor-test-key", time.Hour)

	repo := persistence.NewMemoryPortfolioRepo()
	handler = httpAdapter.NewRouter(httpAdapter.RouterDeps{
		Portfolio: httpAdapter.NewPortfolioHandler(portfolioUC.NewPortfolioUseCase(repo, nil, log), log),
		Media: httpAdapter.NewMediaHandler(
			mediaUC.NewUploadMediaUseCase(local, nil, log),
			mediaUC.NewDeleteMediaUseCase(local, nil, log),
			1<<20,
			log,
		),
		Auth:       httpAdapter.NewAuthHandler(authUC.NewLoginUseCase(creds, jwtSvc, log), log),
		JWT:        jwtSvc,
		UploadsDir: local.Dir(),
		Logger:     log,
	})
	return &testAPI{server: srv, repo: repo}
}

func loggedInClient(t *testing.T, api *testAPI) *Client {
	t.Helper()
	c := NewClient(api.server.URL, api.server.Client())
	tok, err := c.Login(context.Background(), adminUser, adminPass)
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	return c
}

func TestClient_LoginRejected(t *testing.T) {
	api := newTestAPI(t)
	c := NewClient(api.server.URL, api.server.Client())

	_, err := c.Login(context.Background(), adminUser, "nope")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.Message)
}

func TestClient_WriteWithoutToken(t *testing.T) {
	api := newTestAPI(t)
	c := NewClient(api.server.URL, api.server.Client())

	err := c.SaveProfile(context.Background(), portfolio.Profile{Name: "X"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.False(t, api.repo.Exists())
}

func TestSession_DraftsStayLocalUntilSaved(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()
	s := NewSession(loggedInClient(t, api))
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	require.NoError(t, s.Load(ctx))
	assert.Equal(t, portfolio.DefaultProfile(), s.Profile())

	p1 := s.AddProject()
	p2 := s.AddProject()
	assert.Equal(t, "1700000000000", p1.ID)
	assert.Equal(t, "1700000000001", p2.ID)
	assert.Equal(t, "New Project", p1.Title)

	e := s.AddExperience()
	assert.Equal(t, "New Experience", e.Title)
	assert.True(t, s.UpdateExperience(e.ID, func(x *portfolio.Experience) { x.Position = "Analyst" }))
	assert.False(t, s.UpdateProject("missing", func(*portfolio.Project) {}))

	assert.False(t, api.repo.Exists())

	require.NoError(t, s.SaveProjects(ctx))
	require.NoError(t, s.SaveExperiences(ctx))

	other := NewSession(NewClient(api.server.URL, api.server.Client()))
	require.NoError(t, other.Load(ctx))
	assert.Len(t, other.Projects(), 2)
	require.Len(t, other.Experiences(), 1)
	assert.Equal(t, "Analyst", other.Experiences()[0].Position)

	s.RemoveProject(p1.ID)
	require.NoError(t, s.SaveProjects(ctx))
	require.NoError(t, other.Load(ctx))
	require.Len(t, other.Projects(), 1)
	assert.Equal(t, p2.ID, other.Projects()[0].ID)
}

func TestSession_ProjectImages(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()
	c := loggedInClient(t, api)
	s := NewSession(c)

	p := s.AddProject()
	u, err := s.UploadProjectImage(ctx, p.ID, "chart one.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, api.server.URL+"/uploads/"))
	assert.True(t, strings.HasSuffix(u, "-chart_one.png"))

	resp, err := http.Get(u)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "png-bytes", string(body))

	_, err = s.UploadProjectImage(ctx, "missing", "a.png", strings.NewReader("x"))
	assert.Error(t, err)

	require.Len(t, s.Projects()[0].Images, 1)
	assert.False(t, s.RemoveProjectImage(p.ID, 3))
	assert.True(t, s.RemoveProjectImage(p.ID, 0))
	assert.Empty(t, s.Projects()[0].Images)

	// dropping the reference leaves the object in storage
	resp, err = http.Get(u)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, c.DeleteUpload(ctx, "", u))
	resp, err = http.Get(u)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClient_DeleteUploadErrors(t *testing.T) {
	api := newTestAPI(t)
	c := loggedInClient(t, api)

	require.NoError(t, c.DeleteUpload(context.Background(), "", "blob:http://localhost:3000/x"))

	err := c.DeleteUpload(context.Background(), "", "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "No key or valid url provided", apiErr.Message)
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MoSamy004/Portfolio/pkg/auth"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

type RouterDeps struct {
	Portfolio *PortfolioHandler
	Media     *MediaHandler
	// Auth is nil when admin login is not configured.
	Auth *AuthHandler
	// JWT protects the write routes; nil leaves them open.
	JWT *auth.JWTService
	// UploadsDir is served at /uploads when set.
	UploadsDir string
	Logger     logger.Logger
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(d.Logger), ErrorMiddleware(d.Logger))

	if d.UploadsDir != "" {
		router.Static("/uploads", d.UploadsDir)
	}

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		api.GET("/portfolio", d.Portfolio.GetPortfolio)

		if d.Auth != nil {
			api.POST("/auth/login", d.Auth.Login)
		}

		admin := api.Group("")
		if d.JWT != nil {
			admin.Use(AuthMiddleware(d.JWT, d.Logger))
		}
		{
			for _, method := range []string{http.MethodPost, http.MethodPut} {
				admin.Handle(method, "/profile", d.Portfolio.ReplaceProfile)
				admin.Handle(method, "/projects", d.Portfolio.ReplaceProjects)
				admin.Handle(method, "/experiences", d.Portfolio.ReplaceExperiences)
			}
			admin.POST("/upload", d.Media.UploadMedia)
			admin.DELETE("/upload", d.Media.DeleteMedia)
		}
	}

	return router
}

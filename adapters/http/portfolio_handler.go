package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	portfolioUC "github.com/MoSamy004/Portfolio/internal/application/usecase/portfolio"
	"github.com/MoSamy004/Portfolio/internal/domain/portfolio"
	"github.com/MoSamy004/Portfolio/pkg/apperror"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

type PortfolioHandler struct {
	portfolioUseCase *portfolioUC.PortfolioUseCase
	logger           logger.Logger
}

func NewPortfolioHandler(uc *portfolioUC.PortfolioUseCase, log logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioUseCase: uc,
		logger:           log,
	}
}

func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	p, err := h.portfolioUseCase.GetPortfolio(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToPortfolioResponse(p))
}

func (h *PortfolioHandler) ReplaceProfile(c *gin.Context) {
	var req portfolio.Profile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bodyError(err))
		return
	}

	if err := h.portfolioUseCase.ReplaceProfile(c.Request.Context(), req); err != nil {
		c.Error(err)
		return
	}
	h.logWrite(c, portfolio.SectionProfile)
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (h *PortfolioHandler) ReplaceProjects(c *gin.Context) {
	var req []portfolio.Project
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bodyError(err))
		return
	}

	if err := h.portfolioUseCase.ReplaceProjects(c.Request.Context(), req); err != nil {
		c.Error(err)
		return
	}
	h.logWrite(c, portfolio.SectionProjects)
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (h *PortfolioHandler) ReplaceExperiences(c *gin.Context) {
	var req []portfolio.Experience
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bodyError(err))
		return
	}

	if err := h.portfolioUseCase.ReplaceExperiences(c.Request.Context(), req); err != nil {
		c.Error(err)
		return
	}
	h.logWrite(c, portfolio.SectionExperiences)
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (h *PortfolioHandler) logWrite(c *gin.Context, section portfolio.Section) {
	username, _ := GetUsernameFromGinContext(c)
	h.logger.Info("Portfolio section replaced", zap.String("section", string(section)), zap.String("username", username))
}

// bodyError keeps undecodable bodies on the generic 500 path.
func bodyError(err error) error {
	return apperror.NewAppError(apperror.ErrInternal, err.Error(), "request body could not be decoded", err)
}

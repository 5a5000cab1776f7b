package http

import (
	"github.com/MoSamy004/Portfolio/internal/domain/portfolio"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type PortfolioResponse struct {
	Profile     portfolio.Profile      `json:"profile"`
	Projects    []portfolio.Project    `json:"projects"`
	Experiences []portfolio.Experience `json:"experiences"`
}

func ToPortfolioResponse(p *portfolio.Portfolio) PortfolioResponse {
	p.Normalize()
	return PortfolioResponse{
		Profile:     p.Profile,
		Projects:    p.Projects,
		Experiences: p.Experiences,
	}
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

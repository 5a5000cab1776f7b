package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/MoSamy004/Portfolio/pkg/apperror"
	"github.com/MoSamy004/Portfolio/pkg/auth"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

var (
	ErrInvalidCredentials = errors.New("username or password is incorrect")
)

// AdminCredentials is the single credential pair allowed to edit content.
type AdminCredentials struct {
	Username     string
	PasswordHash string
}

// NewAdminCredentials prefers a configured bcrypt hash and otherwise hashes
// the plaintext password once.
func NewAdminCredentials(username, password, passwordHash string) (AdminCredentials, error) {
	if username == "" {
		return AdminCredentials{}, fmt.Errorf("admin username is not configured")
	}
	if passwordHash != "" {
		return AdminCredentials{Username: username, PasswordHash: passwordHash}, nil
	}
	if password == "" {
		return AdminCredentials{}, fmt.Errorf("admin password is not configured")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return AdminCredentials{}, fmt.Errorf("hash admin password: %w", err)
	}
	return AdminCredentials{Username: username, PasswordHash: hash}, nil
}

type LoginUseCase struct {
	admin  AdminCredentials
	jwtSvc *auth.JWTService
	logger logger.Logger
}

func NewLoginUseCase(admin AdminCredentials, jwtSvc *auth.JWTService, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		admin:  admin,
		jwtSvc: jwtSvc,
		logger: log,
	}
}

type LoginInput struct {
	Username string
	Password string
}

type LoginOutput struct {
	AccessToken string
}

var tracer = otel.Tracer("auth_usecase")

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	_, span := tracer.Start(ctx, "Execute")
	defer span.End()

	usernameOK := subtle.ConstantTimeCompare([]byte(input.Username), []byte(uc.admin.Username)) == 1
	passwordOK := auth.CheckPasswordHash(input.Password, uc.admin.PasswordHash)
	if !usernameOK || !passwordOK {
		err := apperror.NewUnauthorized("incorrect username or password", ErrInvalidCredentials)
		span.RecordError(err)
		uc.logger.Warn("Rejected admin login", zap.String("username", input.Username))
		return nil, err
	}

	token, err := uc.jwtSvc.GenerateToken(uc.admin.Username)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("username", uc.admin.Username))
		err = apperror.NewInternal("failed to generate token", err)
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("username", uc.admin.Username))
	return &LoginOutput{AccessToken: token}, nil
}

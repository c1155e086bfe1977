package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tienda-api/pkg/apperror"
	"github.com/sangkips/tienda-api/pkg/utils"
)

// OperatorRole is granted to the back office operator
const OperatorRole = "admin"

// AuthService authenticates the back office operator configured at startup
type AuthService struct {
	email        string
	passwordHash string
	jwtManager   *utils.JWTManager
	now          func() time.Time
}

// NewAuthService creates a new auth service. password may be plain text or a
// bcrypt hash. An empty password disables login.
func NewAuthService(email, password string, jwtManager *utils.JWTManager) (*AuthService, error) {
	hash := password
	if password != "" && !utils.IsBcryptHash(password) {
		var err error
		if hash, err = utils.HashPassword(password); err != nil {
			return nil, err
		}
	}
	return &AuthService{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: hash,
		jwtManager:   jwtManager,
		now:          time.Now,
	}, nil
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// Operator identifies the authenticated operator
type Operator struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Roles []string  `json:"roles"`
}

// LoginOutput represents the login output
type LoginOutput struct {
	Operator    Operator  `json:"operator"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Login checks the credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	if s.passwordHash == "" {
		return nil, apperror.ErrInvalidCredentials
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email != s.email || !utils.CheckPasswordHash(input.Password, s.passwordHash) {
		return nil, apperror.ErrInvalidCredentials
	}

	operator := Operator{
		ID:    utils.OperatorID(email),
		Email: email,
		Roles: []string{OperatorRole},
	}
	token, err := s.jwtManager.GenerateAccessToken(operator.ID, operator.Email, operator.Roles)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		Operator:    operator,
		AccessToken: token,
		ExpiresAt:   s.now().Add(s.jwtManager.Expiry()),
	}, nil
}

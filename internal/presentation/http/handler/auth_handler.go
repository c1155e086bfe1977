package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tienda-api/internal/application/service"
	"github.com/sangkips/tienda-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tienda-api/internal/presentation/http/dto/response"
	"github.com/sangkips/tienda-api/internal/presentation/http/middleware"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles operator login
// @Summary Login
// @Description Authenticate the back office operator and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", gin.H{
		"operator":     output.Operator,
		"access_token": output.AccessToken,
		"token_type":   "Bearer",
		"expires_at":   output.ExpiresAt,
	})
}

// Profile returns the authenticated operator
func (h *AuthHandler) Profile(c *gin.Context) {
	response.OK(c, "Profile retrieved successfully", gin.H{
		"id":    middleware.OperatorID(c),
		"email": c.GetString(middleware.OperatorEmailKey),
		"roles": c.GetStringSlice(middleware.OperatorRolesKey),
	})
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arunhegde/campusdesk/internal/app/models"
	"github.com/arunhegde/campusdesk/internal/app/models/dto"
	"github.com/arunhegde/campusdesk/internal/app/services"
	"github.com/arunhegde/campusdesk/internal/middleware"
)

// AuthController handles registration and login
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Creates a user with a unique USN/EMP handle
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User information"
// @Success 201 {object} dto.APIResponse "User created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Handle already registered"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	user, err := c.authService.Register(ctx, req.USN, req.Name, req.Password, models.Role(req.Role))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(user))
}

// Login handles user login
// @Summary Log in
// @Description Authenticates by USN/EMP handle and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Authenticated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid USN or password"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	result, err := c.authService.Login(ctx, req.USN, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.LoginResponse{
		User:      result.User,
		Token:     result.Token,
		ExpiresIn: result.ExpiresIn,
	}))
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arunhegde/campusdesk/internal/app/models/dto"
	"github.com/arunhegde/campusdesk/internal/app/services"
	"github.com/arunhegde/campusdesk/internal/middleware"
)

// UserController handles user directory endpoints
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// List returns all registered users without password hashes
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Users retrieved"
// @Router /users [get]
func (c *UserController) List(ctx *gin.Context) {
	users, err := c.userService.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(users))
}

// Get returns a single user by USN or employee handle
// @Summary Get user by handle
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param usn path string true "USN or employee handle"
// @Success 200 {object} dto.APIResponse "User retrieved"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{usn} [get]
func (c *UserController) Get(ctx *gin.Context) {
	user, err := c.userService.GetByHandle(ctx, ctx.Param("usn"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(user))
}

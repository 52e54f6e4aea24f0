package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arunhegde/campusdesk/internal/app/models"
	"github.com/arunhegde/campusdesk/internal/app/models/dto"
	"github.com/arunhegde/campusdesk/internal/app/services"
	"github.com/arunhegde/campusdesk/internal/middleware"
)

// RequestController handles lab/room resource requests
type RequestController struct {
	requestService *services.RequestService
}

// NewRequestController creates a new RequestController
func NewRequestController(requestService *services.RequestService) *RequestController {
	return &RequestController{
		requestService: requestService,
	}
}

// Create opens a resource request
// @Summary Submit a resource request
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateResourceRequest true "Request information"
// @Success 201 {object} dto.APIResponse "Request created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /requests [post]
func (c *RequestController) Create(ctx *gin.Context) {
	var req dto.CreateResourceRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	request, err := c.requestService.Create(ctx, req.Requester, req.Type)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(request))
}

// Transition approves or declines a resource request
// @Summary Approve or decline a resource request
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body dto.TransitionRequest true "New status"
// @Success 200 {object} dto.APIResponse "Request updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /requests/{id} [patch]
func (c *RequestController) Transition(ctx *gin.Context) {
	id := ctx.Param("id")

	var req dto.TransitionRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	actor := req.Actor
	if actor == "" {
		actor = middleware.ActorFromContext(ctx)
	}

	request, err := c.requestService.Transition(ctx, id, models.RequestStatus(req.Status), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(request))
}

// List returns resource requests matching optional filters
// @Summary List resource requests
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param requester query string false "Filter by requester"
// @Param status query string false "Filter by status"
// @Success 200 {object} dto.APIResponse "Requests retrieved"
// @Router /requests [get]
func (c *RequestController) List(ctx *gin.Context) {
	requests, err := c.requestService.List(ctx, services.RequestFilter{
		Requester: ctx.Query("requester"),
		Status:    ctx.Query("status"),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(requests))
}

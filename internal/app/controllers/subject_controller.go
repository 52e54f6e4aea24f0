package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arunhegde/campusdesk/internal/app/models/dto"
	"github.com/arunhegde/campusdesk/internal/app/services"
	"github.com/arunhegde/campusdesk/internal/middleware"
)

// SubjectController handles the subject catalogue
type SubjectController struct {
	subjectService *services.SubjectService
}

// NewSubjectController creates a new SubjectController
func NewSubjectController(subjectService *services.SubjectService) *SubjectController {
	return &SubjectController{
		subjectService: subjectService,
	}
}

// Create adds a subject
// @Summary Create a subject
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSubjectRequest true "Subject information"
// @Success 201 {object} dto.APIResponse "Subject created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /subjects [post]
func (c *SubjectController) Create(ctx *gin.Context) {
	var req dto.CreateSubjectRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	subject, err := c.subjectService.Create(ctx, req.Name, req.TeacherUSN)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(subject))
}

// Update replaces a subject
// @Summary Update a subject
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subject ID"
// @Param request body dto.UpdateSubjectRequest true "Updated subject information"
// @Success 200 {object} dto.APIResponse "Subject updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /subjects/{id} [put]
func (c *SubjectController) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	var req dto.UpdateSubjectRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	subject, err := c.subjectService.Update(ctx, id, req.Name, req.TeacherUSN)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(subject))
}

// Delete removes a subject
// @Summary Delete a subject
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subject ID"
// @Success 204 "Subject deleted"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /subjects/{id} [delete]
func (c *SubjectController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	actor := ctx.Query("actor")
	if actor == "" {
		actor = middleware.ActorFromContext(ctx)
	}

	if err := c.subjectService.Delete(ctx, id, actor); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// List returns subjects, optionally filtered by teacher
// @Summary List subjects
// @Tags subjects
// @Produce json
// @Param teacher_usn query string false "Filter by owning teacher"
// @Success 200 {object} dto.APIResponse "Subjects retrieved"
// @Router /subjects [get]
func (c *SubjectController) List(ctx *gin.Context) {
	subjects, err := c.subjectService.List(ctx, ctx.Query("teacher_usn"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(subjects))
}

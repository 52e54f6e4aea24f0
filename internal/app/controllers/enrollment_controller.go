package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arunhegde/campusdesk/internal/app/models"
	"github.com/arunhegde/campusdesk/internal/app/models/dto"
	"github.com/arunhegde/campusdesk/internal/app/services"
	"github.com/arunhegde/campusdesk/internal/middleware"
)

// EnrollmentController handles enrollment workflow operations
type EnrollmentController struct {
	enrollmentService *services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService *services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

// Create opens an enrollment request
// @Summary Request enrollment
// @Description Creates a Pending enrollment request for a student into a subject
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEnrollmentRequest true "Enrollment information"
// @Success 201 {object} dto.APIResponse "Enrollment created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Student or teacher not found"
// @Failure 409 {object} dto.ErrorResponse "Active enrollment already exists"
// @Router /enrollments [post]
func (c *EnrollmentController) Create(ctx *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	enrollment, err := c.enrollmentService.Create(ctx, req.StudentUSN, req.TeacherUSN, req.SubjectRef)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(enrollment))
}

// Transition approves or declines an enrollment
// @Summary Approve or decline an enrollment
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Param request body dto.TransitionRequest true "New status"
// @Success 200 {object} dto.APIResponse "Enrollment updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id} [patch]
func (c *EnrollmentController) Transition(ctx *gin.Context) {
	id := ctx.Param("id")

	var req dto.TransitionRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	actor := req.Actor
	if actor == "" {
		actor = middleware.ActorFromContext(ctx)
	}

	enrollment, err := c.enrollmentService.Transition(ctx, id, models.RequestStatus(req.Status), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(enrollment))
}

// List returns enrollments matching optional filters
// @Summary List enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param student_usn query string false "Filter by student"
// @Param teacher_usn query string false "Filter by teacher"
// @Param status query string false "Filter by status"
// @Success 200 {object} dto.APIResponse "Enrollments retrieved"
// @Router /enrollments [get]
func (c *EnrollmentController) List(ctx *gin.Context) {
	enrollments, err := c.enrollmentService.List(ctx, services.EnrollmentFilter{
		StudentUSN: ctx.Query("student_usn"),
		TeacherUSN: ctx.Query("teacher_usn"),
		Status:     ctx.Query("status"),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(enrollments))
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arunhegde/campusdesk/internal/app/models/dto"
	"github.com/arunhegde/campusdesk/internal/app/services"
	"github.com/arunhegde/campusdesk/internal/middleware"
)

// AttendanceController handles attendance marking and retrieval
type AttendanceController struct {
	attendanceService *services.AttendanceService
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService *services.AttendanceService) *AttendanceController {
	return &AttendanceController{
		attendanceService: attendanceService,
	}
}

// Record marks a student present or absent for a subject on a date
// @Summary Record attendance
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RecordAttendanceRequest true "Attendance entry"
// @Success 201 {object} dto.APIResponse "Attendance recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /attendance [post]
func (c *AttendanceController) Record(ctx *gin.Context) {
	var req dto.RecordAttendanceRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	entry, err := c.attendanceService.Record(ctx, req.SubjectID, req.StudentUSN, req.Date, req.Present)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(entry))
}

// List returns attendance entries for a subject
// @Summary List attendance for a subject
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param subject_id query string true "Subject ID"
// @Success 200 {object} dto.APIResponse "Attendance retrieved"
// @Failure 400 {object} dto.ErrorResponse "Missing subject_id"
// @Router /attendance [get]
func (c *AttendanceController) List(ctx *gin.Context) {
	entries, err := c.attendanceService.List(ctx, ctx.Query("subject_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(entries))
}

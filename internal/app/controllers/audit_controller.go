package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arunhegde/campusdesk/internal/app/models/dto"
	"github.com/arunhegde/campusdesk/internal/audit"
	"github.com/arunhegde/campusdesk/internal/middleware"
)

// AuditController exposes the audit trail
type AuditController struct {
	trail *audit.Trail
}

// NewAuditController creates a new AuditController
func NewAuditController(trail *audit.Trail) *AuditController {
	return &AuditController{
		trail: trail,
	}
}

// List returns audit entries, newest first
// @Summary List audit entries
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Audit entries retrieved"
// @Router /audit [get]
func (c *AuditController) List(ctx *gin.Context) {
	entries, err := c.trail.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(entries))
}

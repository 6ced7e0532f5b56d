package export

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// Handler wires the export endpoint to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches export routes to the authenticated router group.
// rateLimit may be nil.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, rateLimit gin.HandlerFunc) {
	handlers := []gin.HandlerFunc{}
	if rateLimit != nil {
		handlers = append(handlers, rateLimit)
	}
	handlers = append(handlers, h.export)
	rg.POST("/resumes/:id/export", handlers...)
}

func (h *Handler) export(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	result, err := h.Svc.Export(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, resumes.ErrUnauthenticated):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
		case errors.Is(err, resumes.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		case errors.Is(err, ErrElementMissing):
			respond.Error(c, http.StatusUnprocessableEntity, "empty_resume", "resume has no content to export", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to export resume", err.Error())
		}
		return
	}

	if result.PageCount > 0 {
		c.Header("X-Page-Count", strconv.Itoa(result.PageCount))
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, "application/pdf", result.Data)
}

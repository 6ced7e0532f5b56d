package resumes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/users"
)

var validate = validator.New()

// RenderFunc turns an aggregate into HTML using the given template choice.
type RenderFunc func(agg Aggregate, templateID int) (string, error)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc    *Service
	Render RenderFunc
}

// NewHandler constructs a Handler. render may be nil if no public view is served.
func NewHandler(svc *Service, render RenderFunc) *Handler {
	return &Handler{Svc: svc, Render: render}
}

// RegisterRoutes attaches resume routes to the authenticated router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.save)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.DELETE("/resumes/:id", h.remove)
	rg.POST("/resumes/:id/duplicate", h.duplicate)
	rg.POST("/resumes/:id/publish", h.publish)
	rg.POST("/resumes/:id/unpublish", h.unpublish)
}

// RegisterPublicRoutes attaches the ungated share view to the engine root.
func (h *Handler) RegisterPublicRoutes(r *gin.Engine) {
	r.GET("/resume/:id", h.publicView)
}

func ownerFromContext(c *gin.Context) users.User {
	return users.User{
		ID:         middleware.UserIDFromContext(c),
		Email:      middleware.UserEmailFromContext(c),
		FullName:   middleware.UserNameFromContext(c),
		PictureURL: middleware.UserPictureFromContext(c),
	}
}

type saveRequest struct {
	ResumeID string     `json:"resumeId"`
	Resume   *Aggregate `json:"resume" binding:"required"`
}

func (h *Handler) save(c *gin.Context) {
	owner := ownerFromContext(c)

	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if err := validate.Struct(req.Resume); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	resumeID, err := h.Svc.Save(c.Request.Context(), owner, *req.Resume, req.ResumeID)
	if err != nil {
		h.writeError(c, err, "failed to save resume")
		return
	}
	c.Set("resumeId", resumeID)

	respond.JSON(c, http.StatusOK, gin.H{
		"resumeId":  resumeID,
		"lastSaved": time.Now().UTC(),
	})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Set("resumeId", c.Param("id"))

	res, agg, err := h.Svc.LoadForUser(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to load resume")
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"resume": toResponse(res),
		"data":   agg,
	})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	items, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err, "failed to list resumes")
		return
	}

	resp := make([]gin.H, 0, len(items))
	for _, res := range items {
		resp = append(resp, toResponse(res))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.writeError(c, err, "failed to delete resume")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) duplicate(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	dup, err := h.Svc.Duplicate(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to duplicate resume")
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(dup))
}

func (h *Handler) publish(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	res, err := h.Svc.Publish(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to publish resume")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(res))
}

func (h *Handler) unpublish(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	res, err := h.Svc.Unpublish(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to unpublish resume")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(res))
}

func (h *Handler) publicView(c *gin.Context) {
	_, agg, err := h.Svc.LoadPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to load resume")
		return
	}
	if h.Render == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "rendering not configured", nil)
		return
	}

	html, err := h.Render(agg, agg.TemplateID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render resume", nil)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, err.Error())
	}
}

func toResponse(res Resume) gin.H {
	return gin.H{
		"resumeId":   res.ID,
		"title":      res.Title,
		"templateId": res.TemplateID,
		"isPublic":   res.IsPublic,
		"publicUrl":  res.PublicURL,
		"createdAt":  res.CreatedAt,
		"updatedAt":  res.UpdatedAt,
		"lastEdited": res.LastEdited,
	}
}

package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

func (h *Handler) me(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Guests and first-time signins have no stored row yet; answer
			// from the verified context identity.
			response := gin.H{"userId": userID}
			if email := middleware.UserEmailFromContext(c); email != "" {
				response["email"] = email
			}
			if name := middleware.UserNameFromContext(c); name != "" {
				response["fullName"] = name
			}
			if picture := middleware.UserPictureFromContext(c); picture != "" {
				response["pictureUrl"] = picture
			}
			respond.JSON(c, http.StatusOK, response)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"userId":     user.ID,
		"email":      user.Email,
		"fullName":   user.FullName,
		"pictureUrl": user.PictureURL,
	})
}

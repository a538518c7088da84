package http

import (
	"errors"
	"net/http"

	"github.com/Daniel-Kats256/simulations/internal/auth"
	"github.com/Daniel-Kats256/simulations/internal/simulations/domain"
	"github.com/Daniel-Kats256/simulations/internal/simulations/service"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	simService *service.Service
}

func NewHandler(simService *service.Service) *Handler {
	return &Handler{simService: simService}
}

type launchReq struct {
	Name   string                 `json:"name"`
	Type   string                 `json:"type"`
	Config map[string]interface{} `json:"config"`
}

func (h *Handler) Launch(c *gin.Context) {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req launchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name and type are required"})
		return
	}

	resp, err := h.simService.Launch(c.Request.Context(), principal, domain.LaunchRequest{
		Name:   req.Name,
		Type:   req.Type,
		Config: req.Config,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden: insufficient rights"})
		case errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": "name and type are required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to launch simulation"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Simulation launched successfully",
		"simulation": resp,
	})
}

func (h *Handler) List(c *gin.Context) {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	recs, err := h.simService.List(c.Request.Context(), principal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching simulations"})
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *Handler) Get(c *gin.Context) {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	rec, err := h.simService.Get(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Simulation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching simulation"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) Status(c *gin.Context) {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	view, err := h.simService.Status(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Simulation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching simulation status"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) Delete(c *gin.Context) {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	err := h.simService.Delete(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden: insufficient rights"})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Simulation not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting simulation"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Simulation deleted"})
}

package http

import "github.com/gin-gonic/gin"

// Register attaches the simulation routes. launchGuards run in front of
// the launch handler only (role check and rate limiting).
func (h *Handler) Register(rg *gin.RouterGroup, launchGuards ...gin.HandlerFunc) {
	rg.POST("", append(launchGuards, h.Launch)...)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/status", h.Status)
	rg.DELETE("/:id", h.Delete)
}

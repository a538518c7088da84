package reports

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Daniel-Kats256/simulations/internal/auth"
	"github.com/Daniel-Kats256/simulations/internal/simulations/service"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	simService *service.Service
}

func NewHandler(simService *service.Service) *Handler {
	return &Handler{simService: simService}
}

// Register attaches the export routes. The route shapes and content
// types match the frontend's existing download links.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/download/pdf", h.downloadPDF)
	rg.GET("/download/xlsx", h.downloadXLSX)
}

func (h *Handler) downloadPDF(c *gin.Context) {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	recs, err := h.simService.List(c.Request.Context(), principal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate PDF report"})
		return
	}

	now := time.Now()
	body := Text(recs, now)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", Filename(now, "pdf")))
	c.Data(http.StatusOK, "application/pdf", body)
}

func (h *Handler) downloadXLSX(c *gin.Context) {
	principal, ok := auth.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	recs, err := h.simService.List(c.Request.Context(), principal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate Excel report"})
		return
	}

	body := CSV(recs)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", Filename(time.Now(), "xlsx")))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", body)
}

package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cleanmarket/internal/pkg/logger"
	"cleanmarket/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public reference-data endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/services", h.ListServices)
	rg.GET("/area-sizes", h.ListAreaSizes)
	rg.GET("/time-slots", h.ListTimeSlots)
}

func (h *Handler) ListServices(c *gin.Context) {
	items, err := h.svc.GetActiveServices(c.Request.Context())
	if err != nil {
		logger.L().Error("catalog handler", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) ListAreaSizes(c *gin.Context) {
	items, err := h.svc.GetActiveAreaSizes(c.Request.Context())
	if err != nil {
		logger.L().Error("catalog handler", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) ListTimeSlots(c *gin.Context) {
	items, err := h.svc.GetActiveTimeSlots(c.Request.Context())
	if err != nil {
		logger.L().Error("catalog handler", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
		return
	}
	response.Success(c, http.StatusOK, items)
}

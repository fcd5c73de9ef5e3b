package admin

import (
	"errors"
	"net/http"
	"strconv"

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

// RegisterRoutes mounts the admin endpoints. The group must already
// enforce the admin role.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/dashboard", h.Dashboard)
	rg.GET("/admin/bookings", h.ListBookings)
	rg.PUT("/admin/bookings/:id/status", h.ForceStatus)
}

func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.svc.GetDashboard(c.Request.Context())
	if err != nil {
		logger.L().Error("admin handler", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) ListBookings(c *gin.Context) {
	rows, err := h.svc.ListBookings(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

type forceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) ForceStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking ID")
		return
	}

	var req forceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	d, err := h.svc.ForceStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		logger.L().Error("admin handler", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

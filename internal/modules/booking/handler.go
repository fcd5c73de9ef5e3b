package booking

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
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterCustomerRoutes mounts the customer-facing booking endpoints.
// The group must already enforce the customer role.
func (h *Handler) RegisterCustomerRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings", h.ListMyBookings)
	rg.GET("/bookings/dashboard-stats", h.DashboardStats)
	rg.GET("/bookings/:id", h.GetMyBooking)
	rg.PUT("/bookings/:id/cancel", h.CancelBooking)
}

// RegisterCleanerRoutes mounts the cleaner-facing job endpoints.
func (h *Handler) RegisterCleanerRoutes(rg *gin.RouterGroup) {
	rg.GET("/cleaner/available-jobs", h.AvailableJobs)
	rg.GET("/cleaner/my-jobs", h.MyJobs)
	rg.GET("/cleaner/dashboard-stats", h.CleanerDashboardStats)
	rg.POST("/cleaner/accept-job/:id", h.AcceptJob)
	rg.PUT("/cleaner/update-job-status/:id", h.UpdateJobStatus)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	d, err := h.service.CreateBooking(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, d)
}

func (h *Handler) ListMyBookings(c *gin.Context) {
	rows, err := h.service.ListMyBookings(c.Request.Context(), c.GetInt64("user_id"), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func (h *Handler) GetMyBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	d, err := h.service.GetMyBooking(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) DashboardStats(c *gin.Context) {
	stats, err := h.service.CustomerDashboard(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.CustomerCancel(c.Request.Context(), id, c.GetInt64("user_id")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cancelled": true})
}

func (h *Handler) AvailableJobs(c *gin.Context) {
	rows, err := h.service.AvailableJobs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func (h *Handler) MyJobs(c *gin.Context) {
	rows, err := h.service.MyJobs(c.Request.Context(), c.GetInt64("user_id"), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func (h *Handler) CleanerDashboardStats(c *gin.Context) {
	stats, err := h.service.CleanerDashboard(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) AcceptJob(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	d, err := h.service.ClaimBooking(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) UpdateJobStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateJobStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	d, err := h.service.AdvanceStatus(c.Request.Context(), id, c.GetInt64("user_id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking ID")
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrServiceNotFound),
		errors.Is(err, ErrAreaSizeNotFound),
		errors.Is(err, ErrTimeSlotNotFound),
		errors.Is(err, ErrCustomerNotFound),
		errors.Is(err, ErrCleanerNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrAlreadyAssigned),
		errors.Is(err, ErrNotAssignable),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrCancelNotAllowed):
		response.Error(c, http.StatusBadRequest, "STATE_CONFLICT", err.Error())
	case errors.Is(err, ErrNotJobOwner):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	default:
		logger.L().Error("booking handler", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

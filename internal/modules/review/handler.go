package review

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

// RegisterRoutes mounts the review endpoints. The group must already
// enforce authentication.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/review", h.Create)
	rg.GET("/review/check/:bookingId", h.Check)
	rg.GET("/review/booking/:bookingId", h.GetByBooking)
	rg.PUT("/review/:bookingId", h.Update)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	rv, err := h.svc.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rv)
}

func (h *Handler) Check(c *gin.Context) {
	bookingID, ok := bookingPathID(c)
	if !ok {
		return
	}

	reviewed, err := h.svc.HasReviewed(c.Request.Context(), bookingID, c.GetInt64("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reviewed": reviewed})
}

func (h *Handler) GetByBooking(c *gin.Context) {
	bookingID, ok := bookingPathID(c)
	if !ok {
		return
	}

	rv, err := h.svc.GetByBooking(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rv)
}

func (h *Handler) Update(c *gin.Context) {
	bookingID, ok := bookingPathID(c)
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	rv, err := h.svc.Update(c.Request.Context(), bookingID, c.GetInt64("user_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rv)
}

func bookingPathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
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
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrNotCompleted),
		errors.Is(err, ErrNoCleaner),
		errors.Is(err, ErrAlreadyReviewed):
		response.Error(c, http.StatusBadRequest, "STATE_CONFLICT", err.Error())
	default:
		logger.L().Error("review handler", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"go-event-booking/internal/model"
	"go-event-booking/internal/service"
	apperrors "go-event-booking/pkg/app_errors"
	"go-event-booking/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service service.BookingService
}

func NewBookingHandler(service service.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("bookings", h.CreateBooking)
		router.GET("bookings/:id", h.GetBooking)
		router.POST("bookings/:id/cancel", h.CancelBooking)
		router.GET("users/:id/bookings", h.GetUserBookings)
	}
}

// CreateBooking 配位請求。201 代表確認訂位，202 代表已加入候補 —
// 兩者都是成功結果
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req model.AllocateRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid event id",
		})
		return
	}

	outcome, err := h.service.Allocate(c, eventID, req.UserID, req.Seats)
	if err != nil {
		h.handleBookingError(c, err, "CreateBooking")
		return
	}

	if outcome.Confirmed() {
		c.JSON(http.StatusCreated, gin.H{
			"status":  "confirmed",
			"booking": outcome.Booking,
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":         "waitlisted",
		"waitlist_entry": outcome.WaitlistEntry,
	})
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	id := c.Param("id")
	idInt, err := strconv.Atoi(id)
	if err != nil {
		h.handleBookingError(c, apperrors.ErrBookingNotFound, "GetBooking")
		return
	}
	booking, err := h.service.GetBookingByID(c, idInt)
	if err != nil {
		h.handleBookingError(c, err, "GetBooking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id := c.Param("id")
	idInt, err := strconv.Atoi(id)
	if err != nil {
		h.handleBookingError(c, apperrors.ErrBookingNotFound, "CancelBooking")
		return
	}

	var req model.CancelBookingRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	booking, err := h.service.CancelBooking(c, idInt, req.UserID)
	if err != nil {
		h.handleBookingError(c, err, "CancelBooking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) GetUserBookings(c *gin.Context) {
	id := c.Param("id")
	idInt, err := strconv.Atoi(id)
	if err != nil {
		h.handleBookingError(c, apperrors.ErrUserNotFound, "GetUserBookings")
		return
	}
	bookings, err := h.service.ListUserBookings(c, idInt)
	if err != nil {
		h.handleBookingError(c, err, "GetUserBookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// Helper functions

func (h *BookingHandler) handleBookingError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Event not found",
		})
	case errors.Is(err, apperrors.ErrBookingNotFound):
		log.Warn("Booking not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking not found",
		})
	case errors.Is(err, apperrors.ErrUserNotFound):
		log.Warn("User not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": "User not found",
		})
	case errors.Is(err, apperrors.ErrEventCancelled):
		log.Warn("Event is cancelled")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Event is cancelled",
		})
	case errors.Is(err, apperrors.ErrBookingAlreadyCancelled):
		log.Warn("Booking already cancelled")
		c.JSON(http.StatusConflict, gin.H{
			"error": "Booking already cancelled",
		})
	case errors.Is(err, apperrors.ErrNotBookingOwner):
		log.Warn("Not booking owner")
		c.JSON(http.StatusForbidden, gin.H{
			"error": "You do not have permission to cancel this booking",
		})
	case errors.Is(err, apperrors.ErrLockTimeout):
		log.Warn("Event lock timeout")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Event is busy, please retry",
		})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid input",
		})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

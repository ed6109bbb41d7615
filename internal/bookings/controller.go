package bookings

import (
	"errors"
	"net/http"

	"traveltix/internal/activities"
	"traveltix/internal/shared/middleware"
	"traveltix/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	requester, ok := requesterFrom(ctx)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request format", err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), requester, req)
	if err != nil {
		respondBookingError(ctx, "Failed to create booking", err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Booking created successfully", booking)
}

// ConfirmPayment handles POST /api/v1/bookings/:id/confirm
func (c *Controller) ConfirmPayment(ctx *gin.Context) {
	requester, ok := requesterFrom(ctx)
	if !ok {
		return
	}

	var req ConfirmPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request format", err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	booking, err := c.service.ConfirmPayment(ctx.Request.Context(), requester, ctx.Param("id"), req)
	if err != nil {
		respondBookingError(ctx, "Failed to confirm booking", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Payment confirmed, booking is now CONFIRMED", booking)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	requester, ok := requesterFrom(ctx)
	if !ok {
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), requester, ctx.Param("id"))
	if err != nil {
		respondBookingError(ctx, "Failed to get booking", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Booking retrieved successfully", booking)
}

// GetUserBookings handles GET /api/v1/users/bookings
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	requester, ok := requesterFrom(ctx)
	if !ok {
		return
	}

	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	if query.Status != "" {
		status, err := ParseStatus(string(query.Status))
		if err != nil {
			response.Error(ctx, http.StatusBadRequest, "Invalid status filter", err.Error())
			return
		}
		query.Status = status
	}

	result, err := c.service.GetUserBookings(ctx.Request.Context(), requester, query)
	if err != nil {
		respondBookingError(ctx, "Failed to get user bookings", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Bookings retrieved successfully", result)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	requester, ok := requesterFrom(ctx)
	if !ok {
		return
	}

	booking, err := c.service.CancelBooking(ctx.Request.Context(), requester, ctx.Param("id"))
	if err != nil {
		respondBookingError(ctx, "Failed to cancel booking", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Booking cancelled successfully", booking)
}

func requesterFrom(ctx *gin.Context) (Requester, bool) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return Requester{}, false
	}
	return Requester{Email: identity.Email, IsAdmin: identity.IsAdmin()}, true
}

func respondBookingError(ctx *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, activities.ErrActivityNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrBookingForbidden):
		status = http.StatusForbidden
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrStatusConflict):
		status = http.StatusConflict
	}
	response.Error(ctx, status, message, err.Error())
}

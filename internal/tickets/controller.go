package tickets

import (
	"errors"
	"net/http"

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

// VerifyQR handles POST /bookings/verify-qr and /owner/bookings/verify-qr
func (c *Controller) VerifyQR(mode Mode) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		caller, ok := callerFrom(ctx, mode)
		if !ok {
			return
		}

		var req VerifyQRRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, VerifyQRResponse{
				Message: "Invalid request format",
				Outcome: OutcomeInvalid,
				Reason:  ReasonMalformedPayload,
			})
			return
		}
		if err := c.validator.Struct(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, VerifyQRResponse{
				Message: "Validation failed: " + err.Error(),
				Outcome: OutcomeInvalid,
				Reason:  ReasonMalformedPayload,
			})
			return
		}

		result := c.service.Verify(ctx.Request.Context(), VerifyRequest{
			Raw:               req.QRCodeData,
			ExpectedBookingID: req.ExpectedBookingID,
			Caller:            caller,
		})
		ctx.JSON(verifyStatusCode(result), newVerifyQRResponse(result))
	}
}

// Redeem handles POST /bookings/:id/complete and /owner/bookings/:id/complete
func (c *Controller) Redeem(mode Mode) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		caller, ok := callerFrom(ctx, mode)
		if !ok {
			return
		}

		result := c.service.Redeem(ctx.Request.Context(), RedeemRequest{
			TicketID: ctx.Param("id"),
			Caller:   caller,
		})
		ctx.JSON(redeemStatusCode(result), newRedeemResponse(result))
	}
}

// IssueTicket handles GET /bookings/:id/ticket
func (c *Controller) IssueTicket(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	issued, err := c.service.IssueTicket(ctx.Request.Context(), ctx.Param("id"), Caller{Identity: identity.Email})
	if err != nil {
		response.Error(ctx, issueStatusCode(err), "Failed to issue ticket", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Ticket issued successfully", TicketResponse{
		Ticket:     issued.Ticket,
		QRCodeData: issued.Payload,
	})
}

func callerFrom(ctx *gin.Context, mode Mode) (Caller, bool) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return Caller{}, false
	}
	return Caller{Identity: identity.Email, Mode: mode}, true
}

func verifyStatusCode(result VerificationResult) int {
	switch result.Outcome {
	case OutcomeValid:
		return http.StatusOK
	case OutcomeForbidden:
		return http.StatusForbidden
	case OutcomeNetworkError:
		return http.StatusServiceUnavailable
	}
	if result.Reason == ReasonUnknownTicket {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func redeemStatusCode(result RedemptionResult) int {
	switch result.Outcome {
	case RedeemOutcomeRedeemed, RedeemOutcomeAlreadyRedeemed:
		return http.StatusOK
	case RedeemOutcomeUnknownTicket:
		return http.StatusNotFound
	case RedeemOutcomeForbidden:
		return http.StatusForbidden
	case RedeemOutcomeNetworkError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusConflict
	}
}

func issueStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrUnknownTicket):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotRedeemable):
		return http.StatusConflict
	case errors.Is(err, ErrNetwork):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

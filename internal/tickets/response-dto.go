package tickets

import "traveltix/internal/bookings"

// VerifyQRResponse is the scan envelope returned to scanner clients
type VerifyQRResponse struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Outcome    Outcome         `json:"outcome"`
	Reason     Reason          `json:"reason,omitempty"`
	Data       *VerifiedTicket `json:"data,omitempty"`
	RawPayload string          `json:"rawPayload,omitempty"`
}

type VerifiedTicket struct {
	Booking         *bookings.Booking `json:"booking"`
	AlreadyRedeemed bool              `json:"alreadyRedeemed"`
	Redeemable      bool              `json:"redeemable"`
}

// RedeemResponse reports success for both a first redemption and a retry
type RedeemResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Outcome RedeemOutcome     `json:"outcome"`
	Data    *bookings.Booking `json:"data,omitempty"`
}

// TicketResponse carries the payload to render as a QR image
type TicketResponse struct {
	Ticket     Ticket `json:"ticket"`
	QRCodeData string `json:"qrCodeData"`
}

func newVerifyQRResponse(result VerificationResult) VerifyQRResponse {
	resp := VerifyQRResponse{
		Success:    result.IsValid(),
		Message:    result.Message,
		Outcome:    result.Outcome,
		Reason:     result.Reason,
		RawPayload: result.RawPayload,
	}
	if result.Booking != nil {
		resp.Data = &VerifiedTicket{
			Booking:         result.Booking,
			AlreadyRedeemed: result.AlreadyRedeemed,
			Redeemable:      result.Redeemable,
		}
	}
	return resp
}

func newRedeemResponse(result RedemptionResult) RedeemResponse {
	return RedeemResponse{
		Success: result.Success(),
		Message: result.Message,
		Outcome: result.Outcome,
		Data:    result.Booking,
	}
}

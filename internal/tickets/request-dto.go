package tickets

// VerifyQRRequest is the body of a scan. Caller identity comes from the
// access token, never from the body.
type VerifyQRRequest struct {
	QRCodeData        string `json:"qrCodeData" validate:"max=4096"`
	ExpectedBookingID string `json:"expectedBookingId,omitempty" validate:"omitempty,max=64"`
}

package tickets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"traveltix/internal/bookings"
	"traveltix/internal/shared/middleware"
	"traveltix/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService returns canned results and records what the controller passed in
type fakeService struct {
	verifyResult VerificationResult
	redeemResult RedemptionResult
	issued       *IssuedTicket
	issueErr     error

	lastVerify VerifyRequest
	lastRedeem RedeemRequest
}

func (f *fakeService) IssueTicket(_ context.Context, _ string, _ Caller) (*IssuedTicket, error) {
	return f.issued, f.issueErr
}

func (f *fakeService) Verify(_ context.Context, req VerifyRequest) VerificationResult {
	f.lastVerify = req
	return f.verifyResult
}

func (f *fakeService) Redeem(_ context.Context, req RedeemRequest) RedemptionResult {
	f.lastRedeem = req
	return f.redeemResult
}

func setupControllerTest(svc Service, email string, role users.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if email != "" {
			c.Set(middleware.ContextUserEmail, email)
			c.Set(middleware.ContextUserRole, string(role))
		}
		c.Next()
	})

	controller := NewController(svc)
	r.POST("/verify-qr", controller.VerifyQR(ModeOwner))
	r.POST("/bookings/:id/complete", controller.Redeem(ModeOwner))
	r.GET("/bookings/:id/ticket", controller.IssueTicket)
	return r
}

func postJSON(r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestVerifyQRStatusCodes(t *testing.T) {
	booking := confirmedBooking()

	tests := []struct {
		name   string
		result VerificationResult
		code   int
	}{
		{"valid", VerificationResult{Outcome: OutcomeValid, Booking: booking, Redeemable: true}, http.StatusOK},
		{"invalid code", VerificationResult{Outcome: OutcomeInvalid, Reason: ReasonCodeMismatch, RawPayload: "{}"}, http.StatusBadRequest},
		{"unknown ticket", VerificationResult{Outcome: OutcomeInvalid, Reason: ReasonUnknownTicket}, http.StatusNotFound},
		{"forbidden", VerificationResult{Outcome: OutcomeForbidden}, http.StatusForbidden},
		{"network", VerificationResult{Outcome: OutcomeNetworkError}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{verifyResult: tt.result}
			r := setupControllerTest(svc, ownerEmail, users.RoleTravelActivityOwner)

			w := postJSON(r, "/verify-qr", VerifyQRRequest{QRCodeData: "{}", ExpectedBookingID: booking.ID})
			assert.Equal(t, tt.code, w.Code)

			var resp VerifyQRResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.result.Outcome, resp.Outcome)
			assert.Equal(t, tt.result.IsValid(), resp.Success)
			assert.Equal(t, tt.result.RawPayload, resp.RawPayload)

			assert.Equal(t, Caller{Identity: ownerEmail, Mode: ModeOwner}, svc.lastVerify.Caller)
			assert.Equal(t, booking.ID, svc.lastVerify.ExpectedBookingID)
		})
	}
}

func TestVerifyQRValidCarriesBooking(t *testing.T) {
	booking := confirmedBooking()
	svc := &fakeService{verifyResult: VerificationResult{Outcome: OutcomeValid, Message: "Ticket is valid", Booking: booking, Redeemable: true}}
	r := setupControllerTest(svc, ownerEmail, users.RoleTravelActivityOwner)

	w := postJSON(r, "/verify-qr", VerifyQRRequest{QRCodeData: `{"ticketId":"x"}`})
	require.Equal(t, http.StatusOK, w.Code)

	var resp VerifyQRResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data)
	assert.Equal(t, booking.ID, resp.Data.Booking.ID)
	assert.True(t, resp.Data.Redeemable)
	assert.Empty(t, resp.Reason)
}

func TestVerifyQRRejectsBadBody(t *testing.T) {
	svc := &fakeService{}
	r := setupControllerTest(svc, ownerEmail, users.RoleTravelActivityOwner)

	req := httptest.NewRequest(http.MethodPost, "/verify-qr", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/verify-qr", VerifyQRRequest{QRCodeData: string(bytes.Repeat([]byte("a"), 5000))})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.lastVerify.Raw)
}

func TestVerifyQRRequiresIdentity(t *testing.T) {
	r := setupControllerTest(&fakeService{}, "", "")
	w := postJSON(r, "/verify-qr", VerifyQRRequest{QRCodeData: "{}"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRedeemStatusCodes(t *testing.T) {
	tests := []struct {
		outcome RedeemOutcome
		code    int
		success bool
	}{
		{RedeemOutcomeRedeemed, http.StatusOK, true},
		{RedeemOutcomeAlreadyRedeemed, http.StatusOK, true},
		{RedeemOutcomeNotRedeemable, http.StatusConflict, false},
		{RedeemOutcomeUnknownTicket, http.StatusNotFound, false},
		{RedeemOutcomeForbidden, http.StatusForbidden, false},
		{RedeemOutcomeNetworkError, http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			svc := &fakeService{redeemResult: RedemptionResult{Outcome: tt.outcome}}
			r := setupControllerTest(svc, ownerEmail, users.RoleTravelActivityOwner)

			w := postJSON(r, "/bookings/TICK-1/complete", nil)
			assert.Equal(t, tt.code, w.Code)

			var resp RedeemResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.success, resp.Success)
			assert.Equal(t, "TICK-1", svc.lastRedeem.TicketID)
		})
	}
}

func TestIssueTicketStatusCodes(t *testing.T) {
	issued := &IssuedTicket{Ticket: Ticket{TicketID: "TICK-1", VerificationCode: "VER-TICK-1-1-abc"}, Payload: `{"ticketId":"TICK-1"}`}

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"ok", nil, http.StatusOK},
		{"unknown", fmt.Errorf("%w: TICK-1", ErrUnknownTicket), http.StatusNotFound},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"pending", fmt.Errorf("%w: booking is %s", ErrNotRedeemable, bookings.StatusPending), http.StatusConflict},
		{"outage", fmt.Errorf("%w: timeout", ErrNetwork), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{issued: issued, issueErr: tt.err}
			r := setupControllerTest(svc, travelerEmail, users.RoleUser)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings/TICK-1/ticket", nil))
			assert.Equal(t, tt.code, w.Code)
			if tt.err == nil {
				assert.Contains(t, w.Body.String(), `"qrCodeData"`)
			}
		})
	}
}

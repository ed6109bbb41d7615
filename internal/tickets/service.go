package tickets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"traveltix/internal/bookings"
	"traveltix/internal/notifications"
	"traveltix/pkg/logger"
	"traveltix/pkg/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("traveltix/internal/tickets")

// Mode selects the authorization rule of a scan
type Mode string

const (
	// ModeAdmin lets only administrators verify or redeem
	ModeAdmin Mode = "admin"
	// ModeOwner also admits the owner of the booked activity
	ModeOwner Mode = "owner"
)

// DefaultVerifyTimeout bounds the store and authorization round trips of one call
const DefaultVerifyTimeout = 5 * time.Second

// Caller is the authenticated operator behind a request
type Caller struct {
	Identity string
	Mode     Mode
}

type VerifyRequest struct {
	Raw               string
	ExpectedBookingID string
	Caller            Caller
}

// VerificationResult is the verdict of a scan. Verification never changes
// booking state.
type VerificationResult struct {
	Outcome         Outcome
	Reason          Reason
	Message         string
	Booking         *bookings.Booking
	AlreadyRedeemed bool
	Redeemable      bool
	RawPayload      string
}

func (r VerificationResult) IsValid() bool {
	return r.Outcome == OutcomeValid
}

// Err maps the verdict onto the package sentinels, nil when valid
func (r VerificationResult) Err() error {
	switch r.Outcome {
	case OutcomeValid:
		return nil
	case OutcomeForbidden:
		return ErrForbidden
	case OutcomeNetworkError:
		return ErrNetwork
	}
	if err, ok := reasonErrors[r.Reason]; ok {
		return err
	}
	return ErrMalformedPayload
}

type RedeemRequest struct {
	TicketID string
	Caller   Caller
}

type RedemptionResult struct {
	Outcome RedeemOutcome
	Message string
	Booking *bookings.Booking
}

// Success is true for a first redemption and for an idempotent retry
func (r RedemptionResult) Success() bool {
	return r.Outcome == RedeemOutcomeRedeemed || r.Outcome == RedeemOutcomeAlreadyRedeemed
}

func (r RedemptionResult) Err() error {
	switch r.Outcome {
	case RedeemOutcomeRedeemed:
		return nil
	case RedeemOutcomeAlreadyRedeemed:
		return ErrAlreadyRedeemed
	case RedeemOutcomeUnknownTicket:
		return ErrUnknownTicket
	case RedeemOutcomeForbidden:
		return ErrForbidden
	case RedeemOutcomeNetworkError:
		return ErrNetwork
	default:
		return ErrNotRedeemable
	}
}

// IssuedTicket is a ticket and its QR payload
type IssuedTicket struct {
	Ticket  Ticket
	Payload string
}

// Service is the ticket verification core
type Service interface {
	IssueTicket(ctx context.Context, bookingID string, caller Caller) (*IssuedTicket, error)
	Verify(ctx context.Context, req VerifyRequest) VerificationResult
	Redeem(ctx context.Context, req RedeemRequest) RedemptionResult
}

type service struct {
	store     BookingStore
	authz     Authorizer
	codes     CodeGenerator
	machine   *StateMachine
	publisher notifications.Publisher
	log       *logger.Logger
	timeout   time.Duration
	now       func() time.Time
}

func NewService(store BookingStore, authz Authorizer, codes CodeGenerator, publisher notifications.Publisher, log *logger.Logger, timeout time.Duration) Service {
	if timeout <= 0 {
		timeout = DefaultVerifyTimeout
	}
	if publisher == nil {
		publisher = notifications.NoopPublisher{}
	}
	return &service{
		store:     store,
		authz:     authz,
		codes:     codes,
		machine:   NewStateMachine(store),
		publisher: publisher,
		log:       log,
		timeout:   timeout,
		now:       time.Now,
	}
}

// IssueTicket produces the QR payload for a CONFIRMED booking. Only the
// traveller who booked it or an administrator may ask for it.
func (s *service) IssueTicket(ctx context.Context, bookingID string, caller Caller) (*IssuedTicket, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	booking, err := s.store.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookings.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTicket, bookingID)
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if !booking.BelongsTo(caller.Identity) {
		admin, err := s.authz.IsAdmin(ctx, caller.Identity)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
		}
		if !admin {
			return nil, ErrForbidden
		}
	}

	if !booking.IsConfirmed() {
		return nil, fmt.Errorf("%w: booking is %s", ErrNotRedeemable, booking.Status)
	}

	ticket := TicketFromBooking(booking, s.codes.Generate(booking.ID, s.now()))
	payload, err := Encode(ticket)
	if err != nil {
		return nil, err
	}

	s.log.LogTicketIssued(ctx, booking.ID, caller.Identity)
	metrics.TrackTicketIssued()
	s.publish(ctx, notifications.NewTicketEvent(notifications.EventTypeTicketIssued, booking.ID, booking.ActivityID, caller.Identity), booking)

	return &IssuedTicket{Ticket: ticket, Payload: payload}, nil
}

// Verify checks a scanned payload against the authoritative booking
func (s *service) Verify(ctx context.Context, req VerifyRequest) VerificationResult {
	ctx, span := tracer.Start(ctx, "tickets.Verify")
	defer span.End()

	start := time.Now()
	ticketID := ""

	result := s.verify(ctx, req, &ticketID)
	if !result.IsValid() {
		result.RawPayload = req.Raw
	}
	span.SetAttributes(
		attribute.String("ticket.id", ticketID),
		attribute.String("ticket.mode", string(req.Caller.Mode)),
		attribute.String("ticket.outcome", string(result.Outcome)),
		attribute.String("ticket.reason", string(result.Reason)),
	)

	s.log.LogTicketVerified(ctx, ticketID, req.Caller.Identity, string(req.Caller.Mode), string(result.Outcome), string(result.Reason))
	metrics.TrackVerification(string(req.Caller.Mode), string(result.Outcome), string(result.Reason), time.Since(start))

	if result.IsValid() {
		event := notifications.NewTicketEvent(notifications.EventTypeTicketVerified, result.Booking.ID, result.Booking.ActivityID, req.Caller.Identity)
		event.Outcome = string(result.Outcome)
		s.publish(ctx, event, result.Booking)
	}
	return result
}

func (s *service) verify(ctx context.Context, req VerifyRequest, ticketID *string) VerificationResult {
	ticket, err := Decode(req.Raw)
	if err != nil {
		if errors.Is(err, ErrMissingRequiredField) {
			return invalid(ReasonMissingRequiredField, "Invalid QR code: missing required fields")
		}
		return invalid(ReasonMalformedPayload, "Invalid QR code format")
	}
	*ticketID = ticket.TicketID

	if req.ExpectedBookingID != "" && req.ExpectedBookingID != ticket.TicketID {
		return invalid(ReasonBookingMismatch, "QR code does not belong to this booking")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	booking, err := s.store.GetBookingByID(ctx, ticket.TicketID)
	if err != nil {
		if errors.Is(err, bookings.ErrBookingNotFound) {
			return invalid(ReasonUnknownTicket, "Ticket not found")
		}
		return s.networkError(ctx, "booking lookup failed", err)
	}

	allowed, err := s.authorize(ctx, req.Caller, booking.ActivityID)
	if err != nil {
		return s.networkError(ctx, "authorization lookup failed", err)
	}
	if !allowed {
		return VerificationResult{Outcome: OutcomeForbidden, Message: "You are not allowed to verify this ticket"}
	}

	if !s.codes.Verify(booking.ID, ticket.VerificationCode, s.now()) {
		return invalid(ReasonCodeMismatch, "Invalid verification code")
	}
	if !ticket.matches(booking) {
		return invalid(ReasonDetailsMismatch, "Ticket details do not match the booking")
	}

	switch booking.Status {
	case bookings.StatusCancelled:
		return invalid(ReasonNotRedeemable, "Booking has been cancelled")
	case bookings.StatusCompleted:
		return VerificationResult{Outcome: OutcomeValid, Message: "Ticket already used", Booking: booking, AlreadyRedeemed: true}
	case bookings.StatusPending:
		return VerificationResult{Outcome: OutcomeValid, Message: "Ticket is genuine but payment is still pending", Booking: booking}
	default:
		return VerificationResult{Outcome: OutcomeValid, Message: "Ticket is valid", Booking: booking, Redeemable: true}
	}
}

// Redeem consumes the ticket. Retrying a redemption is safe and reports
// ALREADY_REDEEMED without repeating side effects.
func (s *service) Redeem(ctx context.Context, req RedeemRequest) RedemptionResult {
	ctx, span := tracer.Start(ctx, "tickets.Redeem")
	defer span.End()

	result := s.redeem(ctx, req)
	span.SetAttributes(
		attribute.String("ticket.id", req.TicketID),
		attribute.String("ticket.mode", string(req.Caller.Mode)),
		attribute.String("ticket.redeem_outcome", string(result.Outcome)),
	)

	s.log.LogBookingRedeemed(ctx, req.TicketID, req.Caller.Identity, string(result.Outcome))
	metrics.TrackRedemption(string(result.Outcome))

	if result.Outcome == RedeemOutcomeRedeemed {
		s.publish(ctx, notifications.NewTicketEvent(notifications.EventTypeBookingCompleted, result.Booking.ID, result.Booking.ActivityID, req.Caller.Identity), result.Booking)
	}
	return result
}

func (s *service) redeem(ctx context.Context, req RedeemRequest) RedemptionResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	booking, err := s.store.GetBookingByID(ctx, req.TicketID)
	if err != nil {
		if errors.Is(err, bookings.ErrBookingNotFound) {
			return RedemptionResult{Outcome: RedeemOutcomeUnknownTicket, Message: "Ticket not found"}
		}
		s.log.ErrorWithContext(ctx, "Booking lookup failed", err, map[string]interface{}{"booking_id": req.TicketID})
		return RedemptionResult{Outcome: RedeemOutcomeNetworkError, Message: "Booking service unavailable, try again"}
	}

	allowed, err := s.authorize(ctx, req.Caller, booking.ActivityID)
	if err != nil {
		s.log.ErrorWithContext(ctx, "Authorization lookup failed", err, map[string]interface{}{"booking_id": req.TicketID})
		return RedemptionResult{Outcome: RedeemOutcomeNetworkError, Message: "Booking service unavailable, try again"}
	}
	if !allowed {
		return RedemptionResult{Outcome: RedeemOutcomeForbidden, Message: "You are not allowed to redeem this ticket"}
	}

	previous := booking.Status
	attempt, err := s.machine.AttemptRedeem(ctx, booking.ID, booking.Status)
	if err != nil {
		s.log.ErrorWithContext(ctx, "Redemption failed", err, map[string]interface{}{"booking_id": req.TicketID})
		return RedemptionResult{Outcome: RedeemOutcomeNetworkError, Message: "Booking service unavailable, try again"}
	}

	switch attempt.Outcome {
	case RedeemOutcomeRedeemed:
		completedAt := s.now().UTC()
		booking.Status = bookings.StatusCompleted
		booking.CompletedAt = &completedAt
		s.log.LogBookingTransition(ctx, booking.ID, string(previous), string(booking.Status))
		return RedemptionResult{Outcome: attempt.Outcome, Message: "Ticket redeemed, booking completed", Booking: booking}
	case RedeemOutcomeAlreadyRedeemed:
		booking.Status = bookings.StatusCompleted
		return RedemptionResult{Outcome: attempt.Outcome, Message: "Ticket already used", Booking: booking}
	default:
		return RedemptionResult{Outcome: attempt.Outcome, Message: "Ticket cannot be redeemed: " + attempt.Reason, Booking: booking}
	}
}

// authorize admits administrators in every mode and activity owners in owner mode
func (s *service) authorize(ctx context.Context, caller Caller, activityID uint) (bool, error) {
	if caller.Identity == "" {
		return false, nil
	}

	admin, err := s.authz.IsAdmin(ctx, caller.Identity)
	if err != nil || admin {
		return admin, err
	}
	if caller.Mode != ModeOwner {
		return false, nil
	}
	return s.authz.IsOwnerOf(ctx, caller.Identity, activityID)
}

func (s *service) networkError(ctx context.Context, msg string, err error) VerificationResult {
	s.log.ErrorWithContext(ctx, "Ticket verification "+msg, err, nil)
	return VerificationResult{Outcome: OutcomeNetworkError, Message: "Booking service unavailable, try again"}
}

// publish is best effort: a broker outage never changes a verdict
func (s *service) publish(ctx context.Context, event *notifications.TicketEvent, booking *bookings.Booking) {
	event.Status = string(booking.Status)
	event.Persons = booking.TotalPersons
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.WarnContext(ctx, "Failed to publish ticket event", "type", string(event.Type), "ticket_id", event.TicketID, "error", err)
	}
}

func invalid(reason Reason, message string) VerificationResult {
	return VerificationResult{Outcome: OutcomeInvalid, Reason: reason, Message: message}
}

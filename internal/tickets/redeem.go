package tickets

import (
	"context"
	"fmt"

	"traveltix/internal/bookings"
)

// BookingStore is the authoritative booking state the ticket core reads and
// conditionally writes
type BookingStore interface {
	GetBookingByID(ctx context.Context, id string) (*bookings.Booking, error)
	ConditionalTransition(ctx context.Context, id string, expected, next bookings.Status) (bool, error)
}

// RedeemResult is the outcome of a single redemption attempt
type RedeemResult struct {
	Outcome RedeemOutcome
	Reason  string
}

// StateMachine consumes tickets. Per booking it is linearizable: of any number
// of concurrent attempts on a CONFIRMED booking exactly one observes REDEEMED.
type StateMachine struct {
	store BookingStore
}

func NewStateMachine(store BookingStore) *StateMachine {
	return &StateMachine{store: store}
}

// AttemptRedeem tries CONFIRMED -> COMPLETED given the status the caller last
// observed. Store failures are returned as errors; everything else is a result.
func (m *StateMachine) AttemptRedeem(ctx context.Context, bookingID string, current bookings.Status) (RedeemResult, error) {
	if !current.CanBeRedeemed() {
		return resultForStatus(current), nil
	}

	applied, err := m.store.ConditionalTransition(ctx, bookingID, bookings.StatusConfirmed, bookings.StatusCompleted)
	if err != nil {
		return RedeemResult{}, fmt.Errorf("redeem %s: %w", bookingID, err)
	}
	if applied {
		return RedeemResult{Outcome: RedeemOutcomeRedeemed}, nil
	}

	// Lost the race or the snapshot was stale: report what the row says now
	booking, err := m.store.GetBookingByID(ctx, bookingID)
	if err != nil {
		return RedeemResult{}, fmt.Errorf("redeem %s: re-read: %w", bookingID, err)
	}
	if booking.Status.CanBeRedeemed() {
		// Lost to a writer that has since been rolled back; never double count
		return RedeemResult{Outcome: RedeemOutcomeNotRedeemable, Reason: "booking changed during redemption, retry"}, nil
	}
	return resultForStatus(booking.Status), nil
}

func resultForStatus(status bookings.Status) RedeemResult {
	switch status {
	case bookings.StatusCompleted:
		return RedeemResult{Outcome: RedeemOutcomeAlreadyRedeemed, Reason: "ticket already used"}
	case bookings.StatusPending:
		return RedeemResult{Outcome: RedeemOutcomeNotRedeemable, Reason: "payment is still pending"}
	case bookings.StatusCancelled:
		return RedeemResult{Outcome: RedeemOutcomeNotRedeemable, Reason: "booking has been cancelled"}
	default:
		return RedeemResult{Outcome: RedeemOutcomeNotRedeemable, Reason: fmt.Sprintf("unexpected booking status %q", status)}
	}
}

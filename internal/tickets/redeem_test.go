package tickets

import (
	"context"
	"errors"
	"sync"
	"testing"

	"traveltix/internal/bookings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptRedeemByStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  bookings.Status
		outcome RedeemOutcome
		final   bookings.Status
	}{
		{"confirmed is redeemed", bookings.StatusConfirmed, RedeemOutcomeRedeemed, bookings.StatusCompleted},
		{"completed is idempotent", bookings.StatusCompleted, RedeemOutcomeAlreadyRedeemed, bookings.StatusCompleted},
		{"pending is not redeemable", bookings.StatusPending, RedeemOutcomeNotRedeemable, bookings.StatusPending},
		{"cancelled is not redeemable", bookings.StatusCancelled, RedeemOutcomeNotRedeemable, bookings.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := confirmedBooking()
			b.Status = tt.status
			store := newMemStore(b)

			result, err := NewStateMachine(store).AttemptRedeem(context.Background(), b.ID, tt.status)
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, result.Outcome)
			assert.Equal(t, tt.final, store.status(b.ID))
			if tt.outcome == RedeemOutcomeNotRedeemable {
				assert.NotEmpty(t, result.Reason)
			}
		})
	}
}

func TestAttemptRedeemStaleSnapshot(t *testing.T) {
	b := confirmedBooking()
	b.Status = bookings.StatusCompleted
	store := newMemStore(b)

	// Caller read CONFIRMED before someone else redeemed
	result, err := NewStateMachine(store).AttemptRedeem(context.Background(), b.ID, bookings.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, RedeemOutcomeAlreadyRedeemed, result.Outcome)
	assert.Zero(t, store.attended[b.ActivityID])
}

func TestAttemptRedeemStaleSnapshotCancelled(t *testing.T) {
	b := confirmedBooking()
	b.Status = bookings.StatusCancelled
	store := newMemStore(b)

	result, err := NewStateMachine(store).AttemptRedeem(context.Background(), b.ID, bookings.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, RedeemOutcomeNotRedeemable, result.Outcome)
}

func TestAttemptRedeemStoreFailure(t *testing.T) {
	b := confirmedBooking()
	store := newMemStore(b)
	store.transitionErr = errors.New("connection refused")

	_, err := NewStateMachine(store).AttemptRedeem(context.Background(), b.ID, bookings.StatusConfirmed)
	require.Error(t, err)
	assert.Equal(t, bookings.StatusConfirmed, store.status(b.ID))
}

func TestAttemptRedeemConcurrentExactlyOnce(t *testing.T) {
	const attempts = 32

	b := confirmedBooking()
	store := newMemStore(b)
	machine := NewStateMachine(store)

	var wg sync.WaitGroup
	results := make(chan RedeemOutcome, attempts)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			result, err := machine.AttemptRedeem(context.Background(), b.ID, bookings.StatusConfirmed)
			if err != nil {
				results <- RedeemOutcomeNetworkError
				return
			}
			results <- result.Outcome
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	counts := map[RedeemOutcome]int{}
	for outcome := range results {
		counts[outcome]++
	}

	assert.Equal(t, 1, counts[RedeemOutcomeRedeemed])
	assert.Equal(t, attempts-1, counts[RedeemOutcomeAlreadyRedeemed])
	assert.Equal(t, bookings.StatusCompleted, store.status(b.ID))
	assert.Equal(t, b.TotalPersons, store.attended[b.ActivityID])
}

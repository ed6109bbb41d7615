package bookings

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"traveltix/internal/shared/middleware"
	"traveltix/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupBookingControllerTest(repo *fakeRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserEmail, "traveler@example.com")
		c.Set(middleware.ContextUserRole, string(users.RoleUser))
		c.Next()
	})

	controller := NewController(newTestService(repo))
	r.GET("/users/bookings", controller.GetUserBookings)
	r.DELETE("/bookings/:id", controller.CancelBooking)
	return r
}

func TestGetUserBookingsStatusFilter(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantCode   int
		wantFilter Status
	}{
		{"no filter", "", http.StatusOK, ""},
		{"canonical", "?status=COMPLETED", http.StatusOK, StatusCompleted},
		{"lower case", "?status=confirmed", http.StatusOK, StatusConfirmed},
		{"unknown", "?status=used", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			r := setupBookingControllerTest(repo)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/bookings"+tt.query, nil))

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantFilter, repo.lastQuery.Status)
		})
	}
}

func TestCancelTerminalBookingConflicts(t *testing.T) {
	repo := newFakeRepo()
	repo.bookings["TICK-9"] = &Booking{ID: "TICK-9", UserEmail: "traveler@example.com", Status: StatusCompleted}
	r := setupBookingControllerTest(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/bookings/TICK-9", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, StatusCompleted, repo.bookings["TICK-9"].Status)
}

package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"traveltix/internal/activities"
	"traveltix/internal/bookings"
	"traveltix/internal/shared/config"
	"traveltix/internal/shared/database"
	"traveltix/internal/tickets"
	"traveltix/internal/users"
	"traveltix/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Seeder struct {
	db    *database.DB
	codes tickets.CodeGenerator
}

func main() {
	fmt.Println("🌱 Starting TravelTix Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg, logger.New())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	codes, err := tickets.NewCodeGenerator(cfg.Ticket)
	if err != nil {
		log.Fatalf("Failed to configure verification codes: %v", err)
	}

	seeder := &Seeder{db: db, codes: codes}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables, children first
func (s *Seeder) CleanDatabase() error {
	tables := []string{"bookings", "activities", "users"}

	return s.db.PostgreSQL.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			fmt.Printf("  Truncating table: %s\n", table)
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

// SeedAll seeds users, activities and one booking per lifecycle state
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	activityIDs, err := s.SeedActivities()
	if err != nil {
		return fmt.Errorf("failed to seed activities: %w", err)
	}

	if err := s.SeedBookings(activityIDs); err != nil {
		return fmt.Errorf("failed to seed bookings: %w", err)
	}

	// Cached authorization decisions would outlive the truncated users
	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: Failed to clear Redis cache: %v", err)
		}
	}

	return nil
}

// SeedUsers creates the admin, two activity owners and a traveler. Admins
// can only be created here since registration refuses the ADMIN role.
func (s *Seeder) SeedUsers() error {
	fmt.Println("  👤 Seeding users...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		firstName string
		lastName  string
		email     string
		role      users.Role
	}{
		{"Admin", "User", "admin@traveltix.dev", users.RoleAdmin},
		{"Kai", "Nakoa", "kai@bayadventures.dev", users.RoleTravelActivityOwner},
		{"Lena", "Berg", "lena@alpinetrails.dev", users.RoleTravelActivityOwner},
		{"Sam", "Rivera", "sam@traveler.dev", users.RoleUser},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return nil
}

// SeedActivities creates one activity per owner
func (s *Seeder) SeedActivities() ([]uint, error) {
	fmt.Println("  🏄 Seeding activities...")

	activitiesData := []activities.Activity{
		{Title: "Sunrise Kayak Tour", Location: "Kailua Bay", Price: 65, OwnerEmail: "kai@bayadventures.dev"},
		{Title: "Glacier Hike", Location: "Aletsch", Price: 120, OwnerEmail: "lena@alpinetrails.dev"},
	}

	ids := make([]uint, 0, len(activitiesData))
	for i := range activitiesData {
		activity := activitiesData[i]
		if err := s.db.PostgreSQL.Create(&activity).Error; err != nil {
			return nil, fmt.Errorf("failed to create activity %s: %w", activity.Title, err)
		}
		ids = append(ids, activity.ID)
		fmt.Printf("    ✅ Created activity: %s (owner %s)\n", activity.Title, activity.OwnerEmail)
	}

	return ids, nil
}

// SeedBookings creates a booking in every status and prints the QR payload
// of the confirmed ones so scans can be exercised right away
func (s *Seeder) SeedBookings(activityIDs []uint) error {
	fmt.Println("  🎫 Seeding bookings...")

	now := time.Now().UTC()
	bookingDate := now.AddDate(0, 0, 14).Format(bookings.DateLayout)
	statuses := []bookings.Status{
		bookings.StatusPending,
		bookings.StatusConfirmed,
		bookings.StatusCompleted,
		bookings.StatusCancelled,
	}

	for i, activityID := range activityIDs {
		var activity activities.Activity
		if err := s.db.PostgreSQL.First(&activity, activityID).Error; err != nil {
			return fmt.Errorf("failed to load activity %d: %w", activityID, err)
		}

		for j, status := range statuses {
			persons := j + 1
			stamp := now.UnixMilli() + int64(i*len(statuses)+j)
			booking := bookings.Booking{
				ID:           fmt.Sprintf("TICK-%d", stamp),
				ActivityID:   activity.ID,
				UserEmail:    "sam@traveler.dev",
				Title:        activity.Title,
				Location:     activity.Location,
				BookingDate:  bookingDate,
				TotalPersons: persons,
				TotalPrice:   activity.Price * float64(persons),
				OrderNumber:  fmt.Sprintf("ORD-%d", stamp),
				Status:       status,
			}
			stampStatusTimes(&booking, now)

			if err := s.db.PostgreSQL.Create(&booking).Error; err != nil {
				return fmt.Errorf("failed to create booking %s: %w", booking.ID, err)
			}
			fmt.Printf("    ✅ Created booking: %s (%s, %s)\n", booking.ID, activity.Title, booking.Status)

			if status == bookings.StatusCompleted {
				err := s.db.PostgreSQL.Model(&activity).
					UpdateColumn("attended_count", activity.AttendedCount+persons).Error
				if err != nil {
					return fmt.Errorf("failed to record attendance for %s: %w", booking.ID, err)
				}
			}

			if status == bookings.StatusConfirmed {
				payload, err := tickets.Encode(tickets.TicketFromBooking(&booking, s.codes.Generate(booking.ID, now)))
				if err != nil {
					return fmt.Errorf("failed to encode ticket %s: %w", booking.ID, err)
				}
				fmt.Printf("       QR payload: %s\n", payload)
			}
		}
	}

	return nil
}

func stampStatusTimes(b *bookings.Booking, now time.Time) {
	switch b.Status {
	case bookings.StatusConfirmed:
		b.PaymentMethod = "CARD"
		b.TransactionID = "TXN_SEED_" + b.ID
		b.ConfirmedAt = &now
	case bookings.StatusCompleted:
		b.PaymentMethod = "CARD"
		b.TransactionID = "TXN_SEED_" + b.ID
		b.ConfirmedAt = &now
		b.CompletedAt = &now
	case bookings.StatusCancelled:
		b.CancelledAt = &now
	}
}

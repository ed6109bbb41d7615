package tickets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"traveltix/internal/bookings"
)

// Ticket is the payload embedded in the QR image. It is untrusted input on
// the scanning side; only TicketID and VerificationCode are authoritative
// once checked against the booking store.
type Ticket struct {
	TicketID         string          `json:"ticketId"`
	EventTitle       string          `json:"eventTitle"`
	Date             string          `json:"date"`
	Persons          int             `json:"persons"`
	OrderNumber      string          `json:"orderNumber"`
	Status           bookings.Status `json:"status"`
	VerificationCode string          `json:"verificationCode"`
}

// ticketKeys are the wire keys of Ticket, in encoding order
var ticketKeys = []string{"ticketId", "eventTitle", "date", "persons", "orderNumber", "status", "verificationCode"}

// TicketFromBooking builds the payload for a booking with a freshly generated code
func TicketFromBooking(b *bookings.Booking, verificationCode string) Ticket {
	return Ticket{
		TicketID:         b.ID,
		EventTitle:       b.Title,
		Date:             b.BookingDate,
		Persons:          b.TotalPersons,
		OrderNumber:      b.OrderNumber,
		Status:           b.Status,
		VerificationCode: verificationCode,
	}
}

// Encode serializes t as compact JSON with keys in declaration order
func Encode(t Ticket) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(t); err != nil {
		return "", fmt.Errorf("failed to encode ticket: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Decode parses a scanned payload. It fails with ErrMalformedPayload when the
// input is not a ticket object, spells a ticket key in another case or carries
// persons below one, and with ErrMissingRequiredField when ticketId or
// verificationCode is absent or blank.
func Decode(raw string) (Ticket, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Ticket{}, fmt.Errorf("%w: empty payload", ErrMalformedPayload)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return Ticket{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Ticket{}, fmt.Errorf("%w: trailing data after ticket", ErrMalformedPayload)
	}
	for key := range fields {
		if canonical, ok := canonicalKey(key); ok && canonical != key {
			return Ticket{}, fmt.Errorf("%w: key %q must be spelled %q", ErrMalformedPayload, key, canonical)
		}
	}

	var t Ticket
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return Ticket{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if t.Status != "" && !t.Status.IsValid() {
		return Ticket{}, fmt.Errorf("%w: unknown status %q", ErrMalformedPayload, t.Status)
	}
	if _, ok := fields["persons"]; ok && t.Persons < 1 {
		return Ticket{}, fmt.Errorf("%w: persons must be at least 1, got %d", ErrMalformedPayload, t.Persons)
	}
	if err := t.validate(); err != nil {
		return Ticket{}, err
	}
	return t, nil
}

// canonicalKey finds the ticket key that key spells, ignoring case
func canonicalKey(key string) (string, bool) {
	for _, k := range ticketKeys {
		if strings.EqualFold(k, key) {
			return k, true
		}
	}
	return "", false
}

func (t Ticket) validate() error {
	if strings.TrimSpace(t.TicketID) == "" {
		return fmt.Errorf("%w: ticketId", ErrMissingRequiredField)
	}
	if strings.TrimSpace(t.VerificationCode) == "" {
		return fmt.Errorf("%w: verificationCode", ErrMissingRequiredField)
	}
	return nil
}

// matches cross-checks the informational fields against the authoritative
// booking. Title is display only and not compared.
func (t Ticket) matches(b *bookings.Booking) bool {
	if t.Persons != b.TotalPersons {
		return false
	}
	if t.Date != b.BookingDate {
		return false
	}
	return b.OrderNumber == "" || t.OrderNumber == b.OrderNumber
}

package models

import (
	"errors"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

type BookingType string

const (
	BookingOnline BookingType = "online"
	BookingManual BookingType = "manual"
)

type ContactMethod string

const (
	ContactEmail    ContactMethod = "email"
	ContactWhatsApp ContactMethod = "whatsapp"
)

// Booking is either a public enquiry (always pending/online at creation)
// or an admin-entered appointment (manual, any status). Status transitions
// are deliberately free-form; there is no enforced state machine.
type Booking struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Email           string        `json:"email"`
	WhatsAppNumber  string        `json:"whatsapp_number,omitempty"`
	ContactMethod   ContactMethod `json:"contact_method,omitempty"`
	Message         string        `json:"message"`
	BookingDate     time.Time     `json:"booking_date"`
	Status          BookingStatus `json:"status"`
	BookingType     BookingType   `json:"booking_type"`
	TotalCost       float64       `json:"total_cost,omitempty"`
	AmountPaid      float64       `json:"amount_paid,omitempty"`
	PaymentMethod   string        `json:"payment_method,omitempty"`
	ReferenceImages []string      `json:"reference_images,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

func (b *Booking) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return errors.New("booking requires a name")
	}
	if strings.TrimSpace(b.Email) == "" {
		return errors.New("booking requires an email")
	}
	if b.BookingDate.IsZero() {
		return errors.New("booking requires a date")
	}
	if !ValidBookingStatus(b.Status) {
		return errors.New("invalid booking status")
	}
	if b.BookingType != BookingOnline && b.BookingType != BookingManual {
		return errors.New("invalid booking type")
	}
	return nil
}

// NewPublicBooking builds a booking from a public form submission.
// Public requests always enter the system pending, typed online.
func NewPublicBooking(name, email, whatsapp string, method ContactMethod, message string, date time.Time, refs []string) Booking {
	return Booking{
		Name:            name,
		Email:           email,
		WhatsAppNumber:  whatsapp,
		ContactMethod:   method,
		Message:         message,
		BookingDate:     date,
		Status:          BookingPending,
		BookingType:     BookingOnline,
		ReferenceImages: refs,
	}
}

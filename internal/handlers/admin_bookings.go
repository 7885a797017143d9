package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dkrauss/inkwell/internal/livesync"
	"github.com/dkrauss/inkwell/internal/models"
	"github.com/dkrauss/inkwell/internal/store"
)

// ListBookings shows all bookings, optionally filtered by status and
// month.
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings := h.Live.Bookings()

	status := models.BookingStatus(r.URL.Query().Get("status"))
	month := r.URL.Query().Get("month") // YYYY-MM
	var filtered []models.Booking
	for _, b := range bookings {
		if status != "" && b.Status != status {
			continue
		}
		if month != "" && b.BookingDate.Format("2006-01") != month {
			continue
		}
		filtered = append(filtered, b)
	}

	h.render(w, r, "admin_bookings.html", map[string]interface{}{
		"Bookings":  filtered,
		"Status":    string(status),
		"Month":     month,
		"Inventory": h.Live.Inventory(),
	})
}

// CreateManualBooking records a walk-in or phone appointment. The status
// the admin picks is kept exactly; only the type is forced to manual.
func (h *AdminHandler) CreateManualBooking(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", r.FormValue("booking_date"))
	if err != nil {
		h.flashAndRedirect(w, r, "error", "Booking date is required.", "/admin/bookings")
		return
	}
	status := models.BookingStatus(r.FormValue("status"))
	if status == "" {
		status = models.BookingPending
	}
	totalCost, _ := strconv.ParseFloat(r.FormValue("total_cost"), 64)
	amountPaid, _ := strconv.ParseFloat(r.FormValue("amount_paid"), 64)

	booking := models.Booking{
		Name:           strings.TrimSpace(r.FormValue("name")),
		Email:          strings.TrimSpace(r.FormValue("email")),
		WhatsAppNumber: strings.TrimSpace(r.FormValue("whatsapp_number")),
		Message:        r.FormValue("message"),
		BookingDate:    date,
		Status:         status,
		BookingType:    models.BookingManual,
		TotalCost:      totalCost,
		AmountPaid:     amountPaid,
		PaymentMethod:  r.FormValue("payment_method"),
	}
	if _, err := h.Gateway.Create(store.CollectionBookings, &booking); err != nil {
		h.flashAndRedirect(w, r, "error", err.Error(), "/admin/bookings")
		return
	}
	h.flashAndRedirect(w, r, "success", "Booking created.", "/admin/bookings")
}

// UpdateBooking rewrites a booking's status and payment fields. Any
// status can follow any other; there is no enforced state machine.
func (h *AdminHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	id := r.FormValue("id")
	booking, ok := findBooking(h.Live.Bookings(), id)
	if !ok {
		h.flashAndRedirect(w, r, "error", "Booking not found.", "/admin/bookings")
		return
	}

	if s := models.BookingStatus(r.FormValue("status")); s != "" {
		booking.Status = s
	}
	if v := r.FormValue("total_cost"); v != "" {
		booking.TotalCost, _ = strconv.ParseFloat(v, 64)
	}
	if v := r.FormValue("amount_paid"); v != "" {
		booking.AmountPaid, _ = strconv.ParseFloat(v, 64)
	}
	if v := r.FormValue("payment_method"); v != "" {
		booking.PaymentMethod = v
	}

	if err := h.Gateway.Update(store.CollectionBookings, id, &booking); err != nil {
		h.flashAndRedirect(w, r, "error", err.Error(), "/admin/bookings")
		return
	}
	h.flashAndRedirect(w, r, "success", "Booking updated.", "/admin/bookings")
}

func (h *AdminHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.Gateway.Delete(store.CollectionBookings, r.FormValue("id")); err != nil {
		h.flashAndRedirect(w, r, "error", "Delete failed: "+err.Error(), "/admin/bookings")
		return
	}
	h.flashAndRedirect(w, r, "success", "Booking deleted.", "/admin/bookings")
}

// FinalizeSupplies logs the stock a completed booking consumed. Form
// fields are used_<inventoryID> quantities; zero and empty entries are
// skipped.
func (h *AdminHandler) FinalizeSupplies(w http.ResponseWriter, r *http.Request) {
	id := r.FormValue("id")
	booking, ok := findBooking(h.Live.Bookings(), id)
	if !ok {
		h.flashAndRedirect(w, r, "error", "Booking not found.", "/admin/bookings")
		return
	}
	if booking.Status != models.BookingCompleted {
		h.flashAndRedirect(w, r, "error", "Supplies can only be finalized on a completed booking.", "/admin/bookings")
		return
	}

	var usages []livesync.SupplyUsage
	for _, item := range h.Live.Inventory() {
		qty, err := strconv.ParseFloat(r.FormValue("used_"+item.ID), 64)
		if err != nil || qty <= 0 {
			continue
		}
		usages = append(usages, livesync.SupplyUsage{Item: item, Quantity: qty})
	}

	if err := h.Gateway.FinalizeSupplyUsage(booking, usages); err != nil {
		h.flashAndRedirect(w, r, "error", "Supply log incomplete: "+err.Error(), "/admin/bookings")
		return
	}
	h.flashAndRedirect(w, r, "success", "Supplies logged against "+booking.Name+".", "/admin/bookings")
}

func findBooking(bookings []models.Booking, id string) (models.Booking, bool) {
	for _, b := range bookings {
		if b.ID == id {
			return b, true
		}
	}
	return models.Booking{}, false
}

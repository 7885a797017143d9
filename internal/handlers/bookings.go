package handlers

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/dkrauss/inkwell/internal/models"
	"github.com/dkrauss/inkwell/internal/store"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// BookingForm renders the public booking/contact form.
func (h *PublicHandler) BookingForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "booking.html", nil)
}

// SubmitBooking accepts a public booking request. Validation happens
// before any store interaction; a valid request always enters the system
// pending and typed online.
func (h *PublicHandler) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "public-session")
	defer session.Save(r, w)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid form data."})
		http.Redirect(w, r, "/booking", http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	whatsapp := strings.TrimSpace(r.FormValue("whatsapp_number"))
	method := models.ContactMethod(r.FormValue("contact_method"))
	message := strings.TrimSpace(r.FormValue("message"))
	dateStr := r.FormValue("booking_date")

	errs := make(map[string]string)
	if name == "" {
		errs["name"] = "Name is required."
	}
	if !emailRegex.MatchString(email) {
		errs["email"] = "A valid email is required."
	}
	if message == "" {
		errs["message"] = "Tell us about the piece you want."
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		errs["booking_date"] = "Pick a preferred date."
	}
	if method != "" && method != models.ContactEmail && method != models.ContactWhatsApp {
		errs["contact_method"] = "Invalid contact method."
	}
	if method == models.ContactWhatsApp && whatsapp == "" {
		errs["whatsapp_number"] = "WhatsApp number is required for WhatsApp contact."
	}
	if len(errs) > 0 {
		for _, msg := range errs {
			session.AddFlash(FlashMessage{Type: "error", Message: msg})
		}
		http.Redirect(w, r, "/booking", http.StatusSeeOther)
		return
	}

	// Optional reference images.
	var refs []string
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["reference_images"] {
			file, err := header.Open()
			if err != nil {
				continue
			}
			url, err := h.Uploads.SaveImage(file, header.Filename)
			file.Close()
			if err != nil {
				session.AddFlash(FlashMessage{Type: "error", Message: "Could not process a reference image: " + err.Error()})
				http.Redirect(w, r, "/booking", http.StatusSeeOther)
				return
			}
			refs = append(refs, url)
		}
	}

	booking := models.NewPublicBooking(name, email, whatsapp, method, message, date, refs)
	if _, err := h.Gateway.Create(store.CollectionBookings, &booking); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Something went wrong sending your request. Please try again."})
		http.Redirect(w, r, "/booking", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Request received! We will get back to you shortly."})
	http.Redirect(w, r, "/booking", http.StatusSeeOther)
}

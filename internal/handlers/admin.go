package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dkrauss/inkwell/internal/blob"
	"github.com/dkrauss/inkwell/internal/finance"
	"github.com/dkrauss/inkwell/internal/livesync"
	"github.com/dkrauss/inkwell/internal/models"
	"github.com/dkrauss/inkwell/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"
)

type AdminHandler struct {
	Store        *store.Store // admin user lookups only; data reads go through Live
	Live         *livesync.Manager
	Gateway      *livesync.Gateway
	Uploads      *blob.Store
	SessionStore *sessions.CookieStore
	Templates    *TemplateCache
	Banner       *SyncBanner
}

func (h *AdminHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("login.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "admin-session")
	data := map[string]interface{}{
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AdminHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "admin-session")

	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.Store.GetUserByUsername(username)
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Internal Server Error"})
		session.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid username or password"})
		session.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	session.Values["authenticated"] = true
	session.Values["user_id"] = user.ID
	session.Options.Path = "/"
	session.AddFlash(FlashMessage{Type: "success", Message: "Welcome, " + user.Username + "!"})

	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	slog.Info("Login successful", "user_id", user.ID)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "admin-session")
	session.Values["authenticated"] = false
	session.Options.MaxAge = -1
	session.AddFlash(FlashMessage{Type: "success", Message: "Logged out successfully!"})
	session.Save(r, w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// AuthMiddleware ensures the user is logged in
func (h *AdminHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := h.SessionStore.Get(r, "admin-session")
		if auth, ok := session.Values["authenticated"].(bool); !ok || !auth {
			session.AddFlash(FlashMessage{Type: "error", Message: "You must be logged in to access this page."})
			session.Save(r, w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// render executes an admin template with the shared chrome: CSRF token,
// flashes, loading state and any pending sync-failure banner.
func (h *AdminHandler) render(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) {
	tmpl := h.Templates.Get(name)
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "admin-session")
	if data == nil {
		data = map[string]interface{}{}
	}
	data["CsrfField"] = csrf.TemplateField(r)
	data["Flashes"] = GetFlash(session)
	data["Loading"] = h.Live.Loading()
	data["SyncError"] = h.Banner.Take()
	data["Settings"] = h.Live.Settings()
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// flashAndRedirect records one flash message and bounces to target.
func (h *AdminHandler) flashAndRedirect(w http.ResponseWriter, r *http.Request, kind, msg, target string) {
	session, _ := h.SessionStore.Get(r, "admin-session")
	session.AddFlash(FlashMessage{Type: kind, Message: msg})
	session.Save(r, w)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Dashboard shows collection counts, the current month's finances, the
// yearly trend and the inventory stock value, all off the live snapshot.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	bookings := h.Live.Bookings()
	expenses := h.Live.Expenses()
	inventory := h.Live.Inventory()

	now := time.Now()
	pending := 0
	for _, b := range bookings {
		if b.Status == models.BookingPending {
			pending++
		}
	}

	h.render(w, r, "admin.html", map[string]interface{}{
		"PortfolioCount":  len(h.Live.Portfolio()),
		"ShowroomCount":   len(h.Live.Showroom()),
		"SpecialsCount":   len(h.Live.Specials()),
		"BookingCount":    len(bookings),
		"PendingBookings": pending,
		"Month":           finance.Summarize(bookings, expenses, now.Year(), now.Month()),
		"Trend":           finance.Trend(bookings, expenses, now.Year()),
		"StockValue":      finance.StockValue(inventory),
	})
}

// ClearAll wipes every collection. The typed confirmation phrase is a
// hard precondition; without it the gateway refuses the operation.
func (h *AdminHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	confirmed := r.FormValue("confirm_phrase") == "DELETE ALL DATA"
	if err := h.Gateway.ClearAll(confirmed); err != nil {
		if err == livesync.ErrNotConfirmed {
			h.flashAndRedirect(w, r, "error", "Type the confirmation phrase exactly to wipe all data.", "/admin/settings")
			return
		}
		h.flashAndRedirect(w, r, "error", "Wipe did not complete: "+err.Error(), "/admin/settings")
		return
	}
	h.flashAndRedirect(w, r, "success", "All collections cleared.", "/admin")
}

package handlers

import (
	"net/http"

	"github.com/dkrauss/inkwell/internal/blob"
	"github.com/dkrauss/inkwell/internal/livesync"
	"github.com/dkrauss/inkwell/internal/models"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

// carouselSize is the fallback count when no portfolio item is flagged
// featured.
const carouselSize = 6

type PublicHandler struct {
	Live         *livesync.Manager
	Gateway      *livesync.Gateway
	Uploads      *blob.Store
	SessionStore *sessions.CookieStore
	Templates    *TemplateCache
	Banner       *SyncBanner
}

func (h *PublicHandler) render(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) {
	tmpl := h.Templates.Get(name)
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "public-session")
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

// Index renders the homepage: the featured carousel, current specials
// and the marketing sections driven by the settings document.
func (h *PublicHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	portfolio := h.Live.Portfolio()
	h.render(w, r, "home.html", map[string]interface{}{
		"Carousel":  models.FeaturedOrFirst(portfolio, carouselSize),
		"Portfolio": portfolio,
		"Specials":  h.Live.Specials(),
	})
}

func (h *PublicHandler) Showroom(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "showroom.html", map[string]interface{}{
		"Genres": h.Live.Showroom(),
	})
}

func (h *PublicHandler) Specials(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "specials.html", map[string]interface{}{
		"Specials": h.Live.Specials(),
	})
}

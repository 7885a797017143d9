package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dkrauss/inkwell/internal/models"
	"github.com/dkrauss/inkwell/internal/store"
)

func (h *AdminHandler) ListSpecials(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin_specials.html", map[string]interface{}{
		"Specials": h.Live.Specials(),
	})
}

func (h *AdminHandler) SaveSpecial(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		h.flashAndRedirect(w, r, "error", "Upload too large. Max 10MB.", "/admin/specials")
		return
	}

	id := r.FormValue("id")
	priceValue, _ := strconv.ParseFloat(r.FormValue("price_value"), 64)

	var details []string
	for _, line := range strings.Split(r.FormValue("details"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			details = append(details, line)
		}
	}

	special := models.SpecialItem{
		ID:          id,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		PriceType:   models.PriceType(r.FormValue("price_type")),
		PriceValue:  priceValue,
		Details:     details,
		VoucherCode: strings.TrimSpace(r.FormValue("voucher_code")),
	}

	if id != "" {
		if existing, ok := findSpecial(h.Live.Specials(), id); ok {
			special.ImageURL = existing.ImageURL
		}
	}
	if file, header, err := r.FormFile("image"); err == nil {
		url, err := h.Uploads.SaveImage(file, header.Filename)
		file.Close()
		if err != nil {
			h.flashAndRedirect(w, r, "error", "Image: "+err.Error(), "/admin/specials")
			return
		}
		special.ImageURL = url
	}

	var err error
	if id == "" {
		_, err = h.Gateway.Create(store.CollectionSpecials, &special)
	} else {
		err = h.Gateway.Update(store.CollectionSpecials, id, &special)
	}
	if err != nil {
		h.flashAndRedirect(w, r, "error", err.Error(), "/admin/specials")
		return
	}
	h.flashAndRedirect(w, r, "success", "Special saved.", "/admin/specials")
}

func (h *AdminHandler) DeleteSpecial(w http.ResponseWriter, r *http.Request) {
	if err := h.Gateway.Delete(store.CollectionSpecials, r.FormValue("id")); err != nil {
		h.flashAndRedirect(w, r, "error", "Delete failed: "+err.Error(), "/admin/specials")
		return
	}
	h.flashAndRedirect(w, r, "success", "Special deleted.", "/admin/specials")
}

func findSpecial(specials []models.SpecialItem, id string) (models.SpecialItem, bool) {
	for _, s := range specials {
		if s.ID == id {
			return s, true
		}
	}
	return models.SpecialItem{}, false
}

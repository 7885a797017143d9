package handlers

import (
	"net/http"

	"github.com/dkrauss/inkwell/internal/models"
	"github.com/dkrauss/inkwell/internal/store"
)

func (h *AdminHandler) ListPortfolio(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin_portfolio.html", map[string]interface{}{
		"Items": h.Live.Portfolio(),
	})
}

func (h *AdminHandler) PortfolioForm(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{}
	if id := r.URL.Query().Get("id"); id != "" {
		item, ok := findPortfolio(h.Live.Portfolio(), id)
		if !ok {
			http.Error(w, "Item not found", http.StatusNotFound)
			return
		}
		data["Item"] = item
	}
	h.render(w, r, "admin_portfolio_form.html", data)
}

// SavePortfolio handles both create and update; an id field in the form
// selects update.
func (h *AdminHandler) SavePortfolio(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.flashAndRedirect(w, r, "error", "Upload too large. Max 32MB.", "/admin/portfolio")
		return
	}

	id := r.FormValue("id")
	item := models.PortfolioItem{
		ID:       id,
		Title:    r.FormValue("title"),
		Story:    r.FormValue("story"),
		Featured: r.FormValue("featured") == "on",
	}

	// Keep existing media on update unless new files replace them.
	if id != "" {
		if existing, ok := findPortfolio(h.Live.Portfolio(), id); ok {
			item.PrimaryImage = existing.PrimaryImage
			item.GalleryImages = existing.GalleryImages
			item.VideoData = existing.VideoData
			item.CreatedAt = existing.CreatedAt
		}
	}

	if file, header, err := r.FormFile("primary_image"); err == nil {
		url, err := h.Uploads.SaveImage(file, header.Filename)
		file.Close()
		if err != nil {
			h.flashAndRedirect(w, r, "error", "Primary image: "+err.Error(), "/admin/portfolio")
			return
		}
		item.PrimaryImage = url
	}
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["gallery_images"] {
			file, err := header.Open()
			if err != nil {
				continue
			}
			url, err := h.Uploads.SaveImage(file, header.Filename)
			file.Close()
			if err != nil {
				h.flashAndRedirect(w, r, "error", "Gallery image: "+err.Error(), "/admin/portfolio")
				return
			}
			item.GalleryImages = append(item.GalleryImages, url)
		}
	}
	if file, header, err := r.FormFile("video"); err == nil {
		url, err := h.Uploads.SaveFile(file, header.Filename)
		file.Close()
		if err != nil {
			h.flashAndRedirect(w, r, "error", "Video upload: "+err.Error(), "/admin/portfolio")
			return
		}
		item.VideoData = url
	}

	var err error
	if id == "" {
		_, err = h.Gateway.Create(store.CollectionPortfolio, &item)
	} else {
		err = h.Gateway.Update(store.CollectionPortfolio, id, &item)
	}
	if err != nil {
		h.flashAndRedirect(w, r, "error", err.Error(), "/admin/portfolio")
		return
	}
	h.flashAndRedirect(w, r, "success", "Portfolio item saved.", "/admin/portfolio")
}

func (h *AdminHandler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	if err := h.Gateway.Delete(store.CollectionPortfolio, r.FormValue("id")); err != nil {
		h.flashAndRedirect(w, r, "error", "Delete failed: "+err.Error(), "/admin/portfolio")
		return
	}
	h.flashAndRedirect(w, r, "success", "Portfolio item deleted.", "/admin/portfolio")
}

func findPortfolio(items []models.PortfolioItem, id string) (models.PortfolioItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return models.PortfolioItem{}, false
}

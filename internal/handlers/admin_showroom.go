package handlers

import (
	"net/http"

	"github.com/dkrauss/inkwell/internal/models"
	"github.com/dkrauss/inkwell/internal/store"
	"github.com/google/uuid"
)

func (h *AdminHandler) ListShowroom(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin_showroom.html", map[string]interface{}{
		"Genres":    h.Live.Showroom(),
		"Portfolio": h.Live.Portfolio(),
	})
}

func (h *AdminHandler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	genre := models.ShowroomGenre{Name: r.FormValue("name")}
	if _, err := h.Gateway.Create(store.CollectionShowroom, &genre); err != nil {
		h.flashAndRedirect(w, r, "error", err.Error(), "/admin/showroom")
		return
	}
	h.flashAndRedirect(w, r, "success", "Genre created.", "/admin/showroom")
}

func (h *AdminHandler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	if err := h.Gateway.Delete(store.CollectionShowroom, r.FormValue("id")); err != nil {
		h.flashAndRedirect(w, r, "error", "Delete failed: "+err.Error(), "/admin/showroom")
		return
	}
	h.flashAndRedirect(w, r, "success", "Genre deleted.", "/admin/showroom")
}

// AddGenreItem copies a portfolio piece into a genre. The copy is taken
// at add-time; later portfolio edits do not reach it.
func (h *AdminHandler) AddGenreItem(w http.ResponseWriter, r *http.Request) {
	genreID := r.FormValue("genre_id")
	genre, ok := findGenre(h.Live.Showroom(), genreID)
	if !ok {
		http.Error(w, "Genre not found", http.StatusNotFound)
		return
	}

	source, ok := findPortfolio(h.Live.Portfolio(), r.FormValue("portfolio_id"))
	if !ok {
		h.flashAndRedirect(w, r, "error", "Portfolio item not found.", "/admin/showroom")
		return
	}

	images := append([]string{source.PrimaryImage}, source.GalleryImages...)
	if len(images) > models.MaxShowroomImages {
		images = images[:models.MaxShowroomImages]
	}
	genre.Items = append(genre.Items, models.ShowroomItem{
		ID:       uuid.New().String(),
		Title:    source.Title,
		Images:   images,
		VideoURL: source.VideoData,
	})

	if err := h.Gateway.Update(store.CollectionShowroom, genreID, &genre); err != nil {
		h.flashAndRedirect(w, r, "error", err.Error(), "/admin/showroom")
		return
	}
	h.flashAndRedirect(w, r, "success", "Added to "+genre.Name+".", "/admin/showroom")
}

func (h *AdminHandler) RemoveGenreItem(w http.ResponseWriter, r *http.Request) {
	genreID := r.FormValue("genre_id")
	genre, ok := findGenre(h.Live.Showroom(), genreID)
	if !ok {
		http.Error(w, "Genre not found", http.StatusNotFound)
		return
	}

	itemID := r.FormValue("item_id")
	kept := make([]models.ShowroomItem, 0, len(genre.Items))
	for _, it := range genre.Items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	genre.Items = kept

	if err := h.Gateway.Update(store.CollectionShowroom, genreID, &genre); err != nil {
		h.flashAndRedirect(w, r, "error", err.Error(), "/admin/showroom")
		return
	}
	h.flashAndRedirect(w, r, "success", "Item removed.", "/admin/showroom")
}

func findGenre(genres []models.ShowroomGenre, id string) (models.ShowroomGenre, bool) {
	for _, g := range genres {
		if g.ID == id {
			return g, true
		}
	}
	return models.ShowroomGenre{}, false
}

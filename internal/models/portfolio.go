package models

import (
	"errors"
	"fmt"
	"time"
)

// MaxShowroomImages caps the gallery size of a single showroom piece.
// The backing store never enforces this, so it is validated here.
const MaxShowroomImages = 5

type PortfolioItem struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Story         string    `json:"story"`
	PrimaryImage  string    `json:"primary_image"`
	GalleryImages []string  `json:"gallery_images"`
	VideoData     string    `json:"video_data,omitempty"`
	Featured      bool      `json:"featured"`
	CreatedAt     time.Time `json:"created_at"`
}

func (p *PortfolioItem) Validate() error {
	if p.Title == "" {
		return errors.New("portfolio item requires a title")
	}
	if p.PrimaryImage == "" {
		return errors.New("portfolio item requires a primary image")
	}
	return nil
}

// FeaturedOrFirst returns the items flagged for the homepage carousel.
// When nothing is flagged, the first n items stand in so the carousel
// is never empty on a populated portfolio.
func FeaturedOrFirst(items []PortfolioItem, n int) []PortfolioItem {
	var featured []PortfolioItem
	for _, it := range items {
		if it.Featured {
			featured = append(featured, it)
		}
	}
	if len(featured) > 0 {
		return featured
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}

// ShowroomItem is a display piece inside a genre. Items added from the
// portfolio are full copies taken at add-time; later edits to the source
// portfolio item do not propagate here.
type ShowroomItem struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Images   []string `json:"images"`
	VideoURL string   `json:"video_url,omitempty"`
}

func (s *ShowroomItem) Validate() error {
	if s.Title == "" {
		return errors.New("showroom item requires a title")
	}
	if len(s.Images) > MaxShowroomImages {
		return fmt.Errorf("showroom item %q has %d images, max is %d", s.Title, len(s.Images), MaxShowroomImages)
	}
	return nil
}

type ShowroomGenre struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Items []ShowroomItem `json:"items"`
}

func (g *ShowroomGenre) Validate() error {
	if g.Name == "" {
		return errors.New("showroom genre requires a name")
	}
	for i := range g.Items {
		if err := g.Items[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

type PriceType string

const (
	PriceHourly     PriceType = "hourly"
	PriceFixed      PriceType = "fixed"
	PricePercentage PriceType = "percentage"
	PriceNone       PriceType = "none"
)

type SpecialItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	PriceType   PriceType `json:"price_type"`
	PriceValue  float64   `json:"price_value,omitempty"`
	Details     []string  `json:"details"`
	VoucherCode string    `json:"voucher_code,omitempty"`
}

func (s *SpecialItem) Validate() error {
	if s.Title == "" {
		return errors.New("special requires a title")
	}
	switch s.PriceType {
	case PriceHourly, PriceFixed, PricePercentage:
		if s.PriceValue <= 0 {
			return fmt.Errorf("special %q with price type %s requires a positive price value", s.Title, s.PriceType)
		}
	case PriceNone:
	default:
		return fmt.Errorf("invalid price type %q", s.PriceType)
	}
	// Voucher codes only mean anything on percentage promotions.
	if s.VoucherCode != "" && s.PriceType != PricePercentage {
		return fmt.Errorf("special %q carries a voucher code but price type is %s", s.Title, s.PriceType)
	}
	return nil
}

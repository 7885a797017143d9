package handlers

import (
	"net/http"
	"strings"

	"github.com/dkrauss/inkwell/internal/models"
	"github.com/google/uuid"
)

func (h *AdminHandler) SettingsForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin_settings.html", nil)
}

// SaveSettings merge-writes only the fields present in the submitted
// form; fields the form omits keep their stored value.
func (h *AdminHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		h.flashAndRedirect(w, r, "error", "Upload too large. Max 10MB.", "/admin/settings")
		return
	}

	var patch models.SettingsPatch
	field := func(name string) *string {
		if !r.Form.Has(name) {
			return nil
		}
		v := strings.TrimSpace(r.FormValue(name))
		return &v
	}
	patch.CompanyName = field("company_name")
	patch.Tagline = field("tagline")
	patch.AboutText = field("about_text")
	patch.ContactEmail = field("contact_email")
	patch.ContactPhone = field("contact_phone")
	patch.WhatsAppNumber = field("whatsapp_number")
	patch.Address = field("address")
	patch.OpeningHours = field("opening_hours")
	patch.BankName = field("bank_name")
	patch.AccountHolder = field("account_holder")
	patch.AccountNumber = field("account_number")
	patch.BranchCode = field("branch_code")
	patch.DepositNote = field("deposit_note")
	patch.BookingNotice = field("booking_notice")
	patch.FooterText = field("footer_text")

	if file, header, err := r.FormFile("logo"); err == nil {
		url, err := h.Uploads.SaveImage(file, header.Filename)
		file.Close()
		if err != nil {
			h.flashAndRedirect(w, r, "error", "Logo upload: "+err.Error(), "/admin/settings")
			return
		}
		patch.LogoURL = &url
	}

	// Social links are submitted as parallel url/icon columns and
	// replace the stored list when present.
	if urls, ok := r.Form["social_url"]; ok {
		icons := r.Form["social_icon"]
		var links []models.SocialLink
		for i, u := range urls {
			u = strings.TrimSpace(u)
			if u == "" {
				continue
			}
			icon := ""
			if i < len(icons) {
				icon = icons[i]
			}
			links = append(links, models.SocialLink{ID: uuid.New().String(), URL: u, Icon: icon})
		}
		patch.SocialLinks = &links
	}

	if err := h.Gateway.SaveSettings(patch); err != nil {
		h.flashAndRedirect(w, r, "error", "Settings save failed: "+err.Error(), "/admin/settings")
		return
	}
	h.flashAndRedirect(w, r, "success", "Settings saved.", "/admin/settings")
}

package models

type SocialLink struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Icon string `json:"icon"`
}

// SiteSettings is the singleton configuration document behind every page
// header, footer and invoice block. It is merged on save, never replaced.
type SiteSettings struct {
	CompanyName    string       `json:"company_name"`
	LogoURL        string       `json:"logo_url"`
	Tagline        string       `json:"tagline"`
	AboutText      string       `json:"about_text"`
	ContactEmail   string       `json:"contact_email"`
	ContactPhone   string       `json:"contact_phone"`
	WhatsAppNumber string       `json:"whatsapp_number"`
	Address        string       `json:"address"`
	OpeningHours   string       `json:"opening_hours"`
	BankName       string       `json:"bank_name"`
	AccountHolder  string       `json:"account_holder"`
	AccountNumber  string       `json:"account_number"`
	BranchCode     string       `json:"branch_code"`
	DepositNote    string       `json:"deposit_note"`
	BookingNotice  string       `json:"booking_notice"`
	FooterText     string       `json:"footer_text"`
	SocialLinks    []SocialLink `json:"social_links"`
}

// SettingsPatch carries a partial settings update. Nil fields are left
// untouched by Merge; set fields overwrite, including to empty strings.
type SettingsPatch struct {
	CompanyName    *string       `json:"company_name,omitempty"`
	LogoURL        *string       `json:"logo_url,omitempty"`
	Tagline        *string       `json:"tagline,omitempty"`
	AboutText      *string       `json:"about_text,omitempty"`
	ContactEmail   *string       `json:"contact_email,omitempty"`
	ContactPhone   *string       `json:"contact_phone,omitempty"`
	WhatsAppNumber *string       `json:"whatsapp_number,omitempty"`
	Address        *string       `json:"address,omitempty"`
	OpeningHours   *string       `json:"opening_hours,omitempty"`
	BankName       *string       `json:"bank_name,omitempty"`
	AccountHolder  *string       `json:"account_holder,omitempty"`
	AccountNumber  *string       `json:"account_number,omitempty"`
	BranchCode     *string       `json:"branch_code,omitempty"`
	DepositNote    *string       `json:"deposit_note,omitempty"`
	BookingNotice  *string       `json:"booking_notice,omitempty"`
	FooterText     *string       `json:"footer_text,omitempty"`
	SocialLinks    *[]SocialLink `json:"social_links,omitempty"`
}

// Fields flattens the patch to the top-level fields it actually sets,
// keyed by their document field names. This is what the store's merge
// write consumes.
func (p SettingsPatch) Fields() map[string]any {
	out := make(map[string]any)
	set := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}
	set("company_name", p.CompanyName)
	set("logo_url", p.LogoURL)
	set("tagline", p.Tagline)
	set("about_text", p.AboutText)
	set("contact_email", p.ContactEmail)
	set("contact_phone", p.ContactPhone)
	set("whatsapp_number", p.WhatsAppNumber)
	set("address", p.Address)
	set("opening_hours", p.OpeningHours)
	set("bank_name", p.BankName)
	set("account_holder", p.AccountHolder)
	set("account_number", p.AccountNumber)
	set("branch_code", p.BranchCode)
	set("deposit_note", p.DepositNote)
	set("booking_notice", p.BookingNotice)
	set("footer_text", p.FooterText)
	if p.SocialLinks != nil {
		out["social_links"] = *p.SocialLinks
	}
	return out
}

// Merge applies the patch over base and returns the result. Unset patch
// fields leave the base value in place.
func Merge(base SiteSettings, p SettingsPatch) SiteSettings {
	apply := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	apply(&base.CompanyName, p.CompanyName)
	apply(&base.LogoURL, p.LogoURL)
	apply(&base.Tagline, p.Tagline)
	apply(&base.AboutText, p.AboutText)
	apply(&base.ContactEmail, p.ContactEmail)
	apply(&base.ContactPhone, p.ContactPhone)
	apply(&base.WhatsAppNumber, p.WhatsAppNumber)
	apply(&base.Address, p.Address)
	apply(&base.OpeningHours, p.OpeningHours)
	apply(&base.BankName, p.BankName)
	apply(&base.AccountHolder, p.AccountHolder)
	apply(&base.AccountNumber, p.AccountNumber)
	apply(&base.BranchCode, p.BranchCode)
	apply(&base.DepositNote, p.DepositNote)
	apply(&base.BookingNotice, p.BookingNotice)
	apply(&base.FooterText, p.FooterText)
	if p.SocialLinks != nil {
		base.SocialLinks = *p.SocialLinks
	}
	return base
}

package models

import (
	"testing"
	"time"
)

func TestShowroomItemImageCap(t *testing.T) {
	item := ShowroomItem{
		Title:  "Blackwork sleeve",
		Images: []string{"a", "b", "c", "d", "e"},
	}
	if err := item.Validate(); err != nil {
		t.Fatalf("five images should be allowed: %v", err)
	}

	item.Images = append(item.Images, "f")
	if err := item.Validate(); err == nil {
		t.Fatalf("expected validation error for six images")
	}
}

func TestSpecialVoucherOnlyOnPercentage(t *testing.T) {
	s := SpecialItem{
		Title:       "Flash Friday",
		PriceType:   PricePercentage,
		PriceValue:  20,
		VoucherCode: "FLASH20",
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("voucher on percentage special should validate: %v", err)
	}

	s.PriceType = PriceFixed
	s.PriceValue = 500
	if err := s.Validate(); err == nil {
		t.Fatalf("expected error: voucher code on a fixed-price special")
	}
}

func TestSpecialRequiresPriceValue(t *testing.T) {
	s := SpecialItem{Title: "Hourly", PriceType: PriceHourly}
	if err := s.Validate(); err == nil {
		t.Fatalf("expected error for hourly special without price value")
	}

	s = SpecialItem{Title: "Walk-ins", PriceType: PriceNone}
	if err := s.Validate(); err != nil {
		t.Fatalf("price type none needs no value: %v", err)
	}
}

func TestFeaturedOrFirst(t *testing.T) {
	items := []PortfolioItem{
		{ID: "1", Title: "one"},
		{ID: "2", Title: "two", Featured: true},
		{ID: "3", Title: "three"},
	}
	got := FeaturedOrFirst(items, 2)
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("expected only the featured item, got %v", got)
	}

	items[1].Featured = false
	got = FeaturedOrFirst(items, 2)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("expected first two items as fallback, got %v", got)
	}
}

func TestNewPublicBookingDefaults(t *testing.T) {
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	b := NewPublicBooking("Jane", "jane@x.com", "", "", "Rose on forearm", date, nil)

	if b.Status != BookingPending {
		t.Fatalf("public booking must start pending, got %s", b.Status)
	}
	if b.BookingType != BookingOnline {
		t.Fatalf("public booking must be typed online, got %s", b.BookingType)
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("valid public booking rejected: %v", err)
	}
}

func TestSettingsMergeSubset(t *testing.T) {
	base := SiteSettings{
		CompanyName:  "Inkwell Studio",
		ContactEmail: "hello@inkwell.example",
		ContactPhone: "012 345 6789",
	}
	phone := "098 765 4321"
	merged := Merge(base, SettingsPatch{ContactPhone: &phone})

	if merged.ContactPhone != phone {
		t.Fatalf("patched field not applied: %q", merged.ContactPhone)
	}
	if merged.CompanyName != base.CompanyName || merged.ContactEmail != base.ContactEmail {
		t.Fatalf("unpatched fields changed: %+v", merged)
	}
}

func TestSettingsMergeFullSet(t *testing.T) {
	name := "New Name"
	email := "new@x.com"
	links := []SocialLink{{ID: "1", URL: "https://ig.example/inkwell", Icon: "instagram"}}
	merged := Merge(SiteSettings{CompanyName: "Old"}, SettingsPatch{
		CompanyName:  &name,
		ContactEmail: &email,
		SocialLinks:  &links,
	})
	if merged.CompanyName != name || merged.ContactEmail != email {
		t.Fatalf("full patch not applied: %+v", merged)
	}
	if len(merged.SocialLinks) != 1 || merged.SocialLinks[0].URL != links[0].URL {
		t.Fatalf("social links not replaced: %+v", merged.SocialLinks)
	}
}

func TestSettingsPatchFields(t *testing.T) {
	name := "Inkwell"
	empty := ""
	fields := SettingsPatch{CompanyName: &name, Tagline: &empty}.Fields()

	if fields["company_name"] != "Inkwell" {
		t.Fatalf("expected company_name set, got %v", fields)
	}
	if v, ok := fields["tagline"]; !ok || v != "" {
		t.Fatalf("explicit empty string must be included in the patch, got %v", fields)
	}
	if _, ok := fields["contact_email"]; ok {
		t.Fatalf("unset field leaked into patch: %v", fields)
	}
}

package models

import "time"

type Settings struct {
	LogoURL                      string    `db:"logo_url"                        json:"logo_url"`
	LogoText                     string    `db:"logo_text"                       json:"logo_text"`
	UseLogoImage                 bool      `db:"use_logo_image"                  json:"use_logo_image"`
	LogoWidth                    int       `db:"logo_width"                      json:"logo_width"`
	FaviconURL                   string    `db:"favicon_url"                     json:"favicon_url"`
	ContactEmail                 string    `db:"contact_email"                   json:"contact_email"`
	WhatsAppNumber               string    `db:"whatsapp_number"                 json:"whatsapp_number"`
	GoogleAnalyticsID            string    `db:"google_analytics_id"             json:"google_analytics_id"`
	GoogleAnalyticsMeasurementID string    `db:"google_analytics_measurement_id" json:"google_analytics_measurement_id"`
	HeroHeading                  string    `db:"hero_heading"                    json:"hero_heading"`
	HeroParagraph                string    `db:"hero_paragraph"                  json:"hero_paragraph"`
	SupportedDevicesParagraph    string    `db:"supported_devices_paragraph"     json:"supported_devices_paragraph"`
	UpdatedAt                    time.Time `db:"updated_at"                      json:"updated_at"`
}

// UpdateSettingsRequest is a partial update of the singleton settings row.
type UpdateSettingsRequest struct {
	LogoURL                      *string `json:"logo_url,omitempty"`
	LogoText                     *string `json:"logo_text,omitempty"`
	UseLogoImage                 *bool   `json:"use_logo_image,omitempty"`
	LogoWidth                    *int    `json:"logo_width,omitempty"`
	FaviconURL                   *string `json:"favicon_url,omitempty"`
	ContactEmail                 *string `json:"contact_email,omitempty"`
	WhatsAppNumber               *string `json:"whatsapp_number,omitempty"`
	GoogleAnalyticsID            *string `json:"google_analytics_id,omitempty"`
	GoogleAnalyticsMeasurementID *string `json:"google_analytics_measurement_id,omitempty"`
	HeroHeading                  *string `json:"hero_heading,omitempty"`
	HeroParagraph                *string `json:"hero_paragraph,omitempty"`
	SupportedDevicesParagraph    *string `json:"supported_devices_paragraph,omitempty"`
}

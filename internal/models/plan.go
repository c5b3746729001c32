package models

import "time"

type Plan struct {
	ID           int64     `db:"id"            json:"id"`
	DeviceTab    string    `db:"device_tab"    json:"device_tab"`
	Name         string    `db:"name"          json:"name"`
	Price        string    `db:"price"         json:"price"`
	Features     []string  `db:"features"      json:"features"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	IsFeatured   bool      `db:"is_featured"   json:"is_featured"`
	BuyLink      *string   `db:"buy_link"      json:"buy_link"`
	UseWhatsApp  bool      `db:"use_whatsapp"  json:"use_whatsapp"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"    json:"updated_at"`
}

type CreatePlanRequest struct {
	DeviceTab    string   `json:"device_tab"    example:"2 Devices"`
	Name         string   `json:"name"          example:"12 Months"`
	Price        string   `json:"price"         example:"59.99"`
	Features     []string `json:"features"`
	DisplayOrder int      `json:"display_order"`
	IsFeatured   bool     `json:"is_featured"`
	BuyLink      *string  `json:"buy_link"`
	UseWhatsApp  bool     `json:"use_whatsapp"`
}

// UpdatePlanRequest is a partial update; nil fields are left untouched.
type UpdatePlanRequest struct {
	DeviceTab    *string   `json:"device_tab,omitempty"`
	Name         *string   `json:"name,omitempty"`
	Price        *string   `json:"price,omitempty"`
	Features     *[]string `json:"features,omitempty"`
	DisplayOrder *int      `json:"display_order,omitempty"`
	IsFeatured   *bool     `json:"is_featured,omitempty"`
	BuyLink      *string   `json:"buy_link,omitempty"`
	UseWhatsApp  *bool     `json:"use_whatsapp,omitempty"`
}

func (r UpdatePlanRequest) Empty() bool {
	return r.DeviceTab == nil && r.Name == nil && r.Price == nil && r.Features == nil &&
		r.DisplayOrder == nil && r.IsFeatured == nil && r.BuyLink == nil && r.UseWhatsApp == nil
}

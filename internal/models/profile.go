package models

import "time"

// Profile is the public face of a provider. Clients reach it through Slug.
type Profile struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"uniqueIndex" json:"user_id"`
	Name   string `gorm:"size:100;not null" json:"name"`
	Slug   string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone  string `gorm:"size:20" json:"phone"`

	ServiceType string `gorm:"size:60" json:"service_type"`
	Timezone    string `gorm:"size:60;default:'America/Sao_Paulo'" json:"timezone"`
	PhotoURL    string `gorm:"size:255" json:"photo_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

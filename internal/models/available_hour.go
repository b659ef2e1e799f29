package models

import "time"

// AvailableHour is a recurring weekly window. DayOfWeek follows time.Weekday (0 = Sunday).
type AvailableHour struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ProfileID uint `gorm:"index" json:"profile_id"`

	DayOfWeek       int    `json:"day_of_week"`
	StartTime       string `gorm:"size:5;not null" json:"start_time"`
	EndTime         string `gorm:"size:5;not null" json:"end_time"`
	IntervalMinutes int    `gorm:"default:30" json:"interval_minutes"`
	Active          bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

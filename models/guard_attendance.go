package models

import "time"

// GuardAttendance keeps one row per guard per calendar day
type GuardAttendance struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	GuardID        uint       `gorm:"not null;index" json:"guard_id"`
	AttendanceDate time.Time  `gorm:"type:date;not null;index" json:"attendance_date"`
	CheckInTime    *time.Time `json:"check_in_time"`
	CheckOutTime   *time.Time `json:"check_out_time"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relations
	Guard *Guard `gorm:"foreignKey:GuardID" json:"guard,omitempty"`
}

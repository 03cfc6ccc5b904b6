package models

import "time"

// Package status values
const (
	PackageStatusPending   = "Pending"
	PackageStatusDelivered = "Delivered"
)

// PackageItem represents a parcel registered for a flat and handed over at
// the gate. Two paths reach Delivered: the OTP-verified hand-off to the
// resident and the guard's direct status override (receipt into building).
type PackageItem struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	TrackingNumber string     `gorm:"type:varchar(50);not null;index" json:"tracking_number"`
	Description    string     `gorm:"type:varchar(200)" json:"description"`
	Sender         string     `gorm:"type:varchar(100)" json:"sender"`
	ResidentName   string     `gorm:"type:varchar(50)" json:"resident_name"`
	FlatNo         string     `gorm:"type:varchar(20);not null;index" json:"flat_no"`
	Status         string     `gorm:"type:varchar(10);not null;default:'Pending';index" json:"status"`
	ExpectedDate   time.Time  `gorm:"type:date" json:"expected_date"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	DeliveryOtp    string     `gorm:"type:varchar(10)" json:"delivery_otp,omitempty"` // 静态共享口令，送达后不可变
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

package models

import "time"

// Access log actions
const (
	AccessActionVisitorCheckIn   = "VISITOR_CHECKIN"
	AccessActionQRCheckIn        = "QR_CHECKIN"
	AccessActionQRCheckOut       = "QR_CHECKOUT"
	AccessActionPackageDelivered = "PACKAGE_DELIVERED"
)

// AccessLog records gate events for later audit: visitor check-ins and
// package hand-offs, with the path that produced them
type AccessLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Action    string    `gorm:"type:varchar(30);not null;index" json:"action"`
	EntityID  uint      `gorm:"not null" json:"entity_id"` // 对应 Visitor/QRVisitor/PackageItem 的ID
	FlatNo    string    `gorm:"type:varchar(20);index" json:"flat_no"`
	Detail    string    `gorm:"type:varchar(200)" json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

package models

import "time"

// Visit status values
const (
	VisitStatusPending   = "PENDING"
	VisitStatusApproved  = "APPROVED"
	VisitStatusDeclined  = "DECLINED"
	VisitStatusCompleted = "COMPLETED"
)

// Visitor represents a gate visit request, created either by a resident
// (scheduled in advance) or by a guard (walk-in at the gate)
type Visitor struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Name              string     `gorm:"type:varchar(50);not null" json:"name"`
	FlatNo            string     `gorm:"type:varchar(20);not null;index" json:"flat_no"`
	Relation          string     `gorm:"type:varchar(30)" json:"relation"`
	Purpose           string     `gorm:"type:varchar(100)" json:"purpose"`
	VisitDate         *time.Time `gorm:"type:date;index" json:"visit_date"`
	TimeSlot          string     `gorm:"type:varchar(20)" json:"time_slot,omitempty"`
	Status            string     `gorm:"type:varchar(10);not null;default:'PENDING';index" json:"status"`
	ApprovedBy        string     `gorm:"type:varchar(50)" json:"approved_by,omitempty"`
	ApprovedAt        *time.Time `json:"approved_at,omitempty"`
	CheckInTime       *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime      *time.Time `json:"check_out_time,omitempty"`
	CreatedByResident bool       `gorm:"default:false" json:"created_by_resident"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// IsTerminal 已拒绝或已进入的请求不再接受状态变更
func (v *Visitor) IsTerminal() bool {
	return v.Status == VisitStatusDeclined || v.CheckInTime != nil
}

package models

import "time"

// Complaint priority values
const (
	ComplaintPriorityLow    = "Low"
	ComplaintPriorityMedium = "Medium"
	ComplaintPriorityHigh   = "High"
)

// Complaint status values. Assignment promotes Pending to Open; beyond that
// the admin may set any status directly (no transition graph).
const (
	ComplaintStatusPending    = "Pending"
	ComplaintStatusOpen       = "Open"
	ComplaintStatusInProgress = "In Progress"
	ComplaintStatusResolved   = "Resolved"
	ComplaintStatusRejected   = "Rejected"
)

// Complaint represents a resident-filed complaint handled by the admin
type Complaint struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"type:varchar(100);not null" json:"title"`
	Description  string     `gorm:"type:varchar(500)" json:"description"`
	Category     string     `gorm:"type:varchar(30)" json:"category"` // Maintenance, Security, ...
	Priority     string     `gorm:"type:varchar(10);default:'Medium'" json:"priority"`
	Status       string     `gorm:"type:varchar(15);default:'Pending';index" json:"status"`
	ResidentName string     `gorm:"type:varchar(50)" json:"resident_name"`
	FlatNo       string     `gorm:"type:varchar(20);index" json:"flat_no"`
	AssignedTo   string     `gorm:"type:varchar(50)" json:"assigned_to,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// ValidComplaintStatus 检查状态枚举值是否合法
func ValidComplaintStatus(status string) bool {
	switch status {
	case ComplaintStatusPending, ComplaintStatusOpen, ComplaintStatusInProgress,
		ComplaintStatusResolved, ComplaintStatusRejected:
		return true
	}
	return false
}

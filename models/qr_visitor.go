package models

import "time"

// QR pass status values. A pass is born APPROVED because only residents
// can issue one; the plain Visitor flow is where PENDING/DECLINED live.
const (
	QRStatusApproved  = "APPROVED"
	QRStatusCheckedIn = "CHECKED_IN"
	QRStatusCompleted = "COMPLETED"
)

// QRVisitor represents a resident-issued QR entry pass
type QRVisitor struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Name              string     `gorm:"type:varchar(50);not null" json:"name"`
	Purpose           string     `gorm:"type:varchar(100)" json:"purpose"`
	VisitDate         time.Time  `gorm:"type:date;not null;index" json:"visit_date"`
	Relation          string     `gorm:"type:varchar(30)" json:"relation"`
	FlatNo            string     `gorm:"type:varchar(20);not null;index" json:"flat_no"`
	QRCode            string     `gorm:"type:varchar(64);unique;not null" json:"qr_code"` // 不透明令牌，校验时与载荷比对
	Status            string     `gorm:"type:varchar(12);not null;default:'APPROVED'" json:"status"`
	CheckInTime       *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime      *time.Time `json:"check_out_time,omitempty"`
	CreatedByResident bool       `gorm:"default:true" json:"created_by_resident"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// QRPayload is the denormalized snapshot the client embeds in the QR image.
// It is never authoritative: validation re-fetches the record by ID and
// cross-checks every claimed field against server state.
type QRPayload struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	Purpose           string `json:"purpose"`
	VisitDate         string `json:"visitDate"` // YYYY-MM-DD
	Relation          string `json:"relation"`
	FlatNo            string `json:"flatNo"`
	Status            string `json:"status"`
	CreatedByResident bool   `json:"createdByResident"`
	QRCode            string `json:"qrCode"`
}

// Payload 生成嵌入二维码图片的快照
func (q *QRVisitor) Payload() QRPayload {
	return QRPayload{
		ID:                q.ID,
		Name:              q.Name,
		Purpose:           q.Purpose,
		VisitDate:         q.VisitDate.Format("2006-01-02"),
		Relation:          q.Relation,
		FlatNo:            q.FlatNo,
		Status:            q.Status,
		CreatedByResident: q.CreatedByResident,
		QRCode:            q.QRCode,
	}
}

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"securacore-http-service/config"
	"securacore-http-service/internal/error/code"
	"securacore-http-service/models"
	"securacore-http-service/utils"

	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

// 二维码事件名
const (
	QREventCreated    = "qr_pass_created"
	QREventCheckedIn  = "qr_visitor_checked_in"
	QREventCheckedOut = "qr_visitor_checked_out"
)

// QRValidationResult 二维码校验结果，携带可区分的拒绝原因
type QRValidationResult struct {
	Valid   bool              `json:"valid"`
	Reason  string            `json:"reason,omitempty"`
	Visitor *models.QRVisitor `json:"visitor,omitempty"`
}

// InterfaceQRVisitorService defines the QR visitor service interface
type InterfaceQRVisitorService interface {
	CreateQRVisitor(visitor *models.QRVisitor) (*models.QRPayload, error)
	GetQRVisitorByID(id uint) (*models.QRVisitor, error)
	ValidateQRVisitor(payload *models.QRPayload) (*QRValidationResult, error)
	CheckinQRVisitor(id uint) (*models.QRVisitor, error)
	CheckoutQRVisitor(id uint) (*models.QRVisitor, error)
	RenderQRImage(id uint, size int) ([]byte, error)
	GetAllQRVisitors() ([]models.QRVisitor, error)
	GetQRVisitorsByFlat(flatNo string) ([]models.QRVisitor, error)
	GetQRVisitorsByDate(date time.Time) ([]models.QRVisitor, error)
	GetQRVisitorsByFlatAndDate(flatNo string, date time.Time) ([]models.QRVisitor, error)
}

// QRVisitorService 提供二维码访客通行证相关的服务
type QRVisitorService struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  InterfaceRedisService
	Notify InterfaceGateNotifyService
}

// NewQRVisitorService 创建一个新的二维码访客服务
func NewQRVisitorService(db *gorm.DB, cfg *config.Config, redis InterfaceRedisService, notify InterfaceGateNotifyService) InterfaceQRVisitorService {
	return &QRVisitorService{
		DB:     db,
		Config: cfg,
		Redis:  redis,
		Notify: notify,
	}
}

// 1 CreateQRVisitor 住户签发二维码通行证。通行证创建即为APPROVED，
// 返回嵌入二维码图片的快照载荷。
func (s *QRVisitorService) CreateQRVisitor(visitor *models.QRVisitor) (*models.QRPayload, error) {
	if strings.TrimSpace(visitor.Name) == "" || strings.TrimSpace(visitor.FlatNo) == "" {
		return nil, NewServiceError(code.ErrValidation)
	}

	visitor.Status = models.QRStatusApproved
	visitor.CreatedByResident = true
	visitor.QRCode = utils.GenerateQRToken()
	visitor.VisitDate = models.DateOnly(visitor.VisitDate)
	if visitor.VisitDate.IsZero() {
		visitor.VisitDate = models.DateOnly(time.Now())
	}

	if err := s.DB.Create(visitor).Error; err != nil {
		return nil, err
	}

	if s.Notify != nil {
		if err := s.Notify.PublishQRVisitorEvent(QREventCreated, visitor); err != nil {
			log.Printf("推送二维码事件失败: %v", err)
		}
	}

	payload := visitor.Payload()
	return &payload, nil
}

// 2 GetQRVisitorByID 根据ID获取二维码通行证
func (s *QRVisitorService) GetQRVisitorByID(id uint) (*models.QRVisitor, error) {
	var visitor models.QRVisitor
	if err := s.DB.First(&visitor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewServiceError(code.ErrVisitorNotFound)
		}
		return nil, err
	}
	return &visitor, nil
}

// 3 ValidateQRVisitor 校验扫描到的二维码载荷。
// 载荷中的状态/日期一律不可信：按ID重新读取权威记录，
// 逐项核对令牌与身份字段，再检查服务端状态。
func (s *QRVisitorService) ValidateQRVisitor(payload *models.QRPayload) (*QRValidationResult, error) {
	if payload == nil || payload.ID == 0 {
		return &QRValidationResult{Valid: false, Reason: "Invalid QR payload"}, nil
	}

	visitor, err := s.GetQRVisitorByID(payload.ID)
	if err != nil {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) && svcErr.Code == code.ErrVisitorNotFound {
			return &QRValidationResult{Valid: false, Reason: "Visitor Not Found"}, nil
		}
		return nil, err
	}

	// 不透明令牌必须逐字匹配
	if payload.QRCode == "" || payload.QRCode != visitor.QRCode {
		return &QRValidationResult{Valid: false, Reason: "QR code mismatch"}, nil
	}

	// 身份字段与权威记录核对
	if payload.FlatNo != visitor.FlatNo || payload.Relation != visitor.Relation {
		return &QRValidationResult{Valid: false, Reason: "QR payload does not match the stored record"}, nil
	}

	// 仅在访问日当天有效
	if !models.DateOnly(visitor.VisitDate).Equal(models.DateOnly(time.Now())) {
		return &QRValidationResult{Valid: false, Reason: "QR pass is not valid for today"}, nil
	}

	// 单次使用：权威判定是数据库里的入场时间，Redis只是重放快速路径
	if visitor.CheckInTime != nil || (s.Redis != nil && s.Redis.IsQRCodeUsed(visitor.QRCode)) {
		return &QRValidationResult{Valid: false, Reason: "QR pass has already been used"}, nil
	}

	return &QRValidationResult{Valid: true, Visitor: visitor}, nil
}

// 4 CheckinQRVisitor 登记二维码访客入场，单次有效
func (s *QRVisitorService) CheckinQRVisitor(id uint) (*models.QRVisitor, error) {
	visitor, err := s.GetQRVisitorByID(id)
	if err != nil {
		return nil, err
	}

	if visitor.CheckInTime != nil {
		return nil, NewServiceError(code.ErrQRAlreadyUsed)
	}
	if !models.DateOnly(visitor.VisitDate).Equal(models.DateOnly(time.Now())) {
		return nil, NewServiceError(code.ErrQRWrongDate)
	}

	now := time.Now()
	visitor.CheckInTime = &now
	visitor.Status = models.QRStatusCheckedIn
	if err := s.DB.Save(visitor).Error; err != nil {
		return nil, err
	}

	// 令牌标记为已用，保留到当天结束
	if s.Redis != nil {
		endOfDay := models.DateOnly(now).Add(24 * time.Hour)
		if err := s.Redis.MarkQRCodeUsed(visitor.QRCode, endOfDay); err != nil {
			log.Printf("标记二维码已用失败: %v", err)
		}
	}

	s.DB.Create(&models.AccessLog{
		Action:   models.AccessActionQRCheckIn,
		EntityID: visitor.ID,
		FlatNo:   visitor.FlatNo,
		Detail:   fmt.Sprintf("QR visitor %q checked in", visitor.Name),
	})

	if s.Notify != nil {
		if err := s.Notify.PublishQRVisitorEvent(QREventCheckedIn, visitor); err != nil {
			log.Printf("推送二维码事件失败: %v", err)
		}
	}
	return visitor, nil
}

// 5 CheckoutQRVisitor 登记二维码访客离场，终态COMPLETED
func (s *QRVisitorService) CheckoutQRVisitor(id uint) (*models.QRVisitor, error) {
	visitor, err := s.GetQRVisitorByID(id)
	if err != nil {
		return nil, err
	}

	if visitor.CheckInTime == nil {
		return nil, NewServiceError(code.ErrQRNotCheckedIn)
	}
	if visitor.CheckOutTime != nil {
		return nil, NewServiceError(code.ErrQRAlreadyUsed)
	}

	now := time.Now()
	visitor.CheckOutTime = &now
	visitor.Status = models.QRStatusCompleted
	if err := s.DB.Save(visitor).Error; err != nil {
		return nil, err
	}

	s.DB.Create(&models.AccessLog{
		Action:   models.AccessActionQRCheckOut,
		EntityID: visitor.ID,
		FlatNo:   visitor.FlatNo,
		Detail:   fmt.Sprintf("QR visitor %q checked out", visitor.Name),
	})

	if s.Notify != nil {
		if err := s.Notify.PublishQRVisitorEvent(QREventCheckedOut, visitor); err != nil {
			log.Printf("推送二维码事件失败: %v", err)
		}
	}
	return visitor, nil
}

// 6 RenderQRImage 将通行证载荷渲染为PNG二维码图片
func (s *QRVisitorService) RenderQRImage(id uint, size int) ([]byte, error) {
	visitor, err := s.GetQRVisitorByID(id)
	if err != nil {
		return nil, err
	}

	if size <= 0 {
		size = 256
	}

	payload := visitor.Payload()
	content, err := payloadJSON(payload)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}

// payloadJSON 序列化嵌入二维码的载荷
func payloadJSON(payload models.QRPayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// 7 GetAllQRVisitors 获取全部二维码访客历史
func (s *QRVisitorService) GetAllQRVisitors() ([]models.QRVisitor, error) {
	var visitors []models.QRVisitor
	err := s.DB.Order("created_at DESC").Find(&visitors).Error
	return visitors, err
}

// 8 GetQRVisitorsByFlat 按单元查询二维码访客历史
func (s *QRVisitorService) GetQRVisitorsByFlat(flatNo string) ([]models.QRVisitor, error) {
	var visitors []models.QRVisitor
	err := s.DB.Where("flat_no = ?", flatNo).Order("created_at DESC").Find(&visitors).Error
	return visitors, err
}

// 9 GetQRVisitorsByDate 按日期查询二维码访客历史
func (s *QRVisitorService) GetQRVisitorsByDate(date time.Time) ([]models.QRVisitor, error) {
	var visitors []models.QRVisitor
	start, end := dayRange(date)
	err := s.DB.Where("visit_date >= ? AND visit_date < ?", start, end).
		Order("created_at DESC").
		Find(&visitors).Error
	return visitors, err
}

// 10 GetQRVisitorsByFlatAndDate 按单元和日期查询二维码访客历史
func (s *QRVisitorService) GetQRVisitorsByFlatAndDate(flatNo string, date time.Time) ([]models.QRVisitor, error) {
	var visitors []models.QRVisitor
	start, end := dayRange(date)
	err := s.DB.Where("flat_no = ? AND visit_date >= ? AND visit_date < ?", flatNo, start, end).
		Order("created_at DESC").
		Find(&visitors).Error
	return visitors, err
}

package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"securacore-http-service/config"
	"securacore-http-service/internal/error/code"
	"securacore-http-service/models"

	"gorm.io/gorm"
)

// 访客事件名
const (
	VisitorEventApproved  = "visit_approved"
	VisitorEventDeclined  = "visit_declined"
	VisitorEventCheckedIn = "visitor_checked_in"
)

// InterfaceVisitorService defines the visitor workflow service interface
type InterfaceVisitorService interface {
	ScheduleVisit(visitor *models.Visitor) error
	RequestVisit(visitor *models.Visitor) error
	GetVisitorByID(id uint) (*models.Visitor, error)
	ApproveVisit(id uint, approvedBy string) (*models.Visitor, error)
	DeclineVisit(id uint) (*models.Visitor, error)
	CheckinVisitor(id uint) (*models.Visitor, error)
	ValidateVisit(id uint) (bool, string)
	GetPendingRequests(flatNo string) ([]models.Visitor, error)
	GetTodayVisits(flatNo string) ([]models.Visitor, error)
	GetScheduledVisits(flatNo string, date *time.Time) ([]models.Visitor, error)
	GetAllRequests() ([]models.Visitor, error)
	GetVisitorsOn(date time.Time) ([]models.Visitor, error)
	GetFlatVisitors(flatNo string) ([]models.Visitor, error)
	GetActiveVisitors() ([]models.Visitor, error)
}

// VisitorService 提供访客审批流程相关的服务
type VisitorService struct {
	DB     *gorm.DB
	Config *config.Config
	Notify InterfaceGateNotifyService
}

// NewVisitorService 创建一个新的访客服务
func NewVisitorService(db *gorm.DB, cfg *config.Config, notify InterfaceGateNotifyService) InterfaceVisitorService {
	return &VisitorService{
		DB:     db,
		Config: cfg,
		Notify: notify,
	}
}

// validateRequiredFields 服务端校验必填字段（原实现只在客户端校验）
func validateRequiredFields(visitor *models.Visitor) error {
	if strings.TrimSpace(visitor.Name) == "" ||
		strings.TrimSpace(visitor.FlatNo) == "" ||
		strings.TrimSpace(visitor.Purpose) == "" ||
		strings.TrimSpace(visitor.Relation) == "" {
		return NewServiceError(code.ErrValidation)
	}
	return nil
}

// 1 ScheduleVisit 住户预约访客，状态为PENDING
func (s *VisitorService) ScheduleVisit(visitor *models.Visitor) error {
	if err := validateRequiredFields(visitor); err != nil {
		return err
	}

	visitor.Status = models.VisitStatusPending
	visitor.CreatedByResident = true
	if visitor.VisitDate != nil {
		d := models.DateOnly(*visitor.VisitDate)
		visitor.VisitDate = &d
	}
	return s.DB.Create(visitor).Error
}

// 2 RequestVisit 门卫登记到场访客，走同样的创建路径
func (s *VisitorService) RequestVisit(visitor *models.Visitor) error {
	if err := validateRequiredFields(visitor); err != nil {
		return err
	}

	visitor.Status = models.VisitStatusPending
	visitor.CreatedByResident = false
	return s.DB.Create(visitor).Error
}

// 3 GetVisitorByID 根据ID获取访客请求
func (s *VisitorService) GetVisitorByID(id uint) (*models.Visitor, error) {
	var visitor models.Visitor
	if err := s.DB.First(&visitor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewServiceError(code.ErrVisitorNotFound)
		}
		return nil, err
	}
	return &visitor, nil
}

// 4 ApproveVisit 住户批准访客请求。只接受PENDING状态，
// 重复批准或批准已拒绝的请求会返回状态冲突而不是覆盖时间戳。
func (s *VisitorService) ApproveVisit(id uint, approvedBy string) (*models.Visitor, error) {
	visitor, err := s.GetVisitorByID(id)
	if err != nil {
		return nil, err
	}

	if visitor.Status != models.VisitStatusPending {
		return nil, NewServiceError(code.ErrVisitNotPending)
	}

	now := time.Now()
	visitor.Status = models.VisitStatusApproved
	visitor.ApprovedBy = approvedBy
	visitor.ApprovedAt = &now
	// 未填访问日期的到场请求默认为当天
	if visitor.VisitDate == nil {
		today := models.DateOnly(now)
		visitor.VisitDate = &today
	}

	if err := s.DB.Save(visitor).Error; err != nil {
		return nil, err
	}

	s.notifyVisitor(VisitorEventApproved, visitor)
	return visitor, nil
}

// 5 DeclineVisit 住户拒绝访客请求，终态
func (s *VisitorService) DeclineVisit(id uint) (*models.Visitor, error) {
	visitor, err := s.GetVisitorByID(id)
	if err != nil {
		return nil, err
	}

	if visitor.Status != models.VisitStatusPending {
		return nil, NewServiceError(code.ErrVisitNotPending)
	}

	visitor.Status = models.VisitStatusDeclined
	if err := s.DB.Save(visitor).Error; err != nil {
		return nil, err
	}

	s.notifyVisitor(VisitorEventDeclined, visitor)
	return visitor, nil
}

// 6 CheckinVisitor 门卫为已批准的访客登记入场。
// 入场后状态保持APPROVED（check_in_time非空即视为完成），
// 终态由check_in_time非空保证。
func (s *VisitorService) CheckinVisitor(id uint) (*models.Visitor, error) {
	visitor, err := s.GetVisitorByID(id)
	if err != nil {
		return nil, err
	}

	if visitor.Status != models.VisitStatusApproved {
		return nil, NewServiceError(code.ErrVisitNotApproved)
	}
	if visitor.CheckInTime != nil {
		return nil, NewServiceError(code.ErrVisitorAlreadyCheckedIn)
	}

	now := time.Now()
	visitor.CheckInTime = &now
	if err := s.DB.Save(visitor).Error; err != nil {
		return nil, err
	}

	// 审计日志
	s.DB.Create(&models.AccessLog{
		Action:   models.AccessActionVisitorCheckIn,
		EntityID: visitor.ID,
		FlatNo:   visitor.FlatNo,
		Detail:   fmt.Sprintf("visitor %q checked in", visitor.Name),
	})

	s.notifyVisitor(VisitorEventCheckedIn, visitor)
	return visitor, nil
}

// 7 ValidateVisit 门卫查询访客当前是否可入场，只读不改状态
func (s *VisitorService) ValidateVisit(id uint) (bool, string) {
	visitor, err := s.GetVisitorByID(id)
	if err != nil {
		return false, "Visitor Not Found"
	}
	if visitor.Status != models.VisitStatusApproved {
		return false, "Visitor not approved"
	}
	if visitor.VisitDate != nil && !models.DateOnly(*visitor.VisitDate).Equal(models.DateOnly(time.Now())) {
		return false, "Visit is not scheduled for today"
	}
	if visitor.CheckInTime != nil {
		return false, "Visitor already checked in"
	}
	return true, ""
}

// 8 GetPendingRequests 获取某单元当天或未填日期的待审批请求
func (s *VisitorService) GetPendingRequests(flatNo string) ([]models.Visitor, error) {
	var visitors []models.Visitor
	start, end := dayRange(time.Now())
	err := s.DB.Where("flat_no = ? AND status = ?", flatNo, models.VisitStatusPending).
		Where("visit_date IS NULL OR (visit_date >= ? AND visit_date < ?)", start, end).
		Order("created_at DESC").
		Find(&visitors).Error
	return visitors, err
}

// 9 GetTodayVisits 获取某单元当天的全部访客
func (s *VisitorService) GetTodayVisits(flatNo string) ([]models.Visitor, error) {
	var visitors []models.Visitor
	start, end := dayRange(time.Now())
	err := s.DB.Where("flat_no = ? AND visit_date >= ? AND visit_date < ?", flatNo, start, end).
		Order("created_at DESC").
		Find(&visitors).Error
	return visitors, err
}

// 10 GetScheduledVisits 获取住户自己预约的访客，可按日期过滤
func (s *VisitorService) GetScheduledVisits(flatNo string, date *time.Time) ([]models.Visitor, error) {
	query := s.DB.Where("flat_no = ? AND created_by_resident = ?", flatNo, true)
	if date != nil {
		start, end := dayRange(*date)
		query = query.Where("visit_date >= ? AND visit_date < ?", start, end)
	}

	var visitors []models.Visitor
	err := query.Order("created_at DESC").Find(&visitors).Error
	return visitors, err
}

// 11 GetAllRequests 门卫查看全部访客请求
func (s *VisitorService) GetAllRequests() ([]models.Visitor, error) {
	var visitors []models.Visitor
	err := s.DB.Order("created_at DESC").Find(&visitors).Error
	return visitors, err
}

// 12 GetVisitorsOn 管理端按日期查询访客
func (s *VisitorService) GetVisitorsOn(date time.Time) ([]models.Visitor, error) {
	var visitors []models.Visitor
	start, end := dayRange(date)
	err := s.DB.Where("visit_date >= ? AND visit_date < ?", start, end).
		Order("created_at DESC").
		Find(&visitors).Error
	return visitors, err
}

// 13 GetFlatVisitors 管理端按单元查询访客历史
func (s *VisitorService) GetFlatVisitors(flatNo string) ([]models.Visitor, error) {
	var visitors []models.Visitor
	err := s.DB.Where("flat_no = ?", flatNo).Order("created_at DESC").Find(&visitors).Error
	return visitors, err
}

// 14 GetActiveVisitors 管理端查询当前在场访客（已入场未离场）
func (s *VisitorService) GetActiveVisitors() ([]models.Visitor, error) {
	var visitors []models.Visitor
	err := s.DB.Where("check_in_time IS NOT NULL AND check_out_time IS NULL").
		Order("check_in_time DESC").
		Find(&visitors).Error
	return visitors, err
}

// notifyVisitor 尽力而为地推送门岗事件，失败只记日志
func (s *VisitorService) notifyVisitor(event string, visitor *models.Visitor) {
	if s.Notify == nil {
		return
	}
	if err := s.Notify.PublishVisitorEvent(event, visitor); err != nil {
		log.Printf("推送访客事件失败: %v", err)
	}
}

// dayRange 返回某天的[零点, 次日零点)区间
func dayRange(t time.Time) (time.Time, time.Time) {
	start := models.DateOnly(t)
	return start, start.Add(24 * time.Hour)
}

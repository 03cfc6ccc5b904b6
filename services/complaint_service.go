package services

import (
	"errors"
	"strings"
	"time"

	"securacore-http-service/config"
	"securacore-http-service/internal/error/code"
	"securacore-http-service/models"

	"gorm.io/gorm"
)

// InterfaceComplaintService defines the complaint service interface
type InterfaceComplaintService interface {
	CreateComplaint(complaint *models.Complaint) error
	GetComplaintByID(id uint) (*models.Complaint, error)
	ListComplaints(status, priority string) ([]models.Complaint, error)
	GetFlatComplaints(flatNo string) ([]models.Complaint, error)
	AssignComplaint(id uint, assignedTo string) (*models.Complaint, error)
	SetComplaintStatus(id uint, status string) (*models.Complaint, error)
}

// ComplaintService 提供投诉处理相关的服务
type ComplaintService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewComplaintService 创建一个新的投诉服务
func NewComplaintService(db *gorm.DB, cfg *config.Config) InterfaceComplaintService {
	return &ComplaintService{
		DB:     db,
		Config: cfg,
	}
}

// 1 CreateComplaint 住户提交投诉，状态Pending
func (s *ComplaintService) CreateComplaint(complaint *models.Complaint) error {
	if strings.TrimSpace(complaint.Title) == "" {
		return NewServiceError(code.ErrValidation)
	}

	complaint.Status = models.ComplaintStatusPending
	if complaint.Priority == "" {
		complaint.Priority = models.ComplaintPriorityMedium
	}
	return s.DB.Create(complaint).Error
}

// 2 GetComplaintByID 根据ID获取投诉
func (s *ComplaintService) GetComplaintByID(id uint) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := s.DB.First(&complaint, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewServiceError(code.ErrComplaintNotFound)
		}
		return nil, err
	}
	return &complaint, nil
}

// 3 ListComplaints 管理端按状态/优先级过滤查询投诉
func (s *ComplaintService) ListComplaints(status, priority string) ([]models.Complaint, error) {
	query := s.DB.Model(&models.Complaint{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if priority != "" {
		query = query.Where("priority = ?", priority)
	}

	var complaints []models.Complaint
	err := query.Order("created_at DESC").Find(&complaints).Error
	return complaints, err
}

// 4 GetFlatComplaints 住户查看本单元的投诉
func (s *ComplaintService) GetFlatComplaints(flatNo string) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := s.DB.Where("flat_no = ?", flatNo).Order("created_at DESC").Find(&complaints).Error
	return complaints, err
}

// 5 AssignComplaint 指派处理人。仅当状态为Pending时提升为Open，
// 其他状态保持不变（与原实现一致）。
func (s *ComplaintService) AssignComplaint(id uint, assignedTo string) (*models.Complaint, error) {
	complaint, err := s.GetComplaintByID(id)
	if err != nil {
		return nil, err
	}

	complaint.AssignedTo = assignedTo
	if complaint.Status == models.ComplaintStatusPending {
		complaint.Status = models.ComplaintStatusOpen
	}
	now := time.Now()
	complaint.UpdatedAt = &now

	if err := s.DB.Save(complaint).Error; err != nil {
		return nil, err
	}
	return complaint, nil
}

// 6 SetComplaintStatus 管理端直接设置状态。合法枚举内任意跳转，
// 不强制状态机（与原实现一致）。
func (s *ComplaintService) SetComplaintStatus(id uint, status string) (*models.Complaint, error) {
	if !models.ValidComplaintStatus(status) {
		return nil, NewServiceError(code.ErrComplaintInvalidStatus)
	}

	complaint, err := s.GetComplaintByID(id)
	if err != nil {
		return nil, err
	}

	complaint.Status = status
	now := time.Now()
	complaint.UpdatedAt = &now

	if err := s.DB.Save(complaint).Error; err != nil {
		return nil, err
	}
	return complaint, nil
}

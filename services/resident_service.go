package services

import (
	"errors"
	"securacore-http-service/config"
	"securacore-http-service/internal/error/code"
	"securacore-http-service/models"

	"gorm.io/gorm"
)

// InterfaceResidentService defines the resident service interface
type InterfaceResidentService interface {
	GetAllResidents(page int, pageSize int) ([]models.Resident, int64, error)
	GetResidentByID(id uint) (*models.Resident, error)
	GetResidentByEmail(email string) (*models.Resident, error)
	CreateResident(resident *models.Resident) error
	UpdateResident(id uint, updates map[string]interface{}) (*models.Resident, error)
	DeleteResident(id uint) error
	SearchResidents(searchTerm string) ([]models.Resident, error)
}

// ResidentService 提供住户档案相关的服务
type ResidentService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewResidentService 创建一个新的住户服务
func NewResidentService(db *gorm.DB, cfg *config.Config) InterfaceResidentService {
	return &ResidentService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllResidents 获取所有住户
func (s *ResidentService) GetAllResidents(page int, pageSize int) ([]models.Resident, int64, error) {
	var residents []models.Resident
	var total int64
	if err := s.DB.Model(&models.Resident{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := s.DB.Offset((page - 1) * pageSize).Limit(pageSize).Find(&residents).Error; err != nil {
		return nil, 0, err
	}
	return residents, total, nil
}

// 2 GetResidentByID 根据ID获取住户
func (s *ResidentService) GetResidentByID(id uint) (*models.Resident, error) {
	var resident models.Resident
	if err := s.DB.First(&resident, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewServiceError(code.ErrUserNotFound)
		}
		return nil, err
	}
	return &resident, nil
}

// 3 GetResidentByEmail 根据邮箱获取住户（登录用）
func (s *ResidentService) GetResidentByEmail(email string) (*models.Resident, error) {
	var resident models.Resident
	if err := s.DB.Where("email = ?", email).First(&resident).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewServiceError(code.ErrUserNotFound)
		}
		return nil, err
	}
	return &resident, nil
}

// 4 CreateResident 创建新住户
func (s *ResidentService) CreateResident(resident *models.Resident) error {
	// 验证联系方式唯一性
	var count int64
	if err := s.DB.Model(&models.Resident{}).Where("contact = ?", resident.Contact).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return NewServiceError(code.ErrUserAlreadyExist)
	}

	return s.DB.Create(resident).Error
}

// 5 UpdateResident 更新住户信息
func (s *ResidentService) UpdateResident(id uint, updates map[string]interface{}) (*models.Resident, error) {
	resident, err := s.GetResidentByID(id)
	if err != nil {
		return nil, err
	}

	// 如果更新联系方式，需要检查唯一性
	if contact, ok := updates["contact"].(string); ok && contact != resident.Contact {
		var count int64
		if err := s.DB.Model(&models.Resident{}).Where("contact = ? AND id != ?", contact, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, NewServiceError(code.ErrUserAlreadyExist)
		}
	}

	if err := s.DB.Model(resident).Updates(updates).Error; err != nil {
		return nil, err
	}

	// 重新获取更新后的住户信息
	return s.GetResidentByID(id)
}

// 6 DeleteResident 删除住户
func (s *ResidentService) DeleteResident(id uint) error {
	resident, err := s.GetResidentByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(resident).Error
}

// 7 SearchResidents 按姓名/单元/邮箱/联系方式模糊搜索住户
func (s *ResidentService) SearchResidents(searchTerm string) ([]models.Resident, error) {
	var residents []models.Resident
	if searchTerm == "" {
		err := s.DB.Find(&residents).Error
		return residents, err
	}

	pattern := "%" + searchTerm + "%"
	err := s.DB.Where(
		"name LIKE ? OR flat_no LIKE ? OR email LIKE ? OR contact LIKE ?",
		pattern, pattern, pattern, pattern,
	).Find(&residents).Error
	return residents, err
}

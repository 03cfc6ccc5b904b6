package services

import (
	"errors"
	"log"
	"time"

	"securacore-http-service/config"
	"securacore-http-service/internal/error/code"
	"securacore-http-service/models"

	"gorm.io/gorm"
)

// DashboardStats 管理端首页统计
type DashboardStats struct {
	ActiveVisitorsToday int64 `json:"active_visitors_today"`
	PendingPackages     int64 `json:"pending_packages"`
	OpenComplaints      int64 `json:"open_complaints"`
	GuardsPresent       int64 `json:"guards_present"`
}

// InterfaceAdminService defines the admin service interface
type InterfaceAdminService interface {
	GetAllAdmins(page int, pageSize int) ([]models.Admin, int64, error)
	GetAdminByID(id uint) (*models.Admin, error)
	GetAdminByUsername(username string) (*models.Admin, error)
	CreateAdmin(admin *models.Admin) error
	EnsureDefaultAdmin() error
	GetDashboardStats() (*DashboardStats, error)
}

// AdminService 提供管理员相关的服务
type AdminService struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  InterfaceRedisService
}

// NewAdminService 创建一个新的管理员服务
func NewAdminService(db *gorm.DB, cfg *config.Config, redis InterfaceRedisService) InterfaceAdminService {
	return &AdminService{
		DB:     db,
		Config: cfg,
		Redis:  redis,
	}
}

// 1 GetAllAdmins 获取所有管理员
func (s *AdminService) GetAllAdmins(page int, pageSize int) ([]models.Admin, int64, error) {
	var admins []models.Admin
	var total int64
	if err := s.DB.Model(&models.Admin{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := s.DB.Offset((page - 1) * pageSize).Limit(pageSize).Find(&admins).Error; err != nil {
		return nil, 0, err
	}
	return admins, total, nil
}

// 2 GetAdminByID 根据ID获取管理员
func (s *AdminService) GetAdminByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewServiceError(code.ErrUserNotFound)
		}
		return nil, err
	}
	return &admin, nil
}

// 3 GetAdminByUsername 根据用户名获取管理员（登录用）
func (s *AdminService) GetAdminByUsername(username string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewServiceError(code.ErrUserNotFound)
		}
		return nil, err
	}
	return &admin, nil
}

// 4 CreateAdmin 创建新管理员
func (s *AdminService) CreateAdmin(admin *models.Admin) error {
	var count int64
	if err := s.DB.Model(&models.Admin{}).Where("username = ?", admin.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return NewServiceError(code.ErrUserAlreadyExist)
	}
	return s.DB.Create(admin).Error
}

// 5 EnsureDefaultAdmin 确保系统中存在管理员账户，启动时调用
func (s *AdminService) EnsureDefaultAdmin() error {
	var count int64
	if err := s.DB.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("未找到管理员账户，创建默认管理员")
	admin := &models.Admin{
		Username: "admin",
		Password: s.Config.DefaultAdminPassword,
	}
	return s.DB.Create(admin).Error
}

// 6 GetDashboardStats 统计管理端首页数据，短TTL缓存到Redis
func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	if s.Redis != nil {
		var cached DashboardStats
		if err := s.Redis.GetDashboardStats(&cached); err == nil {
			return &cached, nil
		}
	}

	stats := &DashboardStats{}
	start, end := dayRange(time.Now())

	if err := s.DB.Model(&models.Visitor{}).
		Where("visit_date >= ? AND visit_date < ? AND status = ?", start, end, models.VisitStatusApproved).
		Count(&stats.ActiveVisitorsToday).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.PackageItem{}).
		Where("status = ?", models.PackageStatusPending).
		Count(&stats.PendingPackages).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Complaint{}).
		Where("status IN ?", []string{models.ComplaintStatusOpen, models.ComplaintStatusInProgress}).
		Count(&stats.OpenComplaints).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.GuardAttendance{}).
		Where("attendance_date >= ? AND attendance_date < ? AND check_in_time IS NOT NULL AND check_out_time IS NULL", start, end).
		Count(&stats.GuardsPresent).Error; err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := s.Redis.CacheDashboardStats(stats, 30*time.Second); err != nil {
			log.Printf("缓存首页统计失败: %v", err)
		}
	}
	return stats, nil
}

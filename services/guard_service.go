package services

import (
	"errors"
	"time"

	"securacore-http-service/config"
	"securacore-http-service/internal/error/code"
	"securacore-http-service/models"

	"gorm.io/gorm"
)

// InterfaceGuardService defines the guard service interface
type InterfaceGuardService interface {
	GetAllGuards(page int, pageSize int) ([]models.Guard, int64, error)
	GetGuardByID(id uint) (*models.Guard, error)
	GetGuardByEmail(email string) (*models.Guard, error)
	CreateGuard(guard *models.Guard) error
	UpdateGuard(id uint, updates map[string]interface{}) (*models.Guard, error)
	DeleteGuard(id uint) error
	SearchGuards(searchTerm string) ([]models.Guard, error)
	GuardCheckIn(id uint) (*models.GuardAttendance, error)
	GuardCheckOut(id uint) (*models.GuardAttendance, error)
	GetAttendanceByDate(date time.Time) ([]models.GuardAttendance, error)
	GetGuardsOn(date time.Time) ([]models.Guard, error)
}

// GuardService 提供门卫档案与考勤相关的服务
type GuardService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewGuardService 创建一个新的门卫服务
func NewGuardService(db *gorm.DB, cfg *config.Config) InterfaceGuardService {
	return &GuardService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllGuards 获取所有门卫
func (s *GuardService) GetAllGuards(page int, pageSize int) ([]models.Guard, int64, error) {
	var guards []models.Guard
	var total int64
	if err := s.DB.Model(&models.Guard{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := s.DB.Offset((page - 1) * pageSize).Limit(pageSize).Find(&guards).Error; err != nil {
		return nil, 0, err
	}
	return guards, total, nil
}

// 2 GetGuardByID 根据ID获取门卫
func (s *GuardService) GetGuardByID(id uint) (*models.Guard, error) {
	var guard models.Guard
	if err := s.DB.First(&guard, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewServiceError(code.ErrUserNotFound)
		}
		return nil, err
	}
	return &guard, nil
}

// 3 GetGuardByEmail 根据邮箱获取门卫（登录用）
func (s *GuardService) GetGuardByEmail(email string) (*models.Guard, error) {
	var guard models.Guard
	if err := s.DB.Where("email = ?", email).First(&guard).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewServiceError(code.ErrUserNotFound)
		}
		return nil, err
	}
	return &guard, nil
}

// 4 CreateGuard 创建新门卫
func (s *GuardService) CreateGuard(guard *models.Guard) error {
	var count int64
	if err := s.DB.Model(&models.Guard{}).Where("contact = ?", guard.Contact).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return NewServiceError(code.ErrUserAlreadyExist)
	}

	if guard.Shift == "" {
		guard.Shift = models.ShiftDay
	}
	return s.DB.Create(guard).Error
}

// 5 UpdateGuard 更新门卫信息
func (s *GuardService) UpdateGuard(id uint, updates map[string]interface{}) (*models.Guard, error) {
	guard, err := s.GetGuardByID(id)
	if err != nil {
		return nil, err
	}

	if contact, ok := updates["contact"].(string); ok && contact != guard.Contact {
		var count int64
		if err := s.DB.Model(&models.Guard{}).Where("contact = ? AND id != ?", contact, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, NewServiceError(code.ErrUserAlreadyExist)
		}
	}

	if err := s.DB.Model(guard).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetGuardByID(id)
}

// 6 DeleteGuard 删除门卫
func (s *GuardService) DeleteGuard(id uint) error {
	guard, err := s.GetGuardByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(guard).Error
}

// 7 SearchGuards 按姓名/邮箱/联系方式模糊搜索门卫
func (s *GuardService) SearchGuards(searchTerm string) ([]models.Guard, error) {
	var guards []models.Guard
	if searchTerm == "" {
		err := s.DB.Find(&guards).Error
		return guards, err
	}

	pattern := "%" + searchTerm + "%"
	err := s.DB.Where(
		"name LIKE ? OR email LIKE ? OR contact LIKE ?",
		pattern, pattern, pattern,
	).Find(&guards).Error
	return guards, err
}

// 8 GuardCheckIn 门卫上班打卡。每人每天一条考勤记录，重复打卡覆盖时间
func (s *GuardService) GuardCheckIn(id uint) (*models.GuardAttendance, error) {
	guard, err := s.GetGuardByID(id)
	if err != nil {
		return nil, err
	}

	attendance, err := s.todayAttendance(guard.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	attendance.CheckInTime = &now
	if err := s.DB.Save(attendance).Error; err != nil {
		return nil, err
	}
	return attendance, nil
}

// 9 GuardCheckOut 门卫下班打卡
func (s *GuardService) GuardCheckOut(id uint) (*models.GuardAttendance, error) {
	guard, err := s.GetGuardByID(id)
	if err != nil {
		return nil, err
	}

	attendance, err := s.todayAttendance(guard.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	attendance.CheckOutTime = &now
	if err := s.DB.Save(attendance).Error; err != nil {
		return nil, err
	}
	return attendance, nil
}

// 10 GetAttendanceByDate 按日期查询考勤记录
func (s *GuardService) GetAttendanceByDate(date time.Time) ([]models.GuardAttendance, error) {
	var attendances []models.GuardAttendance
	start, end := dayRange(date)
	err := s.DB.Preload("Guard").
		Where("attendance_date >= ? AND attendance_date < ?", start, end).
		Find(&attendances).Error
	return attendances, err
}

// 11 GetGuardsOn 查询某天打过上班卡的门卫
func (s *GuardService) GetGuardsOn(date time.Time) ([]models.Guard, error) {
	var attendances []models.GuardAttendance
	start, end := dayRange(date)
	err := s.DB.Preload("Guard").
		Where("attendance_date >= ? AND attendance_date < ? AND check_in_time IS NOT NULL", start, end).
		Find(&attendances).Error
	if err != nil {
		return nil, err
	}

	guards := make([]models.Guard, 0, len(attendances))
	for _, attendance := range attendances {
		if attendance.Guard != nil {
			guards = append(guards, *attendance.Guard)
		}
	}
	return guards, nil
}

// todayAttendance 取出或创建当天的考勤记录
func (s *GuardService) todayAttendance(guardID uint) (*models.GuardAttendance, error) {
	today := models.DateOnly(time.Now())
	var attendance models.GuardAttendance
	err := s.DB.Where("guard_id = ? AND attendance_date = ?", guardID, today).First(&attendance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		attendance = models.GuardAttendance{
			GuardID:        guardID,
			AttendanceDate: today,
		}
		return &attendance, nil
	}
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

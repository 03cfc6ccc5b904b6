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
	"securacore-http-service/utils"

	"gorm.io/gorm"
)

// 快递事件名
const (
	PackageEventRegistered = "package_registered"
	PackageEventDelivered  = "package_delivered"
)

// PackageUpdate 送达前可整体覆盖的字段集
type PackageUpdate struct {
	TrackingNumber string
	Description    string
	Sender         string
	ResidentName   string
	FlatNo         string
	ExpectedDate   time.Time
	DeliveryOtp    string
}

// InterfacePackageService defines the package delivery service interface
type InterfacePackageService interface {
	CreatePackage(pkg *models.PackageItem) error
	GetPackageByID(id uint) (*models.PackageItem, error)
	ListPackages(flatNo, status string, date *time.Time) ([]models.PackageItem, error)
	GetPackagesByStatus(status string, date *time.Time) ([]models.PackageItem, error)
	UpdatePackage(id uint, update PackageUpdate) (*models.PackageItem, error)
	ForceMarkDelivered(id uint, newStatus string) (*models.PackageItem, error)
	VerifyAndDeliver(id uint, otp string) (*models.PackageItem, error)
}

// PackageService 提供快递登记与交付相关的服务。
// 到达Delivered有两条独立路径：OTP核验交付给住户，
// 以及门卫签收入楼的直接状态覆盖，二者保留为不同操作。
type PackageService struct {
	DB     *gorm.DB
	Config *config.Config
	Notify InterfaceGateNotifyService
}

// NewPackageService 创建一个新的快递服务
func NewPackageService(db *gorm.DB, cfg *config.Config, notify InterfaceGateNotifyService) InterfacePackageService {
	return &PackageService{
		DB:     db,
		Config: cfg,
		Notify: notify,
	}
}

// 1 CreatePackage 住户登记快递，状态Pending。
// 未提供OTP时由服务端生成（原实现的UI承诺了自动生成但从未实现）。
func (s *PackageService) CreatePackage(pkg *models.PackageItem) error {
	if strings.TrimSpace(pkg.TrackingNumber) == "" || strings.TrimSpace(pkg.FlatNo) == "" {
		return NewServiceError(code.ErrValidation)
	}

	pkg.Status = models.PackageStatusPending
	pkg.DeliveredAt = nil
	if strings.TrimSpace(pkg.DeliveryOtp) == "" {
		pkg.DeliveryOtp = utils.RandomDigits(s.otpLength())
	}
	return s.DB.Create(pkg).Error
}

// 2 GetPackageByID 根据ID获取快递
func (s *PackageService) GetPackageByID(id uint) (*models.PackageItem, error) {
	var pkg models.PackageItem
	if err := s.DB.First(&pkg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewServiceError(code.ErrPackageNotFound)
		}
		return nil, err
	}
	return &pkg, nil
}

// 3 ListPackages 按单元/状态/预计日期过滤查询快递
func (s *PackageService) ListPackages(flatNo, status string, date *time.Time) ([]models.PackageItem, error) {
	query := s.DB.Model(&models.PackageItem{})
	if flatNo != "" {
		query = query.Where("flat_no = ?", flatNo)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if date != nil {
		start, end := dayRange(*date)
		query = query.Where("expected_date >= ? AND expected_date < ?", start, end)
	}

	var packages []models.PackageItem
	err := query.Order("expected_date DESC").Find(&packages).Error
	return packages, err
}

// 4 GetPackagesByStatus 门卫按状态查询快递
func (s *PackageService) GetPackagesByStatus(status string, date *time.Time) ([]models.PackageItem, error) {
	return s.ListPackages("", status, date)
}

// 5 UpdatePackage 住户在送达前修改快递信息，整体覆盖。
// 已送达的快递拒绝任何修改，包括运单号和OTP。
func (s *PackageService) UpdatePackage(id uint, update PackageUpdate) (*models.PackageItem, error) {
	pkg, err := s.GetPackageByID(id)
	if err != nil {
		return nil, err
	}

	if pkg.Status == models.PackageStatusDelivered {
		return nil, NewServiceError(code.ErrPackageAlreadyDelivered)
	}

	pkg.TrackingNumber = update.TrackingNumber
	pkg.Description = update.Description
	pkg.Sender = update.Sender
	pkg.ResidentName = update.ResidentName
	pkg.FlatNo = update.FlatNo
	pkg.ExpectedDate = update.ExpectedDate
	pkg.DeliveryOtp = update.DeliveryOtp

	if err := s.DB.Save(pkg).Error; err != nil {
		return nil, err
	}
	return pkg, nil
}

// 6 ForceMarkDelivered 门卫直接更新快递状态（签收入楼），不校验OTP。
// 状态只允许Pending/Delivered；重复置为Delivered返回幂等拒绝。
func (s *PackageService) ForceMarkDelivered(id uint, newStatus string) (*models.PackageItem, error) {
	if newStatus != models.PackageStatusPending && newStatus != models.PackageStatusDelivered {
		return nil, NewServiceError(code.ErrPackageInvalidStatus)
	}

	pkg, err := s.GetPackageByID(id)
	if err != nil {
		return nil, err
	}

	if newStatus == models.PackageStatusPending {
		if pkg.Status == models.PackageStatusDelivered {
			return nil, NewServiceError(code.ErrPackageAlreadyDelivered)
		}
		return pkg, nil
	}

	return s.deliver(pkg, "status override by guard")
}

// 7 VerifyAndDeliver 核验OTP后交付。失败原因保持可区分：
// 已送达、未配置OTP、OTP不匹配各自返回不同错误码，
// 且失败路径绝不修改状态或送达时间。
func (s *PackageService) VerifyAndDeliver(id uint, otp string) (*models.PackageItem, error) {
	pkg, err := s.GetPackageByID(id)
	if err != nil {
		return nil, err
	}

	if pkg.Status == models.PackageStatusDelivered {
		return nil, NewServiceError(code.ErrPackageAlreadyDelivered)
	}
	if pkg.DeliveryOtp == "" {
		return nil, NewServiceError(code.ErrPackageOTPNotSet)
	}
	if pkg.DeliveryOtp != otp {
		return nil, NewServiceError(code.ErrPackageOTPMismatch)
	}

	return s.deliver(pkg, "OTP verified hand-off")
}

// deliver 以条件更新置为Delivered。WHERE status='Pending'保证两个并发
// 交付请求只有一个生效，落败方得到与已送达一致的幂等拒绝。
func (s *PackageService) deliver(pkg *models.PackageItem, detail string) (*models.PackageItem, error) {
	now := time.Now()
	result := s.DB.Model(&models.PackageItem{}).
		Where("id = ? AND status = ?", pkg.ID, models.PackageStatusPending).
		Updates(map[string]interface{}{
			"status":       models.PackageStatusDelivered,
			"delivered_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, NewServiceError(code.ErrPackageAlreadyDelivered)
	}

	pkg.Status = models.PackageStatusDelivered
	pkg.DeliveredAt = &now

	// 审计日志
	s.DB.Create(&models.AccessLog{
		Action:   models.AccessActionPackageDelivered,
		EntityID: pkg.ID,
		FlatNo:   pkg.FlatNo,
		Detail:   fmt.Sprintf("package %s delivered: %s", pkg.TrackingNumber, detail),
	})

	if s.Notify != nil {
		if err := s.Notify.PublishPackageEvent(PackageEventDelivered, pkg); err != nil {
			log.Printf("推送快递事件失败: %v", err)
		}
	}
	return pkg, nil
}

// otpLength 读取配置的OTP位数
func (s *PackageService) otpLength() int {
	if s.Config != nil && s.Config.PackageOTPLength > 0 {
		return s.Config.PackageOTPLength
	}
	return 4
}

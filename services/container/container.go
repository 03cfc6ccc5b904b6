package container

import (
	"context"
	"log"
	"sync"
	"time"

	"securacore-http-service/config"
	"securacore-http-service/services"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// 基础服务
	jwtService services.InterfaceJWTService

	// 数据存储服务
	redisService services.InterfaceRedisService

	// 闸机通知服务
	gateNotifyService services.InterfaceGateNotifyService

	// 业务服务
	visitorService   services.InterfaceVisitorService
	qrVisitorService services.InterfaceQRVisitorService
	packageService   services.InterfacePackageService
	complaintService services.InterfaceComplaintService
	residentService  services.InterfaceResidentService
	guardService     services.InterfaceGuardService
	adminService     services.InterfaceAdminService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	// 测试Redis连接
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis连接测试失败: %v，将不使用Redis缓存", err)
		}
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		redis:  redisClient,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config)

	// 初始化Redis服务，优先使用外部注入的客户端
	if c.redis != nil {
		c.redisService = services.NewRedisServiceWithClient(c.redis)
	} else {
		c.redisService = services.NewRedisService(c.config)
	}

	// 初始化闸机通知服务，未配置broker时跳过连接
	c.gateNotifyService = services.NewGateNotifyService(c.config)
	if c.config.MQTTBrokerURL != "" {
		if err := c.gateNotifyService.Connect(); err != nil {
			log.Printf("MQTT服务连接失败: %v", err)
		}
	}

	// 初始化业务服务
	c.visitorService = services.NewVisitorService(c.db, c.config, c.gateNotifyService)
	c.qrVisitorService = services.NewQRVisitorService(c.db, c.config, c.redisService, c.gateNotifyService)
	c.packageService = services.NewPackageService(c.db, c.config, c.gateNotifyService)
	c.complaintService = services.NewComplaintService(c.db, c.config)
	c.residentService = services.NewResidentService(c.db, c.config)
	c.guardService = services.NewGuardService(c.db, c.config)
	c.adminService = services.NewAdminService(c.db, c.config, c.redisService)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "gate_notify":
		return c.gateNotifyService
	case "visitor":
		return c.visitorService
	case "qr_visitor":
		return c.qrVisitorService
	case "package":
		return c.packageService
	case "complaint":
		return c.complaintService
	case "resident":
		return c.residentService
	case "guard":
		return c.guardService
	case "admin":
		return c.adminService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

package routes

import (
	_ "securacore-http-service/docs"

	"securacore-http-service/config"
	"securacore-http-service/controllers"
	"securacore-http-service/middleware"
	"securacore-http-service/services/container"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg, nil)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(r *gin.Engine, container *container.ServiceContainer) {
	api := r.Group("/api")
	registerPublicRoutes(api, container)
	registerResidentRoutes(api, container)
	registerGuardRoutes(api, container)
	registerSharedRoutes(api, container)
	registerAdminRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	// 限流只作用于公共接口，不能挂在父分组上，否则会被之后创建的子分组继承
	public := api.Group("")
	// 每秒10个请求，最多突发20个
	public.Use(middleware.RateLimiter(middleware.RateLimiterConfig{Rate: 10, Burst: 20}))

	health := controllers.NewHealthCheckController()
	public.GET("/ping", health.Ping)
	public.GET("/health", health.Ping) // 兼容Docker健康检查

	// 认证路由
	public.POST("/auth/login", controllers.HandleJWTFunc(container, "login"))
}

// registerResidentRoutes 注册住户路由
func registerResidentRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	resident := api.Group("/resident")
	resident.Use(middleware.AuthenticateResident())
	{
		resident.POST("/schedule-visit", controllers.HandleVisitorFunc(container, "scheduleVisit"))
		resident.PUT("/approve-visit/:id", controllers.HandleVisitorFunc(container, "approveVisit"))
		resident.PUT("/decline-visit/:id", controllers.HandleVisitorFunc(container, "declineVisit"))
		resident.GET("/visitor-requests", controllers.HandleVisitorFunc(container, "getVisitorRequests"))
		resident.GET("/today-visits", controllers.HandleVisitorFunc(container, "getTodayVisits"))
		resident.GET("/pending-approvals", controllers.HandleVisitorFunc(container, "getPendingApprovals"))
		resident.GET("/scheduled-visits", controllers.HandleVisitorFunc(container, "getScheduledVisits"))
	}

	// 住户签发与结束二维码通行证
	qrResident := api.Group("/qr-visitor")
	qrResident.Use(middleware.AuthenticateResident())
	{
		qrResident.POST("/create", controllers.HandleQRVisitorFunc(container, "createQRVisitor"))
		qrResident.PUT("/checkout/:id", controllers.HandleQRVisitorFunc(container, "checkoutQRVisitor"))
	}

	// 住户登记与维护快递
	pkgResident := api.Group("/packages")
	pkgResident.Use(middleware.AuthenticateResident())
	{
		pkgResident.POST("", controllers.HandlePackageFunc(container, "createPackage"))
		pkgResident.PUT("/:id", controllers.HandlePackageFunc(container, "updatePackage"))
		pkgResident.PUT("/:id/details", controllers.HandlePackageFunc(container, "updatePackageDetails"))
	}

	// 住户投诉
	complaints := api.Group("/complaints")
	complaints.Use(middleware.AuthenticateResident())
	{
		complaints.POST("", controllers.HandleComplaintFunc(container, "createComplaint"))
		complaints.GET("", controllers.HandleComplaintFunc(container, "getMyComplaints"))
	}
}

// registerGuardRoutes 注册门卫路由
func registerGuardRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	guard := api.Group("/guard")
	guard.Use(middleware.AuthenticateGuard())
	{
		guard.POST("/request-visit", controllers.HandleVisitorFunc(container, "requestVisit"))
		guard.GET("/request-visit-status", controllers.HandleVisitorFunc(container, "getRequestVisitStatus"))
		guard.GET("/validate-visit", controllers.HandleVisitorFunc(container, "validateVisit"))
		guard.POST("/visitor/:id/checkin", controllers.HandleVisitorFunc(container, "checkinVisitor"))
		guard.POST("/checkin/:guardId", controllers.HandleGuardFunc(container, "checkIn"))
		guard.POST("/checkout/:guardId", controllers.HandleGuardFunc(container, "checkOut"))
	}

	// 门卫扫码校验与入场
	qrGuard := api.Group("/qr-visitor")
	qrGuard.Use(middleware.AuthenticateGuard())
	{
		qrGuard.POST("/validate", controllers.HandleQRVisitorFunc(container, "validateQRVisitor"))
		qrGuard.POST("/checkin/:id", controllers.HandleQRVisitorFunc(container, "checkinQRVisitor"))
	}

	// 门卫交付快递
	pkgGuard := api.Group("/packages")
	pkgGuard.Use(middleware.AuthenticateGuard())
	{
		pkgGuard.PUT("/:id/status", controllers.HandlePackageFunc(container, "updatePackageStatus"))
		// OTP校验接口按IP+路径限流，每秒1个请求，最多突发3个
		pkgGuard.POST("/:id/verify-otp",
			middleware.CombinedRateLimiter(1, 3),
			controllers.HandlePackageFunc(container, "verifyOTP"))
	}
}

// registerSharedRoutes 注册住户与门卫共用的只读路由
func registerSharedRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	shared := api.Group("")
	shared.Use(middleware.AuthenticateAnyRole())
	{
		shared.GET("/packages", controllers.HandlePackageFunc(container, "getPackages"))
		shared.GET("/packages/:id", controllers.HandlePackageFunc(container, "getPackage"))
		shared.GET("/qr-visitor", controllers.HandleQRVisitorFunc(container, "getQRVisitors"))
		shared.GET("/qr-visitor/:id/image", controllers.HandleQRVisitorFunc(container, "getQRImage"))
	}
}

// registerAdminRoutes 注册管理端路由
func registerAdminRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	admin := api.Group("/admin")
	admin.Use(middleware.AuthenticateSystemAdmin())
	{
		// 住户档案
		admin.GET("/residents", controllers.HandleAdminFunc(container, "getResidents"))
		admin.GET("/residents/search", controllers.HandleAdminFunc(container, "searchResidents"))
		admin.GET("/residents/:id", controllers.HandleAdminFunc(container, "getResident"))
		admin.POST("/residents", controllers.HandleAdminFunc(container, "createResident"))
		admin.PUT("/residents/:id", controllers.HandleAdminFunc(container, "updateResident"))
		admin.DELETE("/residents/:id", controllers.HandleAdminFunc(container, "deleteResident"))

		// 管理员账户
		admin.GET("/admins", controllers.HandleAdminFunc(container, "getAdmins"))
		admin.GET("/admins/:id", controllers.HandleAdminFunc(container, "getAdmin"))
		admin.POST("/admins", controllers.HandleAdminFunc(container, "createAdmin"))

		// 门卫档案
		admin.GET("/guards", controllers.HandleAdminFunc(container, "getGuards"))
		admin.GET("/guards/search", controllers.HandleAdminFunc(container, "searchGuards"))
		admin.GET("/guards/on", controllers.HandleGuardFunc(container, "getGuardsOn"))
		admin.GET("/guards/:id", controllers.HandleAdminFunc(container, "getGuard"))
		admin.POST("/guards", controllers.HandleAdminFunc(container, "createGuard"))
		admin.PUT("/guards/:id", controllers.HandleAdminFunc(container, "updateGuard"))
		admin.DELETE("/guards/:id", controllers.HandleAdminFunc(container, "deleteGuard"))

		// 访客总览
		admin.GET("/visitors/on", controllers.HandleAdminFunc(container, "getVisitorsOn"))
		admin.GET("/active-visitors", controllers.HandleAdminFunc(container, "getActiveVisitors"))
		admin.GET("/flat-visitor/:flat", controllers.HandleAdminFunc(container, "getFlatVisitors"))

		// 门卫考勤
		admin.GET("/guard-attendance", controllers.HandleGuardFunc(container, "getAttendance"))

		// 投诉处理
		admin.GET("/complaints", controllers.HandleComplaintFunc(container, "getComplaints"))
		admin.PUT("/complaints/:id/assign", controllers.HandleComplaintFunc(container, "assignComplaint"))
		admin.PUT("/complaints/:id/status", controllers.HandleComplaintFunc(container, "setComplaintStatus"))

		// 总览看板
		admin.GET("/stats", controllers.HandleAdminFunc(container, "getDashboardStats"))
	}
}

package controllers

import (
	"time"

	"securacore-http-service/internal/error/code"
	"securacore-http-service/internal/error/response"
	"securacore-http-service/models"
	"securacore-http-service/services"
	"securacore-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfacePackageController 定义快递控制器接口
type InterfacePackageController interface {
	CreatePackage()
	GetPackages()
	GetPackage()
	UpdatePackage()
	UpdatePackageDetails()
	UpdatePackageStatus()
	VerifyOTP()
}

// PackageController 处理快递登记与交付相关的请求
type PackageController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewPackageController 创建一个新的快递控制器
func NewPackageController(ctx *gin.Context, container *container.ServiceContainer) *PackageController {
	return &PackageController{
		Ctx:       ctx,
		Container: container,
	}
}

// PackageRequest 表示快递登记请求
type PackageRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"required" example:"TRK123456"`
	Description    string `json:"description" example:"Electronics"`
	Sender         string `json:"sender" example:"Amazon"`
	ResidentName   string `json:"resident_name" example:"Rahul Verma"`
	ExpectedDate   string `json:"expected_date" binding:"required" example:"2025-06-15"` // YYYY-MM-DD
	DeliveryOtp    string `json:"delivery_otp" example:"4821"`                           // 留空则服务端生成
}

// PackageDetailsRequest 表示送达前可修改的快递信息
type PackageDetailsRequest struct {
	TrackingNumber string `json:"tracking_number" example:"TRK123456"`
	Description    string `json:"description" example:"Electronics"`
	Sender         string `json:"sender" example:"Amazon"`
	ResidentName   string `json:"resident_name" example:"Rahul Verma"`
	FlatNo         string `json:"flat_no" example:"A-101"`
	ExpectedDate   string `json:"expected_date" example:"2025-06-16"`
	DeliveryOtp    string `json:"delivery_otp" example:"4821"`
}

// PackageStatusRequest 表示门卫的状态覆盖请求
type PackageStatusRequest struct {
	Status string `json:"status" binding:"required" example:"Delivered"`
}

// VerifyOTPRequest 表示OTP核验请求
type VerifyOTPRequest struct {
	Otp string `json:"otp" binding:"required" example:"4821"`
}

// packageService 获取快递服务
func (c *PackageController) packageService() services.InterfacePackageService {
	return c.Container.GetService("package").(services.InterfacePackageService)
}

// claimFlatNo 从令牌声明中取出住户单元号
func (c *PackageController) claimFlatNo() string {
	if v, exists := c.Ctx.Get("flatNo"); exists {
		if flatNo, ok := v.(string); ok {
			return flatNo
		}
	}
	return ""
}

// HandlePackageFunc 返回一个处理快递请求的Gin处理函数
func HandlePackageFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewPackageController(ctx, container)

		switch method {
		case "createPackage":
			controller.CreatePackage()
		case "getPackages":
			controller.GetPackages()
		case "getPackage":
			controller.GetPackage()
		case "updatePackage":
			controller.UpdatePackage()
		case "updatePackageDetails":
			controller.UpdatePackageDetails()
		case "updatePackageStatus":
			controller.UpdatePackageStatus()
		case "verifyOTP":
			controller.VerifyOTP()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// CreatePackage 住户登记一件待收快递
// @Summary      Register an expected package
// @Description  Resident registers a package for their own flat; when no OTP is supplied the server generates one
// @Tags         Package
// @Accept       json
// @Produce      json
// @Param        request body PackageRequest true "Package details"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  ErrorResponse
// @Router       /packages [post]
func (c *PackageController) CreatePackage() {
	var req PackageRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	expectedDate, err := parseDate(req.ExpectedDate)
	if err != nil {
		response.ParamError(c.Ctx, "expected_date must be YYYY-MM-DD")
		return
	}

	flatNo := c.claimFlatNo()
	if flatNo == "" {
		response.ParamError(c.Ctx, "flat number missing from token")
		return
	}

	pkg := models.PackageItem{
		TrackingNumber: req.TrackingNumber,
		Description:    req.Description,
		Sender:         req.Sender,
		ResidentName:   req.ResidentName,
		FlatNo:         flatNo,
		ExpectedDate:   expectedDate,
		DeliveryOtp:    req.DeliveryOtp,
	}

	if err := c.packageService().CreatePackage(&pkg); err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Package registered", pkg)
}

// GetPackages 查询快递列表，支持按状态和日期过滤
// @Summary      List packages
// @Description  Residents see their own flat's packages; guards and admins may filter by flat, status and date
// @Tags         Package
// @Produce      json
// @Param        flat_no query string false "Filter by flat number"
// @Param        status query string false "Filter by status (Pending/Delivered)"
// @Param        date query string false "Filter by expected date (YYYY-MM-DD)"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /packages [get]
func (c *PackageController) GetPackages() {
	flatNo := c.Ctx.Query("flat_no")
	if role, _ := c.Ctx.Get("role"); role == "resident" {
		flatNo = c.claimFlatNo()
	}

	var date *time.Time
	if raw := c.Ctx.Query("date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			response.ParamError(c.Ctx, "date must be YYYY-MM-DD")
			return
		}
		date = &parsed
	}

	packages, err := c.packageService().ListPackages(flatNo, c.Ctx.Query("status"), date)
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, packages)
}

// GetPackage 获取单件快递详情
// @Summary      Get package details
// @Tags         Package
// @Produce      json
// @Param        id path int true "Package ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Router       /packages/{id} [get]
func (c *PackageController) GetPackage() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	pkg, err := c.packageService().GetPackageByID(id)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.Success(c.Ctx, pkg)
}

// UpdatePackage 住户在送达前修改快递信息
// @Summary      Update a pending package
// @Description  Rejected once the package is delivered; no field changes survive a delivery
// @Tags         Package
// @Accept       json
// @Produce      json
// @Param        id path int true "Package ID"
// @Param        request body PackageDetailsRequest true "Updated fields"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /packages/{id} [put]
func (c *PackageController) UpdatePackage() {
	c.applyDetailsUpdate()
}

// UpdatePackageDetails 与UpdatePackage等价的明细更新端点
// @Summary      Update pending package details
// @Tags         Package
// @Accept       json
// @Produce      json
// @Param        id path int true "Package ID"
// @Param        request body PackageDetailsRequest true "Updated fields"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /packages/{id}/details [put]
func (c *PackageController) UpdatePackageDetails() {
	c.applyDetailsUpdate()
}

// applyDetailsUpdate 解析请求并调用服务层更新
func (c *PackageController) applyDetailsUpdate() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	var req PackageDetailsRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	update := services.PackageUpdate{
		TrackingNumber: req.TrackingNumber,
		Description:    req.Description,
		Sender:         req.Sender,
		ResidentName:   req.ResidentName,
		FlatNo:         req.FlatNo,
		DeliveryOtp:    req.DeliveryOtp,
	}
	if req.ExpectedDate != "" {
		expectedDate, err := parseDate(req.ExpectedDate)
		if err != nil {
			response.ParamError(c.Ctx, "expected_date must be YYYY-MM-DD")
			return
		}
		update.ExpectedDate = expectedDate
	}

	// 住户不能把快递改到别的单元
	if role, _ := c.Ctx.Get("role"); role == "resident" {
		update.FlatNo = c.claimFlatNo()
	}

	pkg, err := c.packageService().UpdatePackage(id, update)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Package updated", pkg)
}

// UpdatePackageStatus 门卫直接覆盖快递状态（签收入楼）
// @Summary      Override package status
// @Description  Guard marks a package Delivered without OTP when receiving it into the building; a second delivery is rejected
// @Tags         Package
// @Accept       json
// @Produce      json
// @Param        id path int true "Package ID"
// @Param        request body PackageStatusRequest true "New status"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /packages/{id}/status [put]
func (c *PackageController) UpdatePackageStatus() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	var req PackageStatusRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	pkg, err := c.packageService().ForceMarkDelivered(id, req.Status)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Package status updated", pkg)
}

// VerifyOTP 门卫核验OTP并交付快递
// @Summary      Verify delivery OTP and hand over the package
// @Description  On a correct OTP the package transitions to Delivered exactly once; a wrong OTP never mutates the record
// @Tags         Package
// @Accept       json
// @Produce      json
// @Param        id path int true "Package ID"
// @Param        request body VerifyOTPRequest true "OTP supplied by the resident"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /packages/{id}/verify-otp [post]
func (c *PackageController) VerifyOTP() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	var req VerifyOTPRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	pkg, err := c.packageService().VerifyAndDeliver(id, req.Otp)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Package delivered successfully", pkg)
}

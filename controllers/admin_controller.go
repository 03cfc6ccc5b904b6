package controllers

import (
	"strconv"
	"time"

	"securacore-http-service/internal/error/code"
	"securacore-http-service/internal/error/response"
	"securacore-http-service/models"
	"securacore-http-service/services"
	"securacore-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceAdminController 定义管理端控制器接口
type InterfaceAdminController interface {
	GetResidents()
	GetResident()
	CreateResident()
	UpdateResident()
	DeleteResident()
	SearchResidents()
	GetGuards()
	GetGuard()
	CreateGuard()
	UpdateGuard()
	DeleteGuard()
	SearchGuards()
	GetAdmins()
	GetAdmin()
	CreateAdmin()
	GetVisitorsOn()
	GetActiveVisitors()
	GetFlatVisitors()
	GetDashboardStats()
}

// AdminController 处理管理端的住户/门卫档案与小区总览请求
type AdminController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAdminController 创建一个新的管理端控制器
func NewAdminController(ctx *gin.Context, container *container.ServiceContainer) *AdminController {
	return &AdminController{
		Ctx:       ctx,
		Container: container,
	}
}

// ResidentRequest 表示住户档案请求
type ResidentRequest struct {
	Name             string `json:"name" binding:"required" example:"Rahul Verma"`
	FlatNo           string `json:"flat_no" binding:"required" example:"A-101"`
	Email            string `json:"email" binding:"omitempty,email" example:"rahul@resident.com"`
	Contact          string `json:"contact" binding:"required" example:"9812345678"`
	EmergencyContact string `json:"emergency_contact" example:"9898765432"`
	Password         string `json:"password" binding:"required,min=6" example:"resident123"`
}

// UpdateResidentRequest 表示更新住户档案请求
type UpdateResidentRequest struct {
	Name             string `json:"name" example:"Rahul Verma"`
	FlatNo           string `json:"flat_no" example:"A-102"`
	Email            string `json:"email" binding:"omitempty,email" example:"rahul@resident.com"`
	Contact          string `json:"contact" example:"9812345678"`
	EmergencyContact string `json:"emergency_contact" example:"9898765432"`
	Status           string `json:"status" example:"active"`
}

// GuardRequest 表示门卫档案请求
type GuardRequest struct {
	Name     string `json:"name" binding:"required" example:"Suresh Singh"`
	Email    string `json:"email" binding:"omitempty,email" example:"suresh@guard.com"`
	Contact  string `json:"contact" binding:"required" example:"9876501234"`
	Password string `json:"password" binding:"required,min=6" example:"guard123"`
	Shift    string `json:"shift" example:"DAY"`
}

// AdminRequest 表示管理员账户请求
type AdminRequest struct {
	Username string `json:"username" binding:"required" example:"gatekeeper"`
	Password string `json:"password" binding:"required,min=6" example:"admin456"`
	Email    string `json:"email" binding:"omitempty,email" example:"gatekeeper@securacore.local"`
}

// UpdateGuardRequest 表示更新门卫档案请求
type UpdateGuardRequest struct {
	Name    string `json:"name" example:"Suresh Singh"`
	Email   string `json:"email" binding:"omitempty,email" example:"suresh@guard.com"`
	Contact string `json:"contact" example:"9876501234"`
	Shift   string `json:"shift" example:"NIGHT"`
	Status  string `json:"status" example:"active"`
}

// residentService 获取住户服务
func (c *AdminController) residentService() services.InterfaceResidentService {
	return c.Container.GetService("resident").(services.InterfaceResidentService)
}

// adminGuardService 获取门卫服务
func (c *AdminController) adminGuardService() services.InterfaceGuardService {
	return c.Container.GetService("guard").(services.InterfaceGuardService)
}

// adminVisitorService 获取访客服务
func (c *AdminController) adminVisitorService() services.InterfaceVisitorService {
	return c.Container.GetService("visitor").(services.InterfaceVisitorService)
}

// adminService 获取管理员服务
func (c *AdminController) adminService() services.InterfaceAdminService {
	return c.Container.GetService("admin").(services.InterfaceAdminService)
}

// pagination 解析分页参数
func (c *AdminController) pagination() (int, int) {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}

// HandleAdminFunc 返回一个处理管理端请求的Gin处理函数
func HandleAdminFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAdminController(ctx, container)

		switch method {
		case "getResidents":
			controller.GetResidents()
		case "getResident":
			controller.GetResident()
		case "createResident":
			controller.CreateResident()
		case "updateResident":
			controller.UpdateResident()
		case "deleteResident":
			controller.DeleteResident()
		case "searchResidents":
			controller.SearchResidents()
		case "getGuards":
			controller.GetGuards()
		case "getGuard":
			controller.GetGuard()
		case "createGuard":
			controller.CreateGuard()
		case "updateGuard":
			controller.UpdateGuard()
		case "deleteGuard":
			controller.DeleteGuard()
		case "searchGuards":
			controller.SearchGuards()
		case "getAdmins":
			controller.GetAdmins()
		case "getAdmin":
			controller.GetAdmin()
		case "createAdmin":
			controller.CreateAdmin()
		case "getVisitorsOn":
			controller.GetVisitorsOn()
		case "getActiveVisitors":
			controller.GetActiveVisitors()
		case "getFlatVisitors":
			controller.GetFlatVisitors()
		case "getDashboardStats":
			controller.GetDashboardStats()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// GetResidents 获取住户列表
// @Summary      List residents
// @Tags         Admin
// @Produce      json
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为10"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /admin/residents [get]
func (c *AdminController) GetResidents() {
	page, pageSize := c.pagination()

	residents, total, err := c.residentService().GetAllResidents(page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取住户列表失败", nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        residents,
	})
}

// GetResident 获取住户详情
// @Summary      Get resident details
// @Tags         Admin
// @Produce      json
// @Param        id path int true "Resident ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/residents/{id} [get]
func (c *AdminController) GetResident() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	resident, err := c.residentService().GetResidentByID(id)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.Success(c.Ctx, resident)
}

// CreateResident 创建住户档案
// @Summary      Create a resident
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ResidentRequest true "Resident details"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  ErrorResponse
// @Router       /admin/residents [post]
func (c *AdminController) CreateResident() {
	var req ResidentRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	resident := models.Resident{
		Name:             req.Name,
		FlatNo:           req.FlatNo,
		Email:            req.Email,
		Contact:          req.Contact,
		EmergencyContact: req.EmergencyContact,
		Password:         req.Password,
	}

	if err := c.residentService().CreateResident(&resident); err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Resident created", resident)
}

// UpdateResident 更新住户档案
// @Summary      Update a resident
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path int true "Resident ID"
// @Param        request body UpdateResidentRequest true "Updated fields"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/residents/{id} [put]
func (c *AdminController) UpdateResident() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	var req UpdateResidentRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.FlatNo != "" {
		updates["flat_no"] = req.FlatNo
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Contact != "" {
		updates["contact"] = req.Contact
	}
	if req.EmergencyContact != "" {
		updates["emergency_contact"] = req.EmergencyContact
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	resident, err := c.residentService().UpdateResident(id, updates)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Resident updated", resident)
}

// DeleteResident 删除住户档案
// @Summary      Delete a resident
// @Tags         Admin
// @Produce      json
// @Param        id path int true "Resident ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/residents/{id} [delete]
func (c *AdminController) DeleteResident() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	if err := c.residentService().DeleteResident(id); err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Resident deleted", nil)
}

// SearchResidents 搜索住户
// @Summary      Search residents
// @Tags         Admin
// @Produce      json
// @Param        q query string true "Search term (name, flat, email or contact)"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /admin/residents/search [get]
func (c *AdminController) SearchResidents() {
	term := c.Ctx.Query("q")
	if term == "" {
		response.ParamError(c.Ctx, "搜索关键词不能为空")
		return
	}

	residents, err := c.residentService().SearchResidents(term)
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, residents)
}

// GetGuards 获取门卫列表
// @Summary      List guards
// @Tags         Admin
// @Produce      json
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为10"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /admin/guards [get]
func (c *AdminController) GetGuards() {
	page, pageSize := c.pagination()

	guards, total, err := c.adminGuardService().GetAllGuards(page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取门卫列表失败", nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        guards,
	})
}

// GetGuard 获取门卫详情
// @Summary      Get guard details
// @Tags         Admin
// @Produce      json
// @Param        id path int true "Guard ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/guards/{id} [get]
func (c *AdminController) GetGuard() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	guard, err := c.adminGuardService().GetGuardByID(id)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.Success(c.Ctx, guard)
}

// CreateGuard 创建门卫档案
// @Summary      Create a guard
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body GuardRequest true "Guard details"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  ErrorResponse
// @Router       /admin/guards [post]
func (c *AdminController) CreateGuard() {
	var req GuardRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	guard := models.Guard{
		Name:     req.Name,
		Email:    req.Email,
		Contact:  req.Contact,
		Password: req.Password,
		Shift:    req.Shift,
	}

	if err := c.adminGuardService().CreateGuard(&guard); err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Guard created", guard)
}

// UpdateGuard 更新门卫档案
// @Summary      Update a guard
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path int true "Guard ID"
// @Param        request body UpdateGuardRequest true "Updated fields"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/guards/{id} [put]
func (c *AdminController) UpdateGuard() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	var req UpdateGuardRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Contact != "" {
		updates["contact"] = req.Contact
	}
	if req.Shift != "" {
		updates["shift"] = req.Shift
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	guard, err := c.adminGuardService().UpdateGuard(id, updates)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Guard updated", guard)
}

// DeleteGuard 删除门卫档案
// @Summary      Delete a guard
// @Tags         Admin
// @Produce      json
// @Param        id path int true "Guard ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/guards/{id} [delete]
func (c *AdminController) DeleteGuard() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	if err := c.adminGuardService().DeleteGuard(id); err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Guard deleted", nil)
}

// SearchGuards 搜索门卫
// @Summary      Search guards
// @Tags         Admin
// @Produce      json
// @Param        q query string true "Search term (name, email or contact)"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /admin/guards/search [get]
func (c *AdminController) SearchGuards() {
	term := c.Ctx.Query("q")
	if term == "" {
		response.ParamError(c.Ctx, "搜索关键词不能为空")
		return
	}

	guards, err := c.adminGuardService().SearchGuards(term)
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, guards)
}

// GetVisitorsOn 按日期查询小区访客
// @Summary      List visitors on a date
// @Tags         Admin
// @Produce      json
// @Param        date query string false "Date (YYYY-MM-DD), defaults to today"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /admin/visitors/on [get]
func (c *AdminController) GetVisitorsOn() {
	date := time.Now()
	if raw := c.Ctx.Query("date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			response.ParamError(c.Ctx, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	visitors, err := c.adminVisitorService().GetVisitorsOn(date)
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, visitors)
}

// GetActiveVisitors 查询当前在场访客
// @Summary      List visitors currently inside
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /admin/active-visitors [get]
func (c *AdminController) GetActiveVisitors() {
	visitors, err := c.adminVisitorService().GetActiveVisitors()
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, visitors)
}

// GetFlatVisitors 按单元查询访客历史
// @Summary      List visitor history for a flat
// @Tags         Admin
// @Produce      json
// @Param        flat path string true "Flat number"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /admin/flat-visitor/{flat} [get]
func (c *AdminController) GetFlatVisitors() {
	flatNo := c.Ctx.Param("flat")
	if flatNo == "" {
		response.ParamError(c.Ctx, "单元号不能为空")
		return
	}

	visitors, err := c.adminVisitorService().GetFlatVisitors(flatNo)
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, visitors)
}

// GetDashboardStats 获取小区运行总览
// @Summary      Community dashboard statistics
// @Description  Counts of today's active visitors, pending packages, open complaints and guards present; cached briefly in Redis
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /admin/stats [get]
func (c *AdminController) GetDashboardStats() {
	stats, err := c.adminService().GetDashboardStats()
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, stats)
}

// GetAdmins 获取管理员账户列表
// @Summary      List admin accounts
// @Tags         Admin
// @Produce      json
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为10"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /admin/admins [get]
func (c *AdminController) GetAdmins() {
	page, pageSize := c.pagination()

	admins, total, err := c.adminService().GetAllAdmins(page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取管理员列表失败", nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        admins,
	})
}

// GetAdmin 获取管理员详情
// @Summary      Get admin account details
// @Tags         Admin
// @Produce      json
// @Param        id path int true "Admin ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/admins/{id} [get]
func (c *AdminController) GetAdmin() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	admin, err := c.adminService().GetAdminByID(id)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.Success(c.Ctx, admin)
}

// CreateAdmin 创建管理员账户
// @Summary      Create an admin account
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body AdminRequest true "Admin account details"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  ErrorResponse
// @Router       /admin/admins [post]
func (c *AdminController) CreateAdmin() {
	var req AdminRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	admin := models.Admin{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	}

	if err := c.adminService().CreateAdmin(&admin); err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Admin created", admin)
}

package controllers

import (
	"securacore-http-service/internal/error/code"
	"securacore-http-service/internal/error/response"
	"securacore-http-service/models"
	"securacore-http-service/services"
	"securacore-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceComplaintController 定义投诉控制器接口
type InterfaceComplaintController interface {
	CreateComplaint()
	GetMyComplaints()
	GetComplaints()
	AssignComplaint()
	SetComplaintStatus()
}

// ComplaintController 处理投诉相关的请求
type ComplaintController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewComplaintController 创建一个新的投诉控制器
func NewComplaintController(ctx *gin.Context, container *container.ServiceContainer) *ComplaintController {
	return &ComplaintController{
		Ctx:       ctx,
		Container: container,
	}
}

// ComplaintRequest 表示住户提交的投诉
type ComplaintRequest struct {
	Title        string `json:"title" binding:"required" example:"Water leakage"`
	Description  string `json:"description" example:"Leakage in the parking basement"`
	Category     string `json:"category" example:"Maintenance"`
	Priority     string `json:"priority" example:"High"`
	ResidentName string `json:"resident_name" example:"Rahul Verma"`
}

// AssignComplaintRequest 表示管理员指派投诉的请求
type AssignComplaintRequest struct {
	AssignedTo string `json:"assigned_to" binding:"required" example:"Maintenance Team"`
}

// ComplaintStatusRequest 表示管理员更新投诉状态的请求
type ComplaintStatusRequest struct {
	Status string `json:"status" binding:"required" example:"Resolved"`
}

// complaintService 获取投诉服务
func (c *ComplaintController) complaintService() services.InterfaceComplaintService {
	return c.Container.GetService("complaint").(services.InterfaceComplaintService)
}

// claimFlatNo 从令牌声明中取出住户单元号
func (c *ComplaintController) claimFlatNo() string {
	if v, exists := c.Ctx.Get("flatNo"); exists {
		if flatNo, ok := v.(string); ok {
			return flatNo
		}
	}
	return ""
}

// HandleComplaintFunc 返回一个处理投诉请求的Gin处理函数
func HandleComplaintFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewComplaintController(ctx, container)

		switch method {
		case "createComplaint":
			controller.CreateComplaint()
		case "getMyComplaints":
			controller.GetMyComplaints()
		case "getComplaints":
			controller.GetComplaints()
		case "assignComplaint":
			controller.AssignComplaint()
		case "setComplaintStatus":
			controller.SetComplaintStatus()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// CreateComplaint 住户提交投诉
// @Summary      File a complaint
// @Description  The complaint starts as Pending with Medium priority unless specified
// @Tags         Complaint
// @Accept       json
// @Produce      json
// @Param        request body ComplaintRequest true "Complaint details"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  ErrorResponse
// @Router       /complaints [post]
func (c *ComplaintController) CreateComplaint() {
	var req ComplaintRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	complaint := models.Complaint{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Priority:     req.Priority,
		ResidentName: req.ResidentName,
		FlatNo:       c.claimFlatNo(),
	}

	if err := c.complaintService().CreateComplaint(&complaint); err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Complaint submitted", complaint)
}

// GetMyComplaints 住户查看本单元投诉
// @Summary      List the resident's own complaints
// @Tags         Complaint
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /complaints [get]
func (c *ComplaintController) GetMyComplaints() {
	complaints, err := c.complaintService().GetFlatComplaints(c.claimFlatNo())
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, complaints)
}

// GetComplaints 管理员查看全部投诉，支持按状态和优先级过滤
// @Summary      List all complaints
// @Tags         Complaint
// @Produce      json
// @Param        status query string false "Filter by status"
// @Param        priority query string false "Filter by priority"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /admin/complaints [get]
func (c *ComplaintController) GetComplaints() {
	complaints, err := c.complaintService().ListComplaints(c.Ctx.Query("status"), c.Ctx.Query("priority"))
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, complaints)
}

// AssignComplaint 管理员指派投诉，状态Pending提升为Open
// @Summary      Assign a complaint to a handler
// @Tags         Complaint
// @Accept       json
// @Produce      json
// @Param        id path int true "Complaint ID"
// @Param        request body AssignComplaintRequest true "Assignee"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/complaints/{id}/assign [put]
func (c *ComplaintController) AssignComplaint() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	var req AssignComplaintRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	complaint, err := c.complaintService().AssignComplaint(id, req.AssignedTo)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Complaint assigned", complaint)
}

// SetComplaintStatus 管理员更新投诉状态
// @Summary      Set complaint status
// @Tags         Complaint
// @Accept       json
// @Produce      json
// @Param        id path int true "Complaint ID"
// @Param        request body ComplaintStatusRequest true "New status"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/complaints/{id}/status [put]
func (c *ComplaintController) SetComplaintStatus() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	var req ComplaintStatusRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	complaint, err := c.complaintService().SetComplaintStatus(id, req.Status)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Complaint status updated", complaint)
}

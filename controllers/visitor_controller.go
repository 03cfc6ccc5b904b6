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

// InterfaceVisitorController 定义访客控制器接口
type InterfaceVisitorController interface {
	ScheduleVisit()
	ApproveVisit()
	DeclineVisit()
	GetVisitorRequests()
	GetTodayVisits()
	GetPendingApprovals()
	GetScheduledVisits()
	RequestVisit()
	GetRequestVisitStatus()
	ValidateVisit()
	CheckinVisitor()
}

// VisitorController 处理访客审批与入场相关的请求
type VisitorController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewVisitorController 创建一个新的访客控制器
func NewVisitorController(ctx *gin.Context, container *container.ServiceContainer) *VisitorController {
	return &VisitorController{
		Ctx:       ctx,
		Container: container,
	}
}

// ScheduleVisitRequest 表示住户预约访客请求
type ScheduleVisitRequest struct {
	Name      string `json:"name" binding:"required" example:"Rahul Verma"`
	Relation  string `json:"relation" binding:"required" example:"Friend"`
	Purpose   string `json:"purpose" binding:"required" example:"Dinner"`
	VisitDate string `json:"visit_date" binding:"required" example:"2025-06-15"` // YYYY-MM-DD
	TimeSlot  string `json:"time_slot" example:"18:00-20:00"`
}

// WalkInVisitRequest 表示门卫登记的现场来访请求
type WalkInVisitRequest struct {
	Name     string `json:"name" binding:"required" example:"Amit Kumar"`
	FlatNo   string `json:"flat_no" binding:"required" example:"A-101"`
	Relation string `json:"relation" binding:"required" example:"Courier"`
	Purpose  string `json:"purpose" binding:"required" example:"Document delivery"`
}

// visitorService 获取访客服务
func (c *VisitorController) visitorService() services.InterfaceVisitorService {
	return c.Container.GetService("visitor").(services.InterfaceVisitorService)
}

// claimFlatNo 从令牌声明中取出住户单元号
func (c *VisitorController) claimFlatNo() string {
	if v, exists := c.Ctx.Get("flatNo"); exists {
		if flatNo, ok := v.(string); ok {
			return flatNo
		}
	}
	return ""
}

// pathID 解析路径中的数字ID
func pathID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.ParamError(ctx, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

// parseDate 解析YYYY-MM-DD格式的日期参数
func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}

// HandleVisitorFunc 返回一个处理访客请求的Gin处理函数
func HandleVisitorFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewVisitorController(ctx, container)

		switch method {
		case "scheduleVisit":
			controller.ScheduleVisit()
		case "approveVisit":
			controller.ApproveVisit()
		case "declineVisit":
			controller.DeclineVisit()
		case "getVisitorRequests":
			controller.GetVisitorRequests()
		case "getTodayVisits":
			controller.GetTodayVisits()
		case "getPendingApprovals":
			controller.GetPendingApprovals()
		case "getScheduledVisits":
			controller.GetScheduledVisits()
		case "requestVisit":
			controller.RequestVisit()
		case "getRequestVisitStatus":
			controller.GetRequestVisitStatus()
		case "validateVisit":
			controller.ValidateVisit()
		case "checkinVisitor":
			controller.CheckinVisitor()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// ScheduleVisit 住户提前预约访客
// @Summary      Schedule a visit
// @Description  Resident schedules a future visit for their own flat; the request starts as PENDING
// @Tags         Visitor
// @Accept       json
// @Produce      json
// @Param        request body ScheduleVisitRequest true "Visit details"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  ErrorResponse
// @Router       /resident/schedule-visit [post]
func (c *VisitorController) ScheduleVisit() {
	var req ScheduleVisitRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	visitDate, err := parseDate(req.VisitDate)
	if err != nil {
		response.ParamError(c.Ctx, "visit_date must be YYYY-MM-DD")
		return
	}

	flatNo := c.claimFlatNo()
	if flatNo == "" {
		response.ParamError(c.Ctx, "flat number missing from token")
		return
	}

	visitor := models.Visitor{
		Name:      req.Name,
		FlatNo:    flatNo,
		Relation:  req.Relation,
		Purpose:   req.Purpose,
		VisitDate: &visitDate,
		TimeSlot:  req.TimeSlot,
	}

	if err := c.visitorService().ScheduleVisit(&visitor); err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Visit scheduled successfully", visitor)
}

// ApproveVisit 住户批准待审批访客
// @Summary      Approve a visit request
// @Tags         Visitor
// @Produce      json
// @Param        id path int true "Visitor ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /resident/approve-visit/{id} [put]
func (c *VisitorController) ApproveVisit() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	approvedBy := "resident"
	if v, exists := c.Ctx.Get("userID"); exists {
		if userID, ok := v.(float64); ok {
			approvedBy = "resident:" + strconv.FormatUint(uint64(userID), 10)
		}
	}

	visitor, err := c.visitorService().ApproveVisit(id, approvedBy)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Visit approved", visitor)
}

// DeclineVisit 住户拒绝待审批访客
// @Summary      Decline a visit request
// @Tags         Visitor
// @Produce      json
// @Param        id path int true "Visitor ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /resident/decline-visit/{id} [put]
func (c *VisitorController) DeclineVisit() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	visitor, err := c.visitorService().DeclineVisit(id)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Visit declined", visitor)
}

// GetVisitorRequests 住户查看本单元全部访客记录
// @Summary      List all visitor requests for the resident's flat
// @Tags         Visitor
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /resident/visitor-requests [get]
func (c *VisitorController) GetVisitorRequests() {
	visitors, err := c.visitorService().GetFlatVisitors(c.claimFlatNo())
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, visitors)
}

// GetTodayVisits 住户查看今日到访
// @Summary      List today's visits for the resident's flat
// @Tags         Visitor
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /resident/today-visits [get]
func (c *VisitorController) GetTodayVisits() {
	visitors, err := c.visitorService().GetTodayVisits(c.claimFlatNo())
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, visitors)
}

// GetPendingApprovals 住户查看待审批请求
// @Summary      List pending approval requests for the resident's flat
// @Tags         Visitor
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /resident/pending-approvals [get]
func (c *VisitorController) GetPendingApprovals() {
	visitors, err := c.visitorService().GetPendingRequests(c.claimFlatNo())
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, visitors)
}

// GetScheduledVisits 住户查看已预约访客，支持按日期过滤
// @Summary      List scheduled visits for the resident's flat
// @Tags         Visitor
// @Produce      json
// @Param        date query string false "Filter by date (YYYY-MM-DD)"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /resident/scheduled-visits [get]
func (c *VisitorController) GetScheduledVisits() {
	var date *time.Time
	if raw := c.Ctx.Query("date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			response.ParamError(c.Ctx, "date must be YYYY-MM-DD")
			return
		}
		date = &parsed
	}

	visitors, err := c.visitorService().GetScheduledVisits(c.claimFlatNo(), date)
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Ctx, visitors)
}

// RequestVisit 门卫登记现场来访，等待住户审批
// @Summary      Register a walk-in visit request
// @Description  Guard registers a visitor at the gate; the request stays PENDING until the resident approves or declines it
// @Tags         Visitor
// @Accept       json
// @Produce      json
// @Param        request body WalkInVisitRequest true "Walk-in visitor details"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      400  {object}  ErrorResponse
// @Router       /guard/request-visit [post]
func (c *VisitorController) RequestVisit() {
	var req WalkInVisitRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	now := time.Now()
	visitor := models.Visitor{
		Name:      req.Name,
		FlatNo:    req.FlatNo,
		Relation:  req.Relation,
		Purpose:   req.Purpose,
		VisitDate: &now,
	}

	if err := c.visitorService().RequestVisit(&visitor); err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Visit request submitted", visitor)
}

// GetRequestVisitStatus 门卫轮询请求审批状态
// @Summary      Check approval status of a visit request
// @Tags         Visitor
// @Produce      json
// @Param        id query int true "Visitor ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Router       /guard/request-visit-status [get]
func (c *VisitorController) GetRequestVisitStatus() {
	raw := c.Ctx.Query("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.ParamError(c.Ctx, "无效的ID")
		return
	}

	visitor, err := c.visitorService().GetVisitorByID(uint(id))
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"id":     visitor.ID,
		"status": visitor.Status,
	})
}

// ValidateVisit 门卫放行前校验访客资格
// @Summary      Validate whether a visitor may enter
// @Description  Returns a verdict without mutating state; check-in is a separate operation
// @Tags         Visitor
// @Produce      json
// @Param        id query int true "Visitor ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /guard/validate-visit [get]
func (c *VisitorController) ValidateVisit() {
	raw := c.Ctx.Query("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.ParamError(c.Ctx, "无效的ID")
		return
	}

	valid, reason := c.visitorService().ValidateVisit(uint(id))
	response.Success(c.Ctx, gin.H{
		"valid":  valid,
		"reason": reason,
	})
}

// CheckinVisitor 门卫对已批准访客执行入场
// @Summary      Check in an approved visitor
// @Tags         Visitor
// @Produce      json
// @Param        id path int true "Visitor ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /guard/visitor/{id}/checkin [post]
func (c *VisitorController) CheckinVisitor() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	visitor, err := c.visitorService().CheckinVisitor(id)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Visitor checked in", visitor)
}

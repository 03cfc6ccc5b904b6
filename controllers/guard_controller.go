package controllers

import (
	"time"

	"securacore-http-service/internal/error/code"
	"securacore-http-service/internal/error/response"
	"securacore-http-service/services"
	"securacore-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceGuardController 定义门卫考勤控制器接口
type InterfaceGuardController interface {
	CheckIn()
	CheckOut()
	GetAttendance()
	GetGuardsOn()
}

// GuardController 处理门卫考勤相关的请求
type GuardController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewGuardController 创建一个新的门卫控制器
func NewGuardController(ctx *gin.Context, container *container.ServiceContainer) *GuardController {
	return &GuardController{
		Ctx:       ctx,
		Container: container,
	}
}

// guardService 获取门卫服务
func (c *GuardController) guardService() services.InterfaceGuardService {
	return c.Container.GetService("guard").(services.InterfaceGuardService)
}

// HandleGuardFunc 返回一个处理门卫考勤请求的Gin处理函数
func HandleGuardFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewGuardController(ctx, container)

		switch method {
		case "checkIn":
			controller.CheckIn()
		case "checkOut":
			controller.CheckOut()
		case "getAttendance":
			controller.GetAttendance()
		case "getGuardsOn":
			controller.GetGuardsOn()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// CheckIn 门卫上岗打卡，同一天重复打卡只记录首次时间
// @Summary      Guard shift check-in
// @Tags         Guard
// @Produce      json
// @Param        guardId path int true "Guard ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Router       /guard/checkin/{guardId} [post]
func (c *GuardController) CheckIn() {
	id, ok := pathID(c.Ctx, "guardId")
	if !ok {
		return
	}

	attendance, err := c.guardService().GuardCheckIn(id)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Guard checked in", attendance)
}

// CheckOut 门卫下岗打卡
// @Summary      Guard shift check-out
// @Tags         Guard
// @Produce      json
// @Param        guardId path int true "Guard ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Router       /guard/checkout/{guardId} [post]
func (c *GuardController) CheckOut() {
	id, ok := pathID(c.Ctx, "guardId")
	if !ok {
		return
	}

	attendance, err := c.guardService().GuardCheckOut(id)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "Guard checked out", attendance)
}

// GetAttendance 按日期查询门卫考勤，默认当天
// @Summary      List guard attendance for a date
// @Tags         Guard
// @Produce      json
// @Param        date query string false "Date (YYYY-MM-DD), defaults to today"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /admin/guard-attendance [get]
func (c *GuardController) GetAttendance() {
	date := time.Now()
	if raw := c.Ctx.Query("date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			response.ParamError(c.Ctx, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	records, err := c.guardService().GetAttendanceByDate(date)
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, records)
}

// GetGuardsOn 查询某天在岗的门卫，默认当天
// @Summary      List guards on shift for a date
// @Tags         Guard
// @Produce      json
// @Param        date query string false "Date (YYYY-MM-DD), defaults to today"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /admin/guards/on [get]
func (c *GuardController) GetGuardsOn() {
	date := time.Now()
	if raw := c.Ctx.Query("date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			response.ParamError(c.Ctx, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	guards, err := c.guardService().GetGuardsOn(date)
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, guards)
}

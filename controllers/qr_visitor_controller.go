package controllers

import (
	"net/http"
	"strconv"
	"time"

	"securacore-http-service/internal/error/code"
	"securacore-http-service/internal/error/response"
	"securacore-http-service/models"
	"securacore-http-service/services"
	"securacore-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceQRVisitorController 定义二维码访客控制器接口
type InterfaceQRVisitorController interface {
	CreateQRVisitor()
	ValidateQRVisitor()
	CheckinQRVisitor()
	CheckoutQRVisitor()
	GetQRImage()
	GetQRVisitors()
}

// QRVisitorController 处理二维码访客通行证相关的请求
type QRVisitorController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewQRVisitorController 创建一个新的二维码访客控制器
func NewQRVisitorController(ctx *gin.Context, container *container.ServiceContainer) *QRVisitorController {
	return &QRVisitorController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateQRVisitorRequest 表示住户签发二维码通行证的请求
type CreateQRVisitorRequest struct {
	Name      string `json:"name" binding:"required" example:"Priya Sharma"`
	Purpose   string `json:"purpose" binding:"required" example:"Family visit"`
	VisitDate string `json:"visit_date" binding:"required" example:"2025-06-15"` // YYYY-MM-DD
	Relation  string `json:"relation" binding:"required" example:"Sister"`
}

// ValidateQRRequest 表示门卫扫码后上送的二维码载荷
type ValidateQRRequest struct {
	ID                uint   `json:"id" binding:"required" example:"1"`
	Name              string `json:"name" example:"Priya Sharma"`
	Purpose           string `json:"purpose" example:"Family visit"`
	VisitDate         string `json:"visitDate" example:"2025-06-15"`
	Relation          string `json:"relation" example:"Sister"`
	FlatNo            string `json:"flatNo" example:"A-101"`
	Status            string `json:"status" example:"APPROVED"`
	CreatedByResident bool   `json:"createdByResident" example:"true"`
	QRCode            string `json:"qrCode" binding:"required" example:"QR-3f2c..."`
}

// qrVisitorService 获取二维码访客服务
func (c *QRVisitorController) qrVisitorService() services.InterfaceQRVisitorService {
	return c.Container.GetService("qr_visitor").(services.InterfaceQRVisitorService)
}

// claimFlatNo 从令牌声明中取出住户单元号
func (c *QRVisitorController) claimFlatNo() string {
	if v, exists := c.Ctx.Get("flatNo"); exists {
		if flatNo, ok := v.(string); ok {
			return flatNo
		}
	}
	return ""
}

// HandleQRVisitorFunc 返回一个处理二维码访客请求的Gin处理函数
func HandleQRVisitorFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewQRVisitorController(ctx, container)

		switch method {
		case "createQRVisitor":
			controller.CreateQRVisitor()
		case "validateQRVisitor":
			controller.ValidateQRVisitor()
		case "checkinQRVisitor":
			controller.CheckinQRVisitor()
		case "checkoutQRVisitor":
			controller.CheckoutQRVisitor()
		case "getQRImage":
			controller.GetQRImage()
		case "getQRVisitors":
			controller.GetQRVisitors()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// CreateQRVisitor 住户签发二维码通行证
// @Summary      Issue a QR entry pass
// @Description  Resident issues a pass for their own flat; the pass is born APPROVED and the response carries the payload to embed in the QR image
// @Tags         QRVisitor
// @Accept       json
// @Produce      json
// @Param        request body CreateQRVisitorRequest true "Pass details"
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=models.QRPayload}
// @Failure      400  {object}  ErrorResponse
// @Router       /qr-visitor/create [post]
func (c *QRVisitorController) CreateQRVisitor() {
	var req CreateQRVisitorRequest
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

	visitor := models.QRVisitor{
		Name:      req.Name,
		Purpose:   req.Purpose,
		VisitDate: visitDate,
		Relation:  req.Relation,
		FlatNo:    flatNo,
	}

	payload, err := c.qrVisitorService().CreateQRVisitor(&visitor)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "QR pass created", payload)
}

// ValidateQRVisitor 门卫扫码后校验二维码载荷
// @Summary      Validate a scanned QR payload
// @Description  The payload is never trusted: the record is re-fetched by ID and every claimed field is cross-checked against server state
// @Tags         QRVisitor
// @Accept       json
// @Produce      json
// @Param        request body ValidateQRRequest true "Scanned payload"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /qr-visitor/validate [post]
func (c *QRVisitorController) ValidateQRVisitor() {
	var req ValidateQRRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	payload := models.QRPayload{
		ID:                req.ID,
		Name:              req.Name,
		Purpose:           req.Purpose,
		VisitDate:         req.VisitDate,
		Relation:          req.Relation,
		FlatNo:            req.FlatNo,
		Status:            req.Status,
		CreatedByResident: req.CreatedByResident,
		QRCode:            req.QRCode,
	}

	result, err := c.qrVisitorService().ValidateQRVisitor(&payload)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.Success(c.Ctx, result)
}

// CheckinQRVisitor 门卫对有效二维码执行入场
// @Summary      Check in a QR pass holder
// @Tags         QRVisitor
// @Produce      json
// @Param        id path int true "QR visitor ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /qr-visitor/checkin/{id} [post]
func (c *QRVisitorController) CheckinQRVisitor() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	visitor, err := c.qrVisitorService().CheckinQRVisitor(id)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "QR visitor checked in", visitor)
}

// CheckoutQRVisitor 访客离场，通行证完成整个生命周期
// @Summary      Check out a QR pass holder
// @Tags         QRVisitor
// @Produce      json
// @Param        id path int true "QR visitor ID"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /qr-visitor/checkout/{id} [put]
func (c *QRVisitorController) CheckoutQRVisitor() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	visitor, err := c.qrVisitorService().CheckoutQRVisitor(id)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	response.SuccessWithMessage(c.Ctx, "QR visitor checked out", visitor)
}

// GetQRImage 渲染二维码PNG图片
// @Summary      Render the QR pass as a PNG image
// @Tags         QRVisitor
// @Produce      png
// @Param        id path int true "QR visitor ID"
// @Param        size query int false "Image size in pixels, default 256"
// @Security     BearerAuth
// @Success      200  {file}  binary
// @Failure      404  {object}  ErrorResponse
// @Router       /qr-visitor/{id}/image [get]
func (c *QRVisitorController) GetQRImage() {
	id, ok := pathID(c.Ctx, "id")
	if !ok {
		return
	}

	size, _ := strconv.Atoi(c.Ctx.DefaultQuery("size", "256"))
	if size < 64 || size > 1024 {
		size = 256
	}

	png, err := c.qrVisitorService().RenderQRImage(id, size)
	if err != nil {
		response.Fail(c.Ctx, services.ErrorCode(err), nil)
		return
	}

	c.Ctx.Data(http.StatusOK, "image/png", png)
}

// GetQRVisitors 查询二维码通行证历史，支持按单元号和日期过滤
// @Summary      List QR passes
// @Tags         QRVisitor
// @Produce      json
// @Param        flat_no query string false "Filter by flat number"
// @Param        date query string false "Filter by visit date (YYYY-MM-DD)"
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /qr-visitor [get]
func (c *QRVisitorController) GetQRVisitors() {
	flatNo := c.Ctx.Query("flat_no")
	// 住户只能看自己单元的通行证
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

	svc := c.qrVisitorService()
	var (
		visitors []models.QRVisitor
		err      error
	)
	switch {
	case flatNo != "" && date != nil:
		visitors, err = svc.GetQRVisitorsByFlatAndDate(flatNo, *date)
	case flatNo != "":
		visitors, err = svc.GetQRVisitorsByFlat(flatNo)
	case date != nil:
		visitors, err = svc.GetQRVisitorsByDate(*date)
	default:
		visitors, err = svc.GetAllQRVisitors()
	}
	if err != nil {
		response.Fail(c.Ctx, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Ctx, visitors)
}

package controllers

import (
	"securacore-http-service/internal/error/code"
	"securacore-http-service/internal/error/response"
	"securacore-http-service/models"
	"securacore-http-service/services"
	"securacore-http-service/services/container"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// InterfaceJWTController 定义认证控制器接口
type InterfaceJWTController interface {
	Login()
}

// JWTController 处理身份验证请求
type JWTController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewJWTController 创建一个新的认证控制器
func NewJWTController(ctx *gin.Context, container *container.ServiceContainer) *JWTController {
	return &JWTController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest 表示登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// LoginData 表示登录成功后返回的数据
type LoginData struct {
	Token    string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	UserID   uint   `json:"user_id" example:"1"`
	Role     string `json:"role" example:"admin"`
	Username string `json:"username" example:"admin"`
}

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Code    int         `json:"code" example:"401"`
	Message string      `json:"message" example:"Invalid username or password"`
	Data    interface{} `json:"data"`
}

// HandleJWTFunc 返回一个处理JWT认证请求的Gin处理函数
func HandleJWTFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewJWTController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// Login 处理用户登录
// @Summary      User Login
// @Description  Process user login and return JWT token with different permissions based on user role
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request parameters"
// @Success      200  {object}  response.Response{data=LoginData}  "Success response with token"
// @Failure      400  {object}  ErrorResponse  "Bad request"
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /auth/login [post]
func (c *JWTController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	db := c.Container.GetDB()
	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)

	// 尝试查找管理员用户
	var admin models.Admin
	if err := db.Where("username = ?", req.Username).First(&admin).Error; err == nil {
		if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err == nil {
			token, err := jwtService.GenerateToken(admin.ID, "admin", "")
			if err != nil {
				response.FailWithMessage(c.Ctx, code.ErrDatabase, "生成令牌失败", nil)
				return
			}

			response.Success(c.Ctx, gin.H{
				"token":      token,
				"user_id":    admin.ID,
				"role":       "admin",
				"username":   admin.Username,
				"created_at": admin.CreatedAt,
			})
			return
		}
	}

	// 尝试查找住户（邮箱登录）
	var resident models.Resident
	if err := db.Where("email = ?", req.Username).First(&resident).Error; err == nil {
		if err := bcrypt.CompareHashAndPassword([]byte(resident.Password), []byte(req.Password)); err == nil {
			token, err := jwtService.GenerateToken(resident.ID, "resident", resident.FlatNo)
			if err != nil {
				response.FailWithMessage(c.Ctx, code.ErrDatabase, "生成令牌失败", nil)
				return
			}

			response.Success(c.Ctx, gin.H{
				"token":      token,
				"user_id":    resident.ID,
				"role":       "resident",
				"username":   resident.Name,
				"flat_no":    resident.FlatNo,
				"created_at": resident.CreatedAt,
			})
			return
		}
	}

	// 尝试查找门卫（邮箱登录）
	var guard models.Guard
	if err := db.Where("email = ?", req.Username).First(&guard).Error; err == nil {
		if err := bcrypt.CompareHashAndPassword([]byte(guard.Password), []byte(req.Password)); err == nil {
			token, err := jwtService.GenerateToken(guard.ID, "guard", "")
			if err != nil {
				response.FailWithMessage(c.Ctx, code.ErrDatabase, "生成令牌失败", nil)
				return
			}

			response.Success(c.Ctx, gin.H{
				"token":      token,
				"user_id":    guard.ID,
				"role":       "guard",
				"username":   guard.Name,
				"shift":      guard.Shift,
				"created_at": guard.CreatedAt,
			})
			return
		}
	}

	// 用户名或密码无效
	response.Unauthorized(c.Ctx)
}

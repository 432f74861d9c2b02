package holiday

import (
	"go-portal-rh/internal/middleware"
	"go-portal-rh/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, jwtSecret string) {
	holidays := r.Group("/holidays")
	holidays.Use(middleware.AuthMiddleware(jwtSecret))
	{
		holidays.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceHoliday, rbac.ActionRead), handler.List)
		holidays.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceHoliday, rbac.ActionManage), handler.Create)
	}
}

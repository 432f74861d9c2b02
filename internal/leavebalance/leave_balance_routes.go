package leavebalance

import (
	"go-portal-rh/internal/middleware"
	"go-portal-rh/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	jwtSecret string,
) {
	auth := middleware.AuthMiddleware(jwtSecret)

	balances := r.Group("/leave-balances")
	balances.Use(auth)
	{
		balances.GET("/mine", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveBalance, rbac.ActionReadOwn), handler.GetMine)
		balances.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveBalance, rbac.ActionReadAny), handler.ListByYear)
		balances.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveBalance, rbac.ActionProvision), handler.Provision)
	}

	r.GET("/employees/:employee_id/leave-balance",
		auth,
		middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveBalance, rbac.ActionReadAny),
		handler.GetForEmployee,
	)
}

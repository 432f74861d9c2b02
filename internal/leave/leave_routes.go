package leave

import (
	"go-portal-rh/internal/middleware"
	"go-portal-rh/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RegisterRoutes mounts the leave endpoints. rdb may be nil, in which case
// submissions rely on the database uniqueness of the Idempotency-Key alone.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	jwtSecret string,
	rdb *redis.Client,
) {
	auth := middleware.AuthMiddleware(jwtSecret)

	submit := []gin.HandlerFunc{
		middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionCreate),
		middleware.RateLimitByEmployee(1, 5),
	}
	if rdb != nil {
		submit = append(submit, middleware.Idempotency(rdb, zap.L().Named("middleware.idempotency")))
	}
	submit = append(submit, handler.Submit)

	leaves := r.Group("/leaves")
	leaves.Use(auth, middleware.ContextLogger(zap.L()))
	{
		leaves.POST("", submit...)
		leaves.GET("/mine", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionReadOwn), handler.GetMine)
		leaves.GET("/manager/pending", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionManagerDecide), handler.ListPendingForManager)
		leaves.GET("/hr/queue", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionHRDecide), handler.ListHRQueue)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionReadOwn), handler.GetByID)
		leaves.POST("/:id/manager-approve", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionManagerDecide), handler.ManagerApprove)
		leaves.POST("/:id/manager-reject", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionManagerDecide), handler.ManagerReject)
		leaves.POST("/:id/hr-approve", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionHRDecide), handler.HRApprove)
		leaves.POST("/:id/hr-reject", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionHRDecide), handler.HRReject)
	}

	r.GET("/employees/:employee_id/leaves",
		auth,
		middleware.ContextLogger(zap.L()),
		middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionReadTeam),
		handler.GetForEmployee,
	)
}

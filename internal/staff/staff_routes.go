package staff

import (
	"github.com/Jordan1022/laundryco-scheduler/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authRequired gin.HandlerFunc) {
	members := r.Group("/staff")
	members.Use(authRequired)
	members.Use(middleware.RoleMiddleware(RoleManager, RoleAdmin))
	{
		members.GET("", handler.GetAll)
		members.GET("/:id", handler.GetById)
		members.POST("", handler.Create)
		members.PUT("/:id/role", handler.UpdateRole)
		members.PATCH("/:id/status", handler.SetStatus)
		members.PUT("/:id/password", handler.ResetPassword)
	}
}

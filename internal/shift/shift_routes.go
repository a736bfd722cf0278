package shift

import (
	"github.com/Jordan1022/laundryco-scheduler/internal/middleware"
	"github.com/Jordan1022/laundryco-scheduler/internal/staff"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authRequired gin.HandlerFunc) {
	shifts := r.Group("/shifts")
	shifts.Use(authRequired)
	{
		shifts.GET("", handler.GetAll)
		shifts.GET("/:id", handler.GetById)

		managed := shifts.Group("")
		managed.Use(middleware.RoleMiddleware(staff.RoleManager, staff.RoleAdmin))
		{
			managed.POST("", handler.Create)
			managed.PUT("/:id", handler.Update)
			managed.PATCH("/:id/status", handler.SetStatus)
		}
	}
}

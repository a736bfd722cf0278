package timeoff

import (
	"github.com/Jordan1022/laundryco-scheduler/internal/middleware"
	"github.com/Jordan1022/laundryco-scheduler/internal/staff"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authRequired gin.HandlerFunc) {
	requests := r.Group("/time-off")
	requests.Use(authRequired)
	{
		requests.POST("", handler.Submit)
		requests.GET("/mine", handler.GetMine)

		managed := requests.Group("")
		managed.Use(middleware.RoleMiddleware(staff.RoleManager, staff.RoleAdmin))
		{
			managed.GET("", handler.GetAll)
			managed.PATCH("/:id/review", handler.Review)
		}
	}
}

package swap

import (
	"github.com/Jordan1022/laundryco-scheduler/internal/middleware"
	"github.com/Jordan1022/laundryco-scheduler/internal/staff"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authRequired gin.HandlerFunc) {
	swaps := r.Group("/swaps")
	swaps.Use(authRequired)
	{
		swaps.POST("", handler.Submit)
		swaps.GET("/mine", handler.GetMine)

		managed := swaps.Group("")
		managed.Use(middleware.RoleMiddleware(staff.RoleManager, staff.RoleAdmin))
		{
			managed.GET("", handler.GetAll)
			managed.PATCH("/:id/review", handler.Review)
		}
	}
}

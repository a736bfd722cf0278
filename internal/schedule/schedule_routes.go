package schedule

import (
	"github.com/Jordan1022/laundryco-scheduler/internal/middleware"
	"github.com/Jordan1022/laundryco-scheduler/internal/staff"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authRequired gin.HandlerFunc) {
	sched := r.Group("/schedule")
	sched.Use(authRequired)
	{
		sched.GET("/mine", handler.MyRoster)
		sched.GET("/mine/calendar.ics", handler.MyCalendar)

		managed := sched.Group("")
		managed.Use(middleware.RoleMiddleware(staff.RoleManager, staff.RoleAdmin))
		{
			managed.GET("", handler.Roster)
			managed.GET("/export.xlsx", handler.ExportRoster)
		}
	}
}

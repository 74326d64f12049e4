package routes

import (
	"github.com/gin-gonic/gin"

	controller "github.com/JioBaba369/Go2Culture-sub001/controllers"
	"github.com/JioBaba369/Go2Culture-sub001/helpers"
	"github.com/JioBaba369/Go2Culture-sub001/middleware"
)

func BookingRoutes(incomingRoutes *gin.Engine, bc *controller.BookingController, tokens *helpers.TokenHelper) {
	group := incomingRoutes.Group("/bookings")
	group.Use(middleware.Authentication(tokens))

	group.POST("", bc.Create())
	group.POST("/:booking_id/confirm", bc.Confirm())
	group.POST("/:booking_id/cancel", bc.Cancel())
	group.POST("/:booking_id/reschedule", bc.Reschedule())
	group.POST("/:booking_id/reschedule/respond", bc.RescheduleRespond())
	group.POST("/:booking_id/review", bc.Review())
}

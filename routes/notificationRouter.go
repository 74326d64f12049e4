package routes

import (
	"github.com/gin-gonic/gin"

	controller "github.com/JioBaba369/Go2Culture-sub001/controllers"
	"github.com/JioBaba369/Go2Culture-sub001/helpers"
	"github.com/JioBaba369/Go2Culture-sub001/middleware"
)

func NotificationRoutes(incomingRoutes *gin.Engine, nc *controller.NotificationController, tokens *helpers.TokenHelper) {
	group := incomingRoutes.Group("/notifications")
	group.Use(middleware.Authentication(tokens))

	group.GET("", nc.List())
	group.GET("/unread-count", nc.UnreadCount())
	group.POST("/read-all", nc.MarkAllRead())
}

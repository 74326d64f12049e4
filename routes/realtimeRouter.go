package routes

import (
	"github.com/gin-gonic/gin"

	controller "github.com/JioBaba369/Go2Culture-sub001/controllers"
	"github.com/JioBaba369/Go2Culture-sub001/helpers"
	"github.com/JioBaba369/Go2Culture-sub001/middleware"
)

func RealtimeRoutes(incomingRoutes *gin.Engine, rc *controller.RealtimeController, tokens *helpers.TokenHelper) {
	incomingRoutes.GET("/ws", middleware.Authentication(tokens), rc.Serve())
}

package routes

import (
	"github.com/gin-gonic/gin"

	controller "github.com/JioBaba369/Go2Culture-sub001/controllers"
	"github.com/JioBaba369/Go2Culture-sub001/helpers"
	"github.com/JioBaba369/Go2Culture-sub001/middleware"
)

func ConversationRoutes(incomingRoutes *gin.Engine, cc *controller.ConversationController, mc *controller.MessageController, tokens *helpers.TokenHelper) {
	group := incomingRoutes.Group("/conversations")
	group.Use(middleware.Authentication(tokens))

	group.GET("", cc.ListForUser())
	group.POST("", cc.GetOrCreate())
	group.POST("/:conversation_id/read", cc.MarkRead())
	group.POST("/:conversation_id/messages", mc.Send())
	group.GET("/:conversation_id/messages", mc.List())

	// Administrative oversight lives under its own prefix so the wildcard
	// routes above stay unambiguous.
	incomingRoutes.GET("/admin/conversations", middleware.Authentication(tokens), cc.ListAll())
}

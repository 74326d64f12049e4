package routes

import (
	"github.com/gin-gonic/gin"

	controller "github.com/JioBaba369/Go2Culture-sub001/controllers"
	"github.com/JioBaba369/Go2Culture-sub001/helpers"
	"github.com/JioBaba369/Go2Culture-sub001/middleware"
)

func UserRoutes(incomingRoutes *gin.Engine, uc *controller.UserController, tokens *helpers.TokenHelper) {
	incomingRoutes.POST("/auth/signup", uc.Signup())
	incomingRoutes.POST("/auth/login", uc.Login())

	incomingRoutes.GET("/users/:user_id", middleware.Authentication(tokens), uc.GetUser())
	incomingRoutes.POST("/profile/photo", middleware.Authentication(tokens), uc.UploadPhoto())
	incomingRoutes.POST("/admin/users/:user_id/approve-host", middleware.Authentication(tokens), uc.ApproveHost())
}

package app

import (
	"course_assistant_backend/docs"
	"course_assistant_backend/internal/config"
	"course_assistant_backend/internal/middleware"
	"course_assistant_backend/internal/model"

	"course_assistant_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

// registerStudentRoutes 课程页面内嵌助教组件用到的学生端接口
func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/profile", c.auth.GetProfile)

	assistant := group.Group("/assistant/instances/:id")
	{
		assistant.GET("", c.instance.GetStudentView)
		assistant.POST("/ask", c.assistant.Ask)
		assistant.GET("/history", c.assistant.GetHistory)
		assistant.DELETE("/history", c.assistant.ResetHistory)
		assistant.GET("/state", c.assistant.GetState)
		assistant.POST("/reflection", c.assistant.SubmitReflection)
		assistant.GET("/reflections/mine", c.assistant.ListMyReflections)
	}
}

// registerTeacherRoutes 助教实例与课程内容的维护接口，教师和管理员可用
func (a *App) registerTeacherRoutes(group *gin.RouterGroup, c *controllers) {
	teacher := group.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/instances", c.instance.Create)
		teacher.GET("/instances", c.instance.List)
		teacher.GET("/instances/:id", c.instance.Get)
		teacher.PUT("/instances/:id", c.instance.Update)
		teacher.DELETE("/instances/:id", c.instance.Delete)
		teacher.GET("/instances/:id/reflections", c.reflection.ListAll)

		teacher.POST("/blocks", c.content.CreateBlock)
		teacher.GET("/blocks", c.content.ListByUnit)
		teacher.POST("/blocks/video", c.content.UploadVideo)
		teacher.GET("/blocks/:id", c.content.GetBlock)
		teacher.PUT("/blocks/:id", c.content.UpdateBlock)
		teacher.DELETE("/blocks/:id", c.content.DeleteBlock)
		teacher.POST("/blocks/:id/transcript", c.content.UploadTranscript)
	}
}

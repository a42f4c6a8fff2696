package router

import (
	"github.com/campaignsite/internal/config"
	"github.com/campaignsite/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// Setup 配置 Gin 引擎和路由
func Setup(cfg config.AppConfig, api *handler.API) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("campaignsite_session", store))

	// 静态文件服务
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// 公开展示接口
	r.GET("/api/gallery/:category", api.ShowGallery)

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", api.Login)
		admin.GET("/logout", api.Logout)

		// 需要认证的后台路由
		auth := admin.Group("/api")
		auth.Use(handler.AuthRequired())
		{
			auth.POST("/uploads", api.UploadImage)
			auth.GET("/events", api.GalleryEvents)

			gallery := auth.Group("/gallery/:category")
			{
				gallery.GET("", api.ListGalleryItems)
				gallery.POST("", api.CreateGalleryItem)
				gallery.PUT("/order", api.ReorderGalleryItems)
				gallery.POST("/move", api.MoveGalleryItem)
				gallery.PUT("/:id", api.UpdateGalleryItem)
				gallery.DELETE("/:id", api.DeleteGalleryItem)
				gallery.POST("/:id/featured", api.ToggleGalleryFeatured)
			}
		}
	}

	return r
}

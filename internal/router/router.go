package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/greengenius/greengenius/internal/handlers"
	"github.com/greengenius/greengenius/internal/middleware"
	"github.com/greengenius/greengenius/internal/sensors"
	"github.com/greengenius/greengenius/internal/services"
	"github.com/greengenius/greengenius/internal/types"
)

type Dependencies struct {
	Identifier   services.Identifier
	Images       *services.ImageStore
	Publisher    services.Publisher
	Sensors      sensors.Source
	CookieDomain string
}

func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.Default()

	handlers.Domain = deps.CookieDomain

	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  types.OriginAllowed,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	identify := handlers.NewIdentifyController(deps.Identifier, deps.Images, deps.Publisher)
	sensorController := handlers.NewSensorController(deps.Sensors)
	dashboard := handlers.NewDashboardController(deps.Sensors)
	uploads := handlers.NewUploadController(deps.Images)

	// unprefixed routes used by the mobile app's API client
	r.GET("/", handlers.Root)
	r.POST("/identify", identify.Identify)
	r.GET("/status", sensorController.GetStatus)
	r.POST("/analyze", handlers.AnalyzeHealth)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/status", sensorController.GetStatus)
		api.POST("/analyze", handlers.AnalyzeHealth)
		api.POST("/identify", middleware.AuthMiddleware(), identify.Identify)
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.CreateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		pots := api.Group("/pots", middleware.AuthMiddleware())
		{
			pots.POST("", handlers.SavePot)
			pots.GET("", handlers.ListPots)
			pots.GET("/:pot_id", handlers.GetPot)
			pots.PATCH("/:pot_id", handlers.RenamePot)
			pots.PUT("/:pot_id/plant", handlers.UpdatePotPlant)
			pots.DELETE("/:pot_id", handlers.DeletePot)

			pots.GET("/:pot_id/status", sensorController.GetPotStatus)
			pots.GET("/:pot_id/dashboard", dashboard.GetDashboard)

			pots.POST("/:pot_id/readings", handlers.SaveSensorReading)
			pots.GET("/:pot_id/readings", handlers.GetSensorHistory)

			pots.POST("/:pot_id/growth", handlers.SaveGrowthEntry)
			pots.GET("/:pot_id/growth", handlers.GetGrowthHistory)
			pots.GET("/:pot_id/growth/summary", handlers.GetGrowthSummary)
		}

		communities := api.Group("/communities", middleware.AuthMiddleware())
		{
			communities.POST("", handlers.CreateCommunity)
			communities.GET("", handlers.ListCommunities)
			communities.GET("/:community_id", handlers.GetCommunity)
			communities.DELETE("/:community_id", handlers.DeleteCommunity)
			communities.POST("/:community_id/join", handlers.JoinCommunity)
			communities.POST("/:community_id/leave", handlers.LeaveCommunity)

			communities.GET("/:community_id/posts", handlers.ListPosts)
			communities.POST("/:community_id/posts", handlers.CreatePost)
			communities.DELETE("/:community_id/posts/:post_id", handlers.DeletePost)
			communities.POST("/:community_id/posts/:post_id/like", handlers.ToggleLike)
			communities.POST("/:community_id/posts/:post_id/comments", handlers.CreateComment)
		}

		uploadRoutes := api.Group("/uploads", middleware.AuthMiddleware())
		{
			uploadRoutes.POST("/plant", uploads.UploadPlantImage)
			uploadRoutes.POST("/community", uploads.UploadCommunityImage)
		}
	}

	return r
}

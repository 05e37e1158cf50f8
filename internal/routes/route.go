package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devnet/internal/container"
	"github.com/joshua-takyi/devnet/internal/handlers"
	"github.com/joshua-takyi/devnet/internal/middleware"
	"github.com/joshua-takyi/devnet/internal/models"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     container.Config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.TokenHeader, "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	auth := middleware.AuthMiddleware(container.Tokens, container.Logger)

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
				"status":  "OK",
				"service": "devnet-api",
			}, ""))
		})

		api.GET("/auth", auth, handlers.GetAuthUser(container.UserService))
		api.POST("/auth", handlers.Login(container.UserService))
		api.POST("/users", handlers.RegisterUser(container.UserService))
	}

	profileRoutes := api.Group("/profile")
	{
		profileRoutes.GET("", handlers.ListProfiles(container.ProfileService))
		profileRoutes.GET("/user/:id", handlers.GetProfileByUser(container.ProfileService))
		profileRoutes.GET("/github/:username", handlers.GetGithubRepos(container.ProfileService))

		profileRoutes.GET("/me", auth, handlers.GetMyProfile(container.ProfileService))
		profileRoutes.POST("", auth, handlers.UpsertProfile(container.ProfileService))
		profileRoutes.DELETE("", auth, handlers.DeleteAccount(container.ProfileService))
		profileRoutes.PUT("/experience", auth, handlers.AddExperience(container.ProfileService))
		profileRoutes.DELETE("/experience/:exp_id", auth, handlers.RemoveExperience(container.ProfileService))
		profileRoutes.PUT("/education", auth, handlers.AddEducation(container.ProfileService))
		profileRoutes.DELETE("/education/:edu_id", auth, handlers.RemoveEducation(container.ProfileService))
	}

	postRoutes := api.Group("/posts")
	postRoutes.Use(auth)
	{
		postRoutes.POST("", handlers.CreatePost(container.PostService))
		postRoutes.GET("", handlers.ListPosts(container.PostService))
		postRoutes.GET("/:id", handlers.GetPost(container.PostService))
		postRoutes.DELETE("/:id", handlers.DeletePost(container.PostService))
		postRoutes.PUT("/like/:id", handlers.LikePost(container.PostService))
		postRoutes.PUT("/unlike/:id", handlers.UnlikePost(container.PostService))
		postRoutes.POST("/comment/:id", handlers.AddComment(container.PostService))
		postRoutes.DELETE("/comment/:id/:comment_id", handlers.RemoveComment(container.PostService))
	}

	return r
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SAP-F-2025/social-service/internal/repositories"
	"github.com/SAP-F-2025/social-service/internal/services"
	"github.com/SAP-F-2025/social-service/internal/utils"
	"github.com/SAP-F-2025/social-service/internal/validator"
)

const healthCheckTimeout = 3 * time.Second

type HandlerManager struct {
	authHandler          *AuthHandler
	profileHandler       *ProfileHandler
	connectionHandler    *ConnectionHandler
	postHandler          *PostHandler
	certificationHandler *CertificationHandler
	realtimeHandler      *RealtimeHandler
	userHandler          *UserHandler
	authMiddleware       *CasdoorAuthMiddleware
	serviceManager       services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	provider IdentityProvider,
	userRepo repositories.UserRepository,
	hub ChangeSubscriber,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(provider, userRepo)

	return &HandlerManager{
		authHandler:       NewAuthHandler(provider, authMiddleware, serviceManager.Profile(), validator, logger),
		profileHandler:    NewProfileHandler(serviceManager.Profile(), logger),
		connectionHandler: NewConnectionHandler(serviceManager.Connection(), logger),
		postHandler: NewPostHandler(
			serviceManager.Post(),
			serviceManager.Reaction(),
			serviceManager.Comment(),
			logger,
		),
		certificationHandler: NewCertificationHandler(serviceManager.Certification(), logger),
		realtimeHandler:      NewRealtimeHandler(hub, logger),
		userHandler:          NewUserHandler(userRepo, logger),
		authMiddleware:       authMiddleware,
		serviceManager:       serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	requireAuth := hm.authMiddleware.AuthMiddleware()
	optionalAuth := hm.authMiddleware.OptionalAuthMiddleware()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.GET("/signin-url", hm.authHandler.GetSigninURL)
			auth.POST("/callback", hm.authHandler.Callback)
		}

		profiles := v1.Group("/profiles")
		{
			// Own profile
			profiles.GET("/me", requireAuth, hm.profileHandler.GetMyProfile)
			profiles.PUT("/me", requireAuth, hm.profileHandler.UpdateMyProfile)

			// Public profile page
			profiles.GET("/:id", optionalAuth, hm.profileHandler.GetProfile)

			// Connection graph
			profiles.GET("/:id/connections", optionalAuth, hm.connectionHandler.ListConnections)
			profiles.GET("/:id/connections/stats", optionalAuth, hm.connectionHandler.GetStats)
			profiles.GET("/:id/relation", requireAuth, hm.connectionHandler.GetRelation)
			profiles.POST("/:id/connect", requireAuth, hm.connectionHandler.Connect)
			profiles.POST("/:id/approve", requireAuth, hm.connectionHandler.Approve)

			// Certifications
			profiles.GET("/:id/certifications", optionalAuth, hm.certificationHandler.ListCertifications)
			profiles.GET("/:id/certifications/export", optionalAuth, hm.certificationHandler.ExportCertifications)
		}

		posts := v1.Group("/posts")
		{
			posts.GET("/:slug", optionalAuth, hm.postHandler.GetPost)

			posts.GET("/:slug/reactions", optionalAuth, hm.postHandler.GetReactions)
			posts.PUT("/:slug/reactions", requireAuth, hm.postHandler.React)
			posts.DELETE("/:slug/reactions", requireAuth, hm.postHandler.ClearReaction)

			posts.GET("/:slug/comments", optionalAuth, hm.postHandler.ListComments)
			posts.POST("/:slug/comments", optionalAuth, hm.postHandler.AddComment)
		}

		users := v1.Group("/users", requireAuth)
		{
			users.GET("/search", hm.userHandler.SearchUsers)
			users.GET("/:id", hm.userHandler.GetUser)
		}

		v1.GET("/realtime", requireAuth, hm.realtimeHandler.Stream)
	}

	router.GET("/health", hm.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Close releases long-lived responses such as change streams
func (hm *HandlerManager) Close() {
	hm.realtimeHandler.Close()
}

func (hm *HandlerManager) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "social-service",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "social-service",
	})
}

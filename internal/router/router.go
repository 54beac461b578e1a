package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/clientbook-backend/config"
	"github.com/ikkim/clientbook-backend/internal/app/controller"
	"github.com/ikkim/clientbook-backend/internal/middleware"
)

type Router struct {
	clientController     *controller.ClientController
	benefitController    *controller.BenefitController
	commercialController *controller.CommercialController
	feedbackController   *controller.FeedbackController
	transferController   *controller.TransferController
	summaryController    *controller.SummaryController
	eventsController     *controller.EventsController
	config               *config.Config
}

func NewRouter(
	clientController *controller.ClientController,
	benefitController *controller.BenefitController,
	commercialController *controller.CommercialController,
	feedbackController *controller.FeedbackController,
	transferController *controller.TransferController,
	summaryController *controller.SummaryController,
	eventsController *controller.EventsController,
	cfg *config.Config,
) *Router {
	return &Router{
		clientController:     clientController,
		benefitController:    benefitController,
		commercialController: commercialController,
		feedbackController:   feedbackController,
		transferController:   transferController,
		summaryController:    summaryController,
		eventsController:     eventsController,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	health := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Clientbook API is running",
		})
	}
	router.GET("/health", health)

	api := router.Group("/api")
	{
		api.GET("/health", health)

		clients := api.Group("/clients")
		{
			clients.GET("", r.clientController.ListClients)
			clients.POST("", r.clientController.CreateClient)
			clients.GET("/:id", r.clientController.GetClient)
			clients.PUT("/:id", r.clientController.UpdateClient)
			clients.DELETE("/:id", r.clientController.DeleteClient)
			clients.POST("/:id/clone", r.clientController.CloneClient)
		}

		benefits := api.Group("/benefits")
		{
			benefits.GET("", r.benefitController.ListBenefits)
			benefits.POST("", r.benefitController.CreateBenefit)
			benefits.GET("/poc-summary", r.benefitController.PocSummary)
			benefits.PUT("/poc-reassign", r.benefitController.ReassignPoc)
			benefits.GET("/:id", r.benefitController.GetBenefit)
			benefits.PUT("/:id", r.benefitController.UpdateBenefit)
			benefits.DELETE("/:id", r.benefitController.DeleteBenefit)
			benefits.POST("/:id/clone", r.benefitController.CloneBenefit)
		}

		commercial := api.Group("/commercial")
		{
			commercial.GET("", r.commercialController.ListCommercial)
			commercial.POST("", r.commercialController.CreateCommercial)
			commercial.GET("/:id", r.commercialController.GetCommercial)
			commercial.PUT("/:id", r.commercialController.UpdateCommercial)
			commercial.DELETE("/:id", r.commercialController.DeleteCommercial)
			commercial.POST("/:id/clone", r.commercialController.CloneCommercial)
		}

		feedback := api.Group("/feedback")
		{
			feedback.GET("", r.feedbackController.ListFeedback)
			feedback.POST("", r.feedbackController.CreateFeedback)
			feedback.GET("/:id", r.feedbackController.GetFeedback)
			feedback.PUT("/:id", r.feedbackController.UpdateFeedback)
			feedback.DELETE("/:id", r.feedbackController.DeleteFeedback)
		}

		api.GET("/summary", r.summaryController.GetSummary)
		api.GET("/export", r.transferController.Export)
		api.POST("/import", r.transferController.Import)
		api.GET("/events", r.eventsController.Stream)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

package router

import (
	"net/http"
	"time"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/auth"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/controllers"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/events"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/middleware"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/services"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Options configures the services behind the router
type Options struct {
	JWTSecret   string
	TokenTTL    time.Duration
	AdminEmails []string
	// Transitions defaults to models.AnyTransition
	Transitions models.TransitionPolicy
	// Hub defaults to a fresh hub
	Hub *events.Hub
	// Verifiers are tried after our own access token verifier, e.g. OIDC
	Verifiers []auth.TokenVerifier
}

// New wires services and controllers over db and registers every route
func New(db *gorm.DB, opts Options) *gin.Engine {
	hub := opts.Hub
	if hub == nil {
		hub = events.NewHub()
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = time.Hour
	}

	ingredients := services.NewIngredientRepository(db)
	catalog := services.NewCatalogService(db, ingredients)
	pricing := services.NewPricingCalculator(catalog)
	orders := services.NewOrderService(db, ingredients, opts.Transitions, hub)
	inventory := services.NewInventoryService(ingredients)
	reports := services.NewReportService(db)
	users := services.NewUserService(db, opts.AdminEmails)
	clients := services.NewClientService(db)
	oauthService := auth.NewOAuthService(db, opts.JWTSecret, opts.TokenTTL)

	verifier := append(auth.ChainVerifier{auth.NewJWTVerifier([]byte(opts.JWTSecret))}, opts.Verifiers...)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	router.GET("/health", healthCheckHandler)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	catalogController := controllers.NewCatalogController(catalog, pricing)
	orderController := controllers.NewOrderController(orders, hub)
	adminController := controllers.NewAdminController(orders, inventory, reports, hub)
	authController := controllers.NewAuthController(oauthService)
	clientController := controllers.NewClientController(clients)

	router.POST("/oauth/token", authController.Token)

	api := router.Group("/api")
	{
		// Public catalog
		api.GET("/ingredients/:kind", catalogController.ListIngredients)
		api.GET("/pizza-varieties", catalogController.ListVarieties)
		api.POST("/pricing/quote", catalogController.Quote)

		protected := api.Group("")
		protected.Use(middleware.Authenticate(verifier, users))
		{
			protected.GET("/auth/user", authController.CurrentUser)

			protected.POST("/orders", orderController.PlaceOrder)
			protected.GET("/orders/user", orderController.ListUserOrders)
			protected.GET("/orders/events", orderController.Events)
			protected.POST("/orders/:orderId/payment", orderController.ConfirmPayment)
			protected.GET("/orders/:orderId/history", orderController.StatusHistory)

			protected.GET("/clients", clientController.ListClients)
			protected.POST("/clients", clientController.CreateClient)
			protected.DELETE("/clients/:id", clientController.DeleteClient)

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/orders", adminController.ListOrders)
				admin.GET("/orders/events", adminController.Events)
				admin.PATCH("/orders/:orderId/status", adminController.UpdateOrderStatus)
				admin.GET("/stats", adminController.Stats)
				admin.GET("/inventory/low-stock", adminController.LowStock)
				admin.POST("/inventory/update-stock", adminController.UpdateStock)
				admin.GET("/analytics/popular", adminController.PopularItems)
			}
		}
	}

	return router
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "pizza-api",
	})
}

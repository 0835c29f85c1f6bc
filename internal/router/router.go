package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rolo-dev/rolo/internal/handlers"
	"github.com/rolo-dev/rolo/internal/middleware"
	"github.com/rolo-dev/rolo/internal/realtime"
	"github.com/rolo-dev/rolo/internal/services"
	"github.com/rolo-dev/rolo/internal/storage"
	"gorm.io/gorm"
)

// Deps is everything the HTTP surface needs, built once in main.
type Deps struct {
	DB             *gorm.DB
	Auth           *services.AuthService
	Products       *services.ProductService
	Categories     *services.CategoryService
	Ribbons        *services.RibbonService
	Orders         *services.OrderService
	Shipping       *services.ShippingService
	Notifications  *services.NotificationService
	Hub            *realtime.Hub
	Uploads        *storage.Uploads
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Static("/"+d.Uploads.URLPrefix(), d.Uploads.Dir)

	health := &handlers.HealthHandler{DB: d.DB}
	authH := &handlers.AuthHandler{Auth: d.Auth}
	users := &handlers.UserHandler{Auth: d.Auth}
	products := &handlers.ProductHandler{Products: d.Products, Uploads: d.Uploads}
	categories := &handlers.CategoryHandler{Categories: d.Categories, Uploads: d.Uploads}
	ribbons := &handlers.RibbonHandler{Ribbons: d.Ribbons}
	orders := &handlers.OrderHandler{Orders: d.Orders}
	shipping := &handlers.ShippingHandler{Shipping: d.Shipping}
	notifications := &handlers.NotificationHandler{Notifications: d.Notifications}
	ws := &handlers.WSHandler{Hub: d.Hub}

	requireAuth := middleware.AuthMiddleware(d.Auth)
	requireAdmin := middleware.RequireAdmin()

	// the socket outlives any request timeout
	r.GET("/api/notifications/ws", requireAuth, ws.Notifications)

	api := r.Group("/api", middleware.Timeout(d.RequestTimeout))
	{
		api.GET("/health", health.Check)

		auth := api.Group("/auth")
		{
			auth.POST("/register", authH.Register)
			auth.POST("/login", authH.Login)
			auth.POST("/send-reset-link", authH.SendResetLink)
			auth.POST("/reset-password/:token", authH.ResetPassword)
			auth.GET("/profile", requireAuth, authH.Profile)
			auth.PUT("/profile", requireAuth, authH.UpdateProfile)
			auth.PUT("/profile/change-password", requireAuth, authH.ChangePassword)
		}

		userOrders := api.Group("/orders", requireAuth)
		{
			userOrders.POST("/create", orders.Create)
			userOrders.GET("", orders.ListMine)
			userOrders.GET("/:id", orders.GetMine)
		}

		api.GET("/shipping/locations", shipping.Locations)

		notes := api.Group("/notifications", requireAuth)
		{
			notes.GET("", notifications.List)
			notes.GET("/unread-count", notifications.UnreadCount)
			notes.POST("/:id/read", notifications.MarkRead)
			notes.POST("/mark-all-read", notifications.MarkAllRead)
		}

		admin := api.Group("/admin")
		{
			product := admin.Group("/product")
			{
				product.GET("", products.List)
				product.GET("/featured", products.Featured)
				product.GET("/:id", products.Get)
				product.POST("/create", requireAuth, requireAdmin, products.Create)
				product.PUT("/:id", requireAuth, requireAdmin, products.Update)
				product.DELETE("/:id", requireAuth, requireAdmin, products.Delete)
			}

			category := admin.Group("/category")
			{
				category.GET("", categories.List)
				category.GET("/:id", categories.Get)
				category.POST("/create", requireAuth, requireAdmin, categories.Create)
				category.PUT("/:id", requireAuth, requireAdmin, categories.Update)
				category.DELETE("/:id", requireAuth, requireAdmin, categories.Delete)
			}

			ribbon := admin.Group("/ribbon")
			{
				ribbon.GET("", ribbons.List)
				ribbon.GET("/:id", ribbons.Get)
				ribbon.POST("/create", requireAuth, requireAdmin, ribbons.Create)
				ribbon.PUT("/:id", requireAuth, requireAdmin, ribbons.Update)
				ribbon.DELETE("/:id", requireAuth, requireAdmin, ribbons.Delete)
			}

			order := admin.Group("/order", requireAuth, requireAdmin)
			{
				order.GET("", orders.List)
				order.GET("/user/:userId", orders.ListByUser)
				order.GET("/:id", orders.Get)
				order.PUT("/:id/status", orders.UpdateStatus)
				order.DELETE("/:id", orders.Delete)
			}

			user := admin.Group("/user", requireAuth, requireAdmin)
			{
				user.GET("", users.List)
				user.GET("/:id", users.Get)
				user.PUT("/:id", users.Update)
				user.DELETE("/:id", users.Delete)
			}
		}
	}

	return r
}

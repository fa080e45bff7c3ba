package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/dislogroup/salesflow/internal/api/handlers"
	"github.com/dislogroup/salesflow/internal/api/middleware"
	"github.com/dislogroup/salesflow/internal/models"
)

type Deps struct {
	Auth      *handlers.AuthHandler
	Assistant *handlers.AssistantHandler
	Search    *handlers.SearchHandler
	Chat      *handlers.ChatHandler
	Client    *handlers.ClientHandler
	Product   *handlers.ProductHandler
	Order     *handlers.OrderHandler
	Promotion *handlers.PromotionHandler
	Route     *handlers.RouteHandler
	Stock     *handlers.StockHandler
	User      *handlers.UserHandler
	Visit     *handlers.VisitHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.POST("/api/auth/login", d.Auth.Login)

	// Anonymous access allowed; an attached token scopes the history.
	open := r.Group("/")
	open.Use(middleware.OptionalJWTAuth())
	open.POST("/api/ia/ask", d.Assistant.Ask)
	open.GET("/api/search-ai", d.Search.Products)
	open.GET("/ws/chat", d.Chat.Chat)

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.POST("/api/ia/commande", d.Assistant.PlaceOrder)
	auth.GET("/api/ia/historique", d.Assistant.History)

	auth.GET("/api/clients", d.Client.List)
	auth.GET("/api/clients/:id", d.Client.Get)
	auth.POST("/api/clients", d.Client.Create)
	auth.PUT("/api/clients/:id", d.Client.Update)
	auth.DELETE("/api/clients/:id", middleware.RequireAdmin(), d.Client.Delete)
	auth.GET("/api/clients/:id/commandes", d.Order.ListByClient)

	auth.GET("/api/produits", d.Product.List)
	auth.GET("/api/produits/:id", d.Product.Get)
	auth.POST("/api/produits", middleware.RequireCapability(models.CapManageCatalog), d.Product.Create)
	auth.PUT("/api/produits/:id", middleware.RequireCapability(models.CapManageCatalog), d.Product.Update)
	auth.DELETE("/api/produits/:id", middleware.RequireAdmin(), d.Product.Delete)
	auth.POST("/api/produits/:id/image", middleware.RequireCapability(models.CapManageCatalog), d.Product.UploadImage)

	auth.GET("/api/categories", d.Product.ListCategories)
	auth.POST("/api/categories", middleware.RequireCapability(models.CapManageCatalog), d.Product.CreateCategory)

	auth.GET("/api/commandes", d.Order.List)
	auth.GET("/api/commandes/:id", d.Order.Get)
	auth.POST("/api/commandes", d.Order.Create)

	auth.GET("/api/promotions", d.Promotion.List)
	auth.GET("/api/promotions/:id", d.Promotion.Get)
	auth.GET("/api/promotions/cadeaux", d.Promotion.GiftsForProduct)
	auth.POST("/api/promotions", middleware.RequireCapability(models.CapManageCatalog), d.Promotion.Create)

	auth.GET("/api/routes", d.Route.List)
	auth.GET("/api/routes/:id", d.Route.Get)
	auth.POST("/api/routes", middleware.RequireRole(models.RoleAdmin, models.RoleSuperviseur), d.Route.Create)
	auth.POST("/api/routes/:id/vendeurs", middleware.RequireCapability(models.CapAssignVendeur), d.Route.AssignVendeur)

	auth.GET("/api/stock/camion", d.Stock.ViewOwn)
	auth.POST("/api/stock/camion/:id/charger", d.Stock.Load)

	auth.GET("/api/utilisateurs", middleware.RequireRole(models.RoleAdmin, models.RoleSuperviseur), d.User.List)
	auth.POST("/api/utilisateurs", middleware.RequireAdmin(), d.User.Create)
	auth.POST("/api/utilisateurs/:id/superviseur", middleware.RequireCapability(models.CapAssignVendeur), d.User.AssignSuperviseur)

	auth.GET("/api/visites", d.Visit.List)
	auth.GET("/api/visites/prochaines", d.Visit.ListUpcoming)
	auth.POST("/api/visites", d.Visit.Create)
	auth.PUT("/api/visites/:id/reporter", d.Visit.Reschedule)
}

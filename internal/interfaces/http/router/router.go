package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopledger/backend/internal/domain/identity"
	"github.com/shopledger/backend/internal/infrastructure/auth"
	"github.com/shopledger/backend/internal/infrastructure/authz"
	"github.com/shopledger/backend/internal/infrastructure/config"
	"github.com/shopledger/backend/internal/infrastructure/logger"
	"github.com/shopledger/backend/internal/interfaces/http/handler"
	"github.com/shopledger/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	Health        *handler.HealthHandler
	Auth          *handler.AuthHandler
	Invoice       *handler.InvoiceHandler
	Customer      *handler.CustomerHandler
	Product       *handler.ProductHandler
	Reference     *handler.ReferenceHandler
	GoodsReceived *handler.GoodsReceivedHandler
	Admin         *handler.AdminHandler
	ShopAdmin     *handler.ShopAdminHandler
}

// Dependencies carries the cross-cutting pieces the middleware chain needs
type Dependencies struct {
	Config    *config.Config
	Logger    *zap.Logger
	Codec     *auth.TokenCodec
	Blacklist auth.TokenBlacklist
	Policy    *authz.Policy
}

// New builds the gin engine with the full middleware chain and route table
func New(deps Dependencies, h Handlers) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	_ = engine.SetTrustedProxies(deps.Config.HTTP.TrustedProxies)

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(deps.Logger))
	engine.Use(logger.Recovery(deps.Logger))
	engine.Use(middleware.CORS(deps.Config.HTTP))
	engine.Use(middleware.BodyLimit(deps.Config.HTTP.MaxBodySize))

	engine.GET("/health", h.Health.Check)

	authenticate := middleware.Authenticate(middleware.AuthConfig{
		Codec:     deps.Codec,
		Blacklist: deps.Blacklist,
		Logger:    deps.Logger,
	})
	resolveTenant := middleware.ResolveTenant(deps.Policy)

	v1 := engine.Group("/api/v1")

	// Auth surface. Refresh relies on the refresh cookie, not the access
	// token, so it stays outside the authenticated group.
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/refresh", h.Auth.Refresh)
	}
	authed := v1.Group("/auth", authenticate)
	{
		authed.POST("/logout", h.Auth.Logout)
		authed.GET("/me", h.Auth.Me)
		authed.PUT("/password", h.Auth.ChangePassword)
	}

	// Tenant-scoped business surface.
	api := v1.Group("", authenticate, resolveTenant)
	{
		invoices := api.Group("/invoices")
		{
			invoices.GET("/stats", h.Invoice.Stats)
			invoices.GET("", h.Invoice.List)
			invoices.POST("", h.Invoice.Create)
			invoices.GET("/:ref", h.Invoice.Get)
			invoices.PUT("/:ref", h.Invoice.Update)
			invoices.PATCH("/:ref", h.Invoice.Update)
			invoices.DELETE("/:ref", h.Invoice.Delete)
			invoices.GET("/:ref/payments", h.Invoice.ListPayments)
			invoices.POST("/:ref/payments", h.Invoice.AddPayment)
			invoices.GET("/:ref/reminders", h.Invoice.ListReminders)
			invoices.POST("/:ref/reminders", h.Invoice.AddReminder)
		}

		customers := api.Group("/customers")
		{
			customers.GET("", h.Customer.List)
			customers.POST("", h.Customer.Create)
			customers.GET("/:id", h.Customer.Get)
			customers.PUT("/:id", h.Customer.Update)
			customers.DELETE("/:id", h.Customer.Delete)
		}

		products := api.Group("/products")
		{
			products.GET("", h.Product.List)
			products.POST("", h.Product.Create)
			products.GET("/:id", h.Product.Get)
			products.PUT("/:id", h.Product.Update)
			products.DELETE("/:id", h.Product.Delete)
		}

		goods := api.Group("/goods-received")
		{
			goods.GET("", h.GoodsReceived.List)
			goods.POST("", h.GoodsReceived.Create)
			goods.GET("/:id", h.GoodsReceived.Get)
			goods.DELETE("/:id", h.GoodsReceived.Delete)
		}

		api.GET("/categories", h.Reference.ListCategories)
		api.GET("/brands", h.Reference.ListBrands)
	}

	// Tenant admin surface: own shop profile and staff.
	shopAdmin := v1.Group("/shop-admin", authenticate, resolveTenant,
		middleware.RequireRole(identity.RoleAdmin))
	{
		shopAdmin.GET("/shop", h.ShopAdmin.GetShop)
		shopAdmin.PUT("/shop", h.ShopAdmin.UpdateShop)
		shopAdmin.GET("/users", h.ShopAdmin.ListUsers)
		shopAdmin.POST("/users", h.ShopAdmin.CreateUser)
		shopAdmin.PUT("/users/:id", h.ShopAdmin.UpdateUser)
		shopAdmin.PUT("/users/:id/password", h.ShopAdmin.ResetUserPassword)
		shopAdmin.DELETE("/users/:id", h.ShopAdmin.DeleteUser)
	}

	// Platform admin surface.
	admin := v1.Group("/admin", authenticate, resolveTenant,
		middleware.RequireRole(identity.RoleSuperAdmin))
	{
		admin.GET("/shops", h.Admin.ListShops)
		admin.POST("/shops", h.Admin.CreateShop)
		admin.GET("/shops/:id", h.Admin.GetShop)
		admin.PUT("/shops/:id", h.Admin.UpdateShop)
		admin.DELETE("/shops/:id", h.Admin.DeactivateShop)

		admin.GET("/users", h.Admin.ListUsers)
		admin.POST("/users", h.Admin.CreateUser)
		admin.PUT("/users/:id", h.Admin.UpdateUser)
		admin.PUT("/users/:id/password", h.Admin.ResetUserPassword)
		admin.DELETE("/users/:id", h.Admin.DeleteUser)

		admin.GET("/stats", h.Admin.PlatformStats)

		admin.POST("/categories", h.Reference.CreateCategory)
		admin.PUT("/categories/:id", h.Reference.RenameCategory)
		admin.DELETE("/categories/:id", h.Reference.DeleteCategory)
		admin.POST("/brands", h.Reference.CreateBrand)
		admin.PUT("/brands/:id", h.Reference.RenameBrand)
		admin.DELETE("/brands/:id", h.Reference.DeleteBrand)
	}

	return engine
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/bozor/internal/config"
	"github.com/example/bozor/internal/handlers"
	"github.com/example/bozor/internal/metrics"
	"github.com/example/bozor/internal/middleware"
	"github.com/example/bozor/internal/notify"
	"github.com/example/bozor/internal/otp"
	"github.com/example/bozor/internal/services"
	"github.com/example/bozor/internal/utils"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, rdb redis.UniversalClient, notifier notify.Dispatcher, cfg *config.Config, log *zap.Logger) {
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	codes := otp.NewRegistry(otp.NewRedisStore(rdb), cfg.OTPTTL)

	registration := services.NewRegistrationService(db, codes, notifier, tokens, log)
	accounts := services.NewAccountService(db, tokens)

	authHandler := handlers.NewAuthHandler(registration, accounts)
	profileHandler := handlers.NewProfileHandler(accounts, services.NewAddressService(db))
	cartHandler := handlers.NewCartHandler(services.NewCartService(db), services.NewFavoriteService(db))
	catalogHandler := handlers.NewCatalogHandler(db)
	productHandler := handlers.NewProductHandler(db)
	healthHandler := handlers.NewHealthHandler(db, rdb)

	requireAuth := middleware.AuthMiddleware(tokens)

	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Get("/user-exists/:phone", authHandler.UserExists)
	auth.Post("/register", authHandler.Register)
	auth.Post("/token", authHandler.Login)
	auth.Post("/refresh-token", authHandler.RefreshToken)

	// Catalog routes
	api.Get("/regions", catalogHandler.ListRegions)
	api.Get("/districts", catalogHandler.ListDistricts)

	categories := api.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Post("/", requireAuth, catalogHandler.CreateCategory)
	categories.Get("/:id", catalogHandler.GetCategory)
	categories.Put("/:id", requireAuth, catalogHandler.UpdateCategory)
	categories.Delete("/:id", requireAuth, catalogHandler.DeleteCategory)

	api.Post("/sellers", requireAuth, catalogHandler.CreateSeller)

	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Post("/", requireAuth, productHandler.CreateProduct)
	products.Post("/images", requireAuth, productHandler.CreateProductImage)
	products.Get("/:id", productHandler.GetProduct)

	// Protected user routes
	users := api.Group("/users", requireAuth)

	users.Get("/get-me", profileHandler.GetMe)
	users.Patch("/update", profileHandler.UpdateProfile)
	users.Patch("/change-password", profileHandler.ChangePassword)

	users.Get("/carts", cartHandler.ListCart)
	users.Post("/carts", cartHandler.AddToCart)
	users.Patch("/carts/:id", cartHandler.UpdateCartItem)
	users.Put("/carts/:id", cartHandler.UpdateCartItem)
	users.Delete("/carts/:id", cartHandler.RemoveCartItem)

	users.Get("/favorites", cartHandler.ListFavorites)
	users.Post("/favorites", cartHandler.AddFavorite)
	users.Delete("/favorites/:id", cartHandler.RemoveFavorite)

	users.Get("/address", profileHandler.ListAddresses)
	users.Post("/address", profileHandler.CreateAddress)
	users.Patch("/address/:id", profileHandler.UpdateAddress)
	users.Put("/address/:id", profileHandler.UpdateAddress)
	users.Delete("/address/:id", profileHandler.DeleteAddress)
}

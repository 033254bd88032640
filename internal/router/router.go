package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hospitofind/internal/cache"
	"hospitofind/internal/config"
	"hospitofind/internal/database"
	"hospitofind/internal/handler/auth"
	"hospitofind/internal/handler/health"
	"hospitofind/internal/handler/hospitals"
	"hospitofind/internal/handler/sitemap"
	"hospitofind/internal/handler/users"
	"hospitofind/internal/middleware"
	"hospitofind/internal/service"
)

// Deps bundles everything the routes need.
type Deps struct {
	DB       database.DB
	Redis    *redis.Client
	Cache    cache.Cache
	Engine   *service.NearbyEngine
	Geocoder hospitals.Geocoder
	Auth     auth.Options
	Config   *config.Config
	Logger   *zap.Logger
}

// Setup registers all routes and route-level middleware.
func Setup(e *echo.Echo, d Deps) {
	api := e.Group("/api")

	api.GET("/healthz", health.Handler(d.DB, d.Redis))

	// Auth
	api.POST("/auth/register", auth.RegisterHandler(d.DB, d.Auth))
	api.POST("/auth/login", auth.LoginHandler(d.DB, d.Auth),
		middleware.LoginLimiter(d.Redis, d.Logger))
	api.GET("/auth/refresh", auth.RefreshHandler(d.DB))
	api.POST("/auth/logout", auth.LogoutHandler(d.Auth.Production))

	// Public directory reads
	h := api.Group("/hospitals")
	h.GET("", hospitals.ListHospitalsHandler(d.DB))
	h.GET("/count", hospitals.CountHospitalsHandler(d.DB))
	h.GET("/random", hospitals.RandomHospitalsHandler(d.DB))
	h.GET("/top", hospitals.TopHospitalsHandler(d.DB, d.Cache))
	h.GET("/sandbox", hospitals.SandboxHospitalsHandler(d.DB))
	h.GET("/find", hospitals.FindHospitalsHandler(d.DB))
	h.GET("/city", hospitals.HospitalsByCityHandler(d.DB))
	h.GET("/search", hospitals.SearchHospitalsHandler(d.DB))
	h.GET("/nearby", hospitals.NearbyHospitalsHandler(d.Engine))
	h.GET("/id/:id", hospitals.GetHospitalHandler(d.DB))
	h.GET("/name/:name", hospitals.GetHospitalByNameHandler(d.DB))
	h.GET("/slug/:state/:city/:slug", hospitals.GetHospitalBySlugHandler(d.DB))
	h.GET("/export/csv", hospitals.ExportCSVHandler(d.DB))
	h.GET("/export/xlsx", hospitals.ExportXLSXHandler(d.DB))
	h.POST("/share", hospitals.ShareSearchHandler(d.DB), middleware.OptionalAuth)
	h.GET("/share/:linkId", hospitals.GetSharedSearchHandler(d.DB))

	// Authenticated directory writes
	h.POST("", hospitals.CreateHospitalHandler(d.DB, d.Geocoder), middleware.RequireAuth)
	h.PATCH("/:id", hospitals.UpdateHospitalHandler(d.DB, d.Geocoder), middleware.RequireAuth)
	h.GET("/submissions", hospitals.MySubmissionsHandler(d.DB), middleware.RequireAuth)

	// Moderation
	h.DELETE("/:id", hospitals.DeleteHospitalHandler(d.DB), middleware.RequireAdmin)
	h.PATCH("/approve/:id", hospitals.ApproveHospitalHandler(d.DB), middleware.RequireAdmin)
	h.PATCH("/feature/:id", hospitals.FeatureHospitalHandler(d.DB), middleware.RequireAdmin)

	// Current user
	me := api.Group("/users/me", middleware.RequireAuth)
	me.GET("", users.MeHandler(d.DB))
	me.PATCH("", users.UpdateMeHandler(d.DB))
	me.PATCH("/password", users.UpdatePasswordHandler(d.DB))
	me.DELETE("", users.DeleteMeHandler(d.DB))
	me.GET("/stats", users.MyStatsHandler(d.DB))
	me.GET("/favorites", users.ListFavoritesHandler(d.DB))
	me.POST("/favorites/:id", users.AddFavoriteHandler(d.DB))
	me.DELETE("/favorites/:id", users.RemoveFavoriteHandler(d.DB))
	me.GET("/recently-viewed", users.ListRecentViewsHandler(d.DB))
	me.POST("/recently-viewed/:id", users.PushRecentViewHandler(d.DB))

	// Admin
	admin := api.Group("/admin", middleware.RequireAdmin)
	admin.GET("/hospitals", hospitals.AllHospitalsHandler(d.DB))
	admin.GET("/stats", users.AdminStatsHandler(d.DB))
	admin.GET("/users", users.ListUsersHandler(d.DB))
	admin.POST("/users", users.CreateUserHandler(d.DB))
	admin.PATCH("/users/:id/role", users.UpdateRoleHandler(d.DB))
	admin.PATCH("/users/:id/status", users.ToggleUserStatusHandler(d.DB))
	admin.DELETE("/users/:id", users.DeleteUserHandler(d.DB))

	// Sitemaps
	api.GET("/sitemap.xml", sitemap.IndexHandler(d.Config.FrontendURL))
	api.GET("/sitemap/static.xml", sitemap.StaticHandler(d.Config.FrontendURL))
	api.GET("/sitemap/cities.xml", sitemap.CitiesHandler(d.DB, d.Config.FrontendURL))
	api.GET("/sitemap/hospitals.xml", sitemap.HospitalsHandler(d.DB, d.Config.FrontendURL))
}

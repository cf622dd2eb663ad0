package router

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/academia-backend/internal/config"
	"github.com/stemsi/academia-backend/internal/handler"
	"github.com/stemsi/academia-backend/internal/middleware"
	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/response"
	"github.com/stemsi/academia-backend/internal/service"
)

// loginRate is the number of login attempts allowed per IP per minute.
const loginRate = 30

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Course    *handler.CourseHandler
	Schedule  *handler.ScheduleHandler
	Program   *handler.ProgramHandler
	Classroom *handler.ClassroomHandler
	User      *handler.UserHandler
	// Monitor and WS are nil when no event bus is configured.
	Monitor *handler.MonitorHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work started here, such as the rate limiter sweep.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	router.Use(middleware.Brotli())

	// Course data changes on every save; never let intermediaries cache it.
	router.Use(middleware.CacheControl(0))

	router.GET("/health", handlers.Health.Health)

	authLimiter := middleware.NewRateLimiter(ctx, loginRate, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. API Group (JWT + Roles) ────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireJWT(authService))

	staff := middleware.RequireRole(model.RoleProfessor, model.RoleAdministrative)
	admin := middleware.RequireRole(model.RoleAdministrative)

	// Courses
	api.GET("/courses", handlers.Course.List)
	api.GET("/courses/:id", handlers.Course.Get)
	api.POST("/courses", staff, handlers.Course.Save)
	api.PUT("/courses/:id", staff, handlers.Course.Replace)
	api.DELETE("/courses/:id", staff, handlers.Course.Delete)
	if handlers.Monitor != nil {
		api.GET("/courses/:id/monitor", handlers.Monitor.MonitorCourseSSE)
	} else {
		api.GET("/courses/:id/monitor", handler.StreamUnavailable)
	}

	// Schedules
	api.GET("/schedules", handlers.Schedule.List)
	api.GET("/schedules/:id", handlers.Schedule.Get)
	api.POST("/schedules", staff, handlers.Schedule.Create)
	api.PATCH("/schedules/:id", staff, handlers.Schedule.Update)
	api.DELETE("/schedules/:id", staff, handlers.Schedule.Delete)

	// Programs
	api.GET("/programs", handlers.Program.List)
	api.GET("/programs/:id", handlers.Program.Get)
	api.GET("/programs/:id/courses", handlers.Program.Courses)
	api.POST("/programs", admin, handlers.Program.Create)
	api.PATCH("/programs/:id", admin, handlers.Program.Update)
	api.DELETE("/programs/:id", admin, handlers.Program.Delete)

	// Classrooms
	api.GET("/classrooms", handlers.Classroom.List)
	api.GET("/classrooms/:id", handlers.Classroom.Get)
	api.POST("/classrooms", admin, handlers.Classroom.Create)
	api.PATCH("/classrooms/:id", admin, handlers.Classroom.Update)
	api.DELETE("/classrooms/:id", admin, handlers.Classroom.Delete)

	// Users
	users := api.Group("/users", admin)
	{
		users.GET("", handlers.User.List)
		users.GET("/:id", handlers.User.Get)
		users.POST("", handlers.User.Create)
		users.DELETE("/:id", handlers.User.Delete)
	}

	// ─── 3. WebSocket Group (JWT via ?token=) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireJWT(authService))
	if handlers.WS != nil {
		ws.GET("/courses/stream", handlers.WS.CourseStream)
	} else {
		ws.GET("/courses/stream", handler.StreamUnavailable)
	}

	return router
}

package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/amare53/school-sub001/internal/cashbox"
	"github.com/amare53/school-sub001/internal/config"
	"github.com/amare53/school-sub001/internal/handler"
	"github.com/amare53/school-sub001/internal/middleware"
	"github.com/amare53/school-sub001/internal/model"
	"github.com/amare53/school-sub001/internal/repository"
	"github.com/amare53/school-sub001/internal/service"
	"github.com/amare53/school-sub001/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Domain))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	cashRepo := repository.NewCashRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	feeTypeRepo := repository.NewFeeTypeRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// ── Session state ────────────────────────────────────────────────────────
	registry := cashbox.NewRegistry()
	snapshots := cashbox.NewSnapshotCache(rdb)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	cashSvc := service.NewCashService(cashRepo, studentRepo, feeTypeRepo, registry, snapshots, dispatcher)
	studentSvc := service.NewStudentService(studentRepo)
	feeTypeSvc := service.NewFeeTypeService(feeTypeRepo)
	reportSvc := service.NewReportService(reportRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	cashH := handler.NewCashRegisterHandler(cashSvc)
	studentsH := handler.NewStudentsHandler(studentSvc)
	feeTypesH := handler.NewFeeTypesHandler(feeTypeSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyStaff := middleware.RequireRole(model.RoleCashier, model.RoleSupervisor, model.RoleAdmin)
	supervision := middleware.RequireRole(model.RoleSupervisor, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		cash := v1.Group("/cash-register")
		{
			cash.POST("/open-session", anyStaff, cashH.OpenSession)
			cash.POST("/close-session/:id", anyStaff, cashH.CloseSession)
			cash.GET("/current-session", anyStaff, cashH.CurrentSession)
			cash.POST("/payments", anyStaff, cashH.RecordPayment)
			cash.POST("/movements", anyStaff, cashH.RecordMovement)

			// Session history and drill-down — supervision only
			cash.GET("/sessions", supervision, cashH.Sessions)
			cash.GET("/sessions/:id/payments", supervision, cashH.SessionPayments)
			cash.GET("/sessions/:id/movements", supervision, cashH.SessionMovements)
		}

		reports := v1.Group("/reports", supervision)
		{
			reports.GET("/daily", reportsH.Daily)
			reports.GET("/period", reportsH.Period)
			reports.GET("/export", reportsH.Export)
		}

		// Students — all staff can read (payment entry needs the lookup),
		// admin manages the roster
		v1.GET("/students", anyStaff, studentsH.List)
		v1.GET("/students/:id", anyStaff, studentsH.Get)
		students := v1.Group("/students", adminOnly)
		{
			students.POST("", studentsH.Create)
			students.PUT("/:id", studentsH.Update)
			students.DELETE("/:id", studentsH.Deactivate)
		}

		v1.GET("/fee-types", anyStaff, feeTypesH.List)
		feeTypes := v1.Group("/fee-types", adminOnly)
		{
			feeTypes.POST("", feeTypesH.Create)
			feeTypes.PUT("/:id", feeTypesH.Update)
			feeTypes.DELETE("/:id", feeTypesH.Deactivate)
		}

		users := v1.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

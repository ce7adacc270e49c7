package router

import (
	"time"

	"casacambios/internal/config"
	"casacambios/internal/handler"
	"casacambios/internal/middleware"
	"casacambios/internal/repository"
	"casacambios/internal/service"
	"casacambios/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps exposes the wired service layer so main can hand the report
// service to the background workers.
type Deps struct {
	Engine     *gin.Engine
	Dispatcher *worker.Dispatcher
	Reportes   service.ReporteService
}

// New wires all dependencies and returns the configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Deps {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	saldoRepo := repository.NewSaldoInicialRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	authSvc := service.NewAuthService(usuarioRepo, cfg)
	clienteSvc := service.NewClienteService(clienteRepo, movimientoRepo)
	movimientoSvc := service.NewMovimientoService(movimientoRepo, clienteRepo, dispatcher)
	saldoSvc := service.NewSaldoService(saldoRepo, dispatcher)
	reporteSvc := service.NewReporteService(movimientoRepo, clienteRepo, saldoRepo, rdb, cfg.PDFStoragePath)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	movimientosH := handler.NewMovimientosHandler(movimientoSvc)
	saldosH := handler.NewSaldosHandler(saldoSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)

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
	jwtMW := middleware.JWTAuth(cfg)
	ambosRoles := middleware.RequireRole("operador", "administrador")
	soloAdmin := middleware.RequireRole("administrador")

	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/auth/me", authH.Me)

		// Movimientos — both roles operate the day book; deletion is
		// restricted to administrators.
		v1.POST("/movimientos", ambosRoles, movimientosH.Crear)
		v1.GET("/movimientos", ambosRoles, movimientosH.Listar)
		v1.GET("/movimientos/:id", ambosRoles, movimientosH.Obtener)
		v1.PUT("/movimientos/:id", ambosRoles, movimientosH.Actualizar)
		v1.DELETE("/movimientos/:id", soloAdmin, movimientosH.Eliminar)

		// Clientes
		v1.GET("/clientes", ambosRoles, clientesH.Listar)
		v1.GET("/clientes/:id", ambosRoles, clientesH.Obtener)
		clientes := v1.Group("/clientes", soloAdmin)
		{
			clientes.POST("", clientesH.Crear)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Eliminar)
		}

		// Saldos iniciales — seeding rewrites derived history, admin only
		saldos := v1.Group("/saldos-iniciales", soloAdmin)
		{
			saldos.PUT("", saldosH.Guardar)
			saldos.GET("", saldosH.Listar)
			saldos.DELETE("", saldosH.Eliminar)
		}

		// Reportes — read-only, both roles
		reportes := v1.Group("/reportes", ambosRoles)
		{
			reportes.GET("/stock", reportesH.Stock)
			reportes.GET("/stock/pdf", reportesH.StockPDF)
			reportes.GET("/cuentas-corrientes", reportesH.CuentasCorrientes)
			reportes.GET("/prestamistas/:cliente", reportesH.Prestamista)
			reportes.GET("/comisiones", reportesH.Comisiones)
			reportes.GET("/arbitraje", reportesH.Arbitraje)
			reportes.GET("/rentabilidad", reportesH.Rentabilidad)
		}

		// Usuarios — administrador only
		usuarios := v1.Group("/usuarios", soloAdmin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return &Deps{Engine: r, Dispatcher: dispatcher, Reportes: reporteSvc}
}

package router

import (
	"time"

	"github.com/r34335132-lang/Farmacia-sub000/internal/config"
	"github.com/r34335132-lang/Farmacia-sub000/internal/handler"
	"github.com/r34335132-lang/Farmacia-sub000/internal/middleware"
	"github.com/r34335132-lang/Farmacia-sub000/internal/repository"
	"github.com/r34335132-lang/Farmacia-sub000/internal/service"
	"github.com/r34335132-lang/Farmacia-sub000/internal/worker"
	"github.com/r34335132-lang/Farmacia-sub000/internal/ws"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, hub *ws.Hub, dispatcher *worker.Dispatcher) *gin.Engine {
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
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)
	promocionRepo := repository.NewPromocionRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	promocionSvc := service.NewPromocionService(promocionRepo, productoRepo)
	productoSvc := service.NewProductoService(productoRepo, promocionSvc, rdb)
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoStockRepo)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, movimientoStockRepo, promocionSvc, dispatcher)
	pedidoSvc := service.NewPedidoService(pedidoRepo, productoRepo, movimientoStockRepo, promocionSvc, dispatcher, rdb)
	reporteSvc := service.NewReporteService(ventaRepo, productoRepo, cfg.DiasAlertaVencimiento)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	promocionesH := handler.NewPromocionesHandler(promocionSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	tiendaH := handler.NewTiendaHandler(productoSvc, pedidoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, hub))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Storefront — no auth, customers never log in
	tienda := r.Group("/v1/tienda")
	{
		tienda.GET("/catalogo", tiendaH.Catalogo)
		tienda.GET("/precio/:barcode", tiendaH.ConsultarPrecio)
		tienda.POST("/pedidos", tiendaH.CrearPedido)
		tienda.GET("/pedidos/:codigo", tiendaH.SeguirPedido)
	}
	r.GET("/v1/categorias", categoriasH.ListarCategorias)

	// Live order feed for the staff dashboard. Browsers can't attach an
	// Authorization header to a WebSocket upgrade, so the endpoint is open;
	// it only relays IDs and estados, never customer data.
	r.GET("/ws/pedidos", gin.WrapH(hub))

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cajero, farmaceutico, administrador — declared per-endpoint
		v1.POST("/ventas", middleware.RequireRole("cajero", "farmaceutico", "administrador"), ventasH.RegistrarVenta)
		v1.GET("/ventas", middleware.RequireRole("cajero", "farmaceutico", "administrador"), ventasH.ListarVentas)
		v1.GET("/ventas/:id", middleware.RequireRole("cajero", "farmaceutico", "administrador"), ventasH.ObtenerVenta)
		v1.DELETE("/ventas/:id", middleware.RequireRole("farmaceutico", "administrador"), ventasH.AnularVenta)

		v1.GET("/productos", middleware.RequireRole("cajero", "farmaceutico", "administrador"), productosH.ListarProductos)
		v1.GET("/productos/:id", middleware.RequireRole("cajero", "farmaceutico", "administrador"), productosH.ObtenerProducto)
		// Write operations — farmaceutico or administrador
		prods := v1.Group("/productos", middleware.RequireRole("farmaceutico", "administrador"))
		{
			prods.POST("", productosH.CrearProducto)
			prods.PUT("/:id", productosH.ActualizarProducto)
			prods.DELETE("/:id", productosH.DesactivarProducto)
			prods.POST("/:id/reactivar", productosH.ReactivarProducto)
		}

		inv := v1.Group("/inventario", middleware.RequireRole("farmaceutico", "administrador"))
		{
			inv.POST("/:id/ajuste", inventarioH.AjustarStock)
			inv.GET("/movimientos", inventarioH.ListarMovimientos)
			inv.GET("/alertas", inventarioH.AlertasBajoStock)
		}

		// Pedidos — staff queue
		pedidos := v1.Group("/pedidos", middleware.RequireRole("cajero", "farmaceutico", "administrador"))
		{
			pedidos.GET("", pedidosH.ListarPedidos)
			pedidos.GET("/:id", pedidosH.ObtenerPedido)
			pedidos.GET("/codigo/:codigo", pedidosH.BuscarPorCodigo)
			pedidos.PUT("/:id/estado", pedidosH.CambiarEstado)
		}

		promos := v1.Group("/promociones", middleware.RequireRole("farmaceutico", "administrador"))
		{
			promos.POST("", promocionesH.CrearPromocion)
			promos.GET("", promocionesH.ListarPromociones)
			promos.PUT("/:id", promocionesH.ActualizarPromocion)
			promos.DELETE("/:id", promocionesH.DesactivarPromocion)
		}

		rep := v1.Group("/reportes", middleware.RequireRole("farmaceutico", "administrador"))
		{
			rep.GET("/ventas", reportesH.ResumenVentas)
			rep.GET("/top-productos", reportesH.TopProductos)
			rep.GET("/vencimientos", reportesH.Vencimientos)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PUT("/:id", authH.ActualizarUsuario)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
			usuarios.POST("/:id/reactivar", authH.ReactivarUsuario)
		}

		// Categorías — administrador can write, reads are public (storefront filter)
		categorias := v1.Group("/categorias", middleware.RequireRole("administrador"))
		{
			categorias.POST("", categoriasH.CrearCategoria)
			categorias.PUT("/:id", categoriasH.ActualizarCategoria)
			categorias.DELETE("/:id", categoriasH.DesactivarCategoria)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

package handler

import (
	"net/http"

	"library-circulation/internal/domain/user"
	"library-circulation/internal/handler/api"
	"library-circulation/internal/handler/middleware"
	"library-circulation/internal/pkg/config"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Circulation *api.CirculationHandler
	Title       *api.TitleHandler
	Fine        *api.FineHandler
	Sweep       *api.SweepHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, handlers Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, handlers, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requester := authMiddleware.RequireRole(user.RoleRequester)
	staff := authMiddleware.RequireRole(user.RoleStaff, user.RoleAdmin)
	admin := authMiddleware.RequireRole(user.RoleAdmin)

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		// Per-request ownership and transition rules are enforced by the use cases
		addRoutes(apiGroup.Group("/borrow-requests"), []route{
			{Method: http.MethodPost, Path: "", Handler: h.Circulation.Create, Mw: []gin.HandlerFunc{requester}},
			{Method: http.MethodGet, Path: "", Handler: h.Circulation.List, Mw: []gin.HandlerFunc{staff}},
			{Method: http.MethodGet, Path: "/mine", Handler: h.Circulation.ListMine, Mw: []gin.HandlerFunc{requester}},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Circulation.Get},
			{Method: http.MethodGet, Path: "/:id/history", Handler: h.Circulation.History},
			{Method: http.MethodPost, Path: "/:id/approve", Handler: h.Circulation.Approve},
			{Method: http.MethodPost, Path: "/:id/pickup", Handler: h.Circulation.Pickup},
			{Method: http.MethodPost, Path: "/:id/return-request", Handler: h.Circulation.RequestReturn},
			{Method: http.MethodPost, Path: "/:id/return-confirm", Handler: h.Circulation.ConfirmReturn},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Circulation.Cancel},
			{Method: http.MethodPost, Path: "/:id/reject", Handler: h.Circulation.Reject},
		})

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/titles/:id/availability", Handler: h.Title.Availability},
			{Method: http.MethodGet, Path: "/fines/preview", Handler: h.Fine.Preview},
			{Method: http.MethodPost, Path: "/circulation/sweep", Handler: h.Sweep.Sweep, Mw: []gin.HandlerFunc{admin}},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}

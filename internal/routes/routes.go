// internal/routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"cablescan-service/internal/config"
	"cablescan-service/internal/database"
	"cablescan-service/internal/handler"
	"cablescan-service/internal/hostui"
	"cablescan-service/internal/middleware"
	"cablescan-service/internal/service"
	"cablescan-service/internal/tuner"
	"cablescan-service/internal/utils"
)

// Dependencies are the components served over HTTP
type Dependencies struct {
	DB        *database.DB // nil when the database is disabled
	Sessions  *hostui.Manager
	Plugins   *hostui.Plugins
	Navigator *hostui.Navigator
	Recording *hostui.RecordTimer
	Tuners    *tuner.Manager
	History   *service.ScanHistoryService
	EventBus  *handler.EventBus
}

// Router holds all dependencies for routing
type Router struct {
	config *config.Config
	logger *zap.Logger
	deps   Dependencies

	wsHandler *handler.WebSocketHandler
}

// NewRouter creates a new router instance
func NewRouter(config *config.Config, logger *zap.Logger, deps Dependencies) *Router {
	return &Router{
		config: config,
		logger: logger,
		deps:   deps,
	}
}

// SetupRouter creates and configures the Gin router
func (r *Router) SetupRouter() *gin.Engine {
	if r.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if r.config.App.Debug {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	r.addMiddleware(router)
	r.addRoutes(router)

	return router
}

// Close stops the WebSocket event forwarding
func (r *Router) Close() {
	if r.wsHandler != nil {
		r.wsHandler.Close()
	}
}

// addMiddleware adds middleware to the router
func (r *Router) addMiddleware(router *gin.Engine) {
	router.Use(middleware.RecoveryMiddleware(r.logger))
	router.Use(middleware.RequestIDMiddleware())

	serviceLogger := utils.NewServiceLogger(r.logger, "http-server")
	router.Use(middleware.LoggingMiddleware(serviceLogger))

	router.Use(middleware.CORSMiddleware(&r.config.Server))

	r.logger.Info("Middleware configured")
}

// addRoutes sets up all application routes
func (r *Router) addRoutes(router *gin.Engine) {
	healthHandler := handler.NewHealthHandler(r.deps.DB, r.config, r.deps.Tuners, r.deps.Sessions, r.logger)
	uiHandler := handler.NewUIHandler(r.deps.Sessions, r.deps.Plugins, r.logger)
	hostHandler := handler.NewHostHandler(r.deps.Navigator, r.deps.Recording, r.deps.Tuners, r.logger)
	scanHandler := handler.NewScanHandler(r.deps.History, r.logger)
	r.wsHandler = handler.NewWebSocketHandler(r.deps.Sessions, r.deps.EventBus, r.config.Server.AllowedOrigins, r.logger)

	healthHandler.RegisterRoutes(router)

	apiV1 := router.Group("/api/v1")
	r.addPluginRoutes(apiV1, uiHandler)
	r.addUIRoutes(apiV1, uiHandler)
	r.addHostRoutes(apiV1, hostHandler)
	r.addScanRoutes(apiV1, scanHandler)

	r.wsHandler.RegisterRoutes(router.Group("/ws"))

	r.addDocumentationRoutes(router)

	r.logger.Info("All routes configured successfully")
}

// addPluginRoutes sets up plugin discovery routes
func (r *Router) addPluginRoutes(api *gin.RouterGroup, handler *handler.UIHandler) {
	api.GET("/plugins", handler.ListPlugins)
	api.GET("/menus/:menu_id", handler.ListMenuEntries)
}

// addUIRoutes sets up UI session routes
func (r *Router) addUIRoutes(api *gin.RouterGroup, handler *handler.UIHandler) {
	ui := api.Group("/ui")
	{
		ui.POST("", handler.CreateSession)

		session := ui.Group("/:session_id")
		{
			session.GET("", handler.GetSession)
			session.DELETE("", handler.DeleteSession)
			session.POST("/menus/:menu_id/:entry", handler.RunMenuEntry)
			session.PUT("/fields/:key", handler.SetField)
			session.POST("/actions/:action", handler.HandleAction)
		}
	}
}

// addHostRoutes sets up host control routes
func (r *Router) addHostRoutes(api *gin.RouterGroup, handler *handler.HostHandler) {
	hostGroup := api.Group("/host")
	{
		hostGroup.GET("/playback", handler.GetPlayback)
		hostGroup.PUT("/playback", handler.SetPlayback)
		hostGroup.GET("/recording", handler.GetRecording)
		hostGroup.PUT("/recording", handler.SetRecording)
		hostGroup.GET("/tuners", handler.ListTuners)
		hostGroup.POST("/tuners/rescan", handler.RescanTuners)
	}
}

// addScanRoutes sets up scan history routes
func (r *Router) addScanRoutes(api *gin.RouterGroup, handler *handler.ScanHandler) {
	scans := api.Group("/scans")
	{
		scans.GET("", handler.ListScans)
		scans.DELETE("", handler.CleanupScans)
		scans.GET("/:scan_id", handler.GetScan)
	}
}

// addDocumentationRoutes sets up documentation routes
func (r *Router) addDocumentationRoutes(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
}

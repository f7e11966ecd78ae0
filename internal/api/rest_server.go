package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/annel0/voxel-world/internal/eventbus"
	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/metrics"
	"github.com/annel0/voxel-world/internal/middleware"
	"github.com/annel0/voxel-world/internal/storage"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// eventSource - источник событий, публикуемых API
const eventSource = "voxel_api"

// RestServer представляет REST API для инспекции и редактирования мира
type RestServer struct {
	router     *gin.Engine
	httpServer *http.Server
	port       string
	metrics    *ServerMetrics
	logger     *logging.Logger

	// mu защищает мир: модель однопоточная
	mu           sync.RWMutex
	world        *world.World
	lighting     *world.Lighting
	store        storage.WorldStore
	backend      string
	worldMetrics *metrics.WorldMetrics
	bus          eventbus.EventBus
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port         string                // порт для запуска сервера
	World        *world.World          // мир
	Lighting     *world.Lighting       // освещение мира
	Store        storage.WorldStore    // хранилище, может быть nil
	Backend      string                // вид хранилища для метрик
	WorldMetrics *metrics.WorldMetrics // метрики мира, может быть nil
	Registry     *prometheus.Registry  // регистр HTTP-метрик, nil - дефолтный
	Bus          eventbus.EventBus     // шина событий мира, может быть nil
	Logger       *logging.Logger
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) (*RestServer, error) {
	if config.World == nil || config.Lighting == nil {
		return nil, errors.New("для REST сервера нужны мир и освещение")
	}
	if config.Port == "" {
		config.Port = ":8088"
	}
	if config.Logger == nil {
		config.Logger = logging.GetAPILogger()
	}

	// Устанавливаем режим релиза для gin
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	loggerMw := middleware.NewRequestLogger(config.Logger)
	router.Use(loggerMw.Handler())

	router.Use(otelgin.Middleware("voxel_api"))

	promMw := middleware.NewPrometheusMiddleware("voxel_api", config.Registry)
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router)

	server := &RestServer{
		router:       router,
		port:         config.Port,
		metrics:      NewServerMetrics(),
		logger:       config.Logger,
		world:        config.World,
		lighting:     config.Lighting,
		store:        config.Store,
		backend:      config.Backend,
		worldMetrics: config.WorldMetrics,
		bus:          config.Bus,
	}

	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:              config.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return server, nil
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	// Middleware для CORS
	rs.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	api := rs.router.Group("/api")
	{
		blocks := api.Group("/blocks")
		blocks.GET("/:x/:y/:z", rs.handleGetBlock)
		blocks.PUT("/:x/:y/:z", rs.handlePlaceBlock)
		blocks.DELETE("/:x/:y/:z", rs.handleBreakBlock)

		api.GET("/catalog", rs.handleCatalog)
		api.POST("/raycast", rs.handleRaycast)
		api.POST("/collision", rs.handleCollision)
		api.GET("/subchunks/dirty", rs.handleDirtySubChunks)
		api.POST("/save", rs.handleSave)
		api.GET("/stats", rs.handleStats)
	}

	// Health check
	rs.router.GET("/health", rs.handleHealth)
}

// Handler возвращает http.Handler сервера
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// emit публикует событие мира; ошибки шины только логируются
func (rs *RestServer) emit(c *gin.Context, eventType string, payload interface{}) {
	if rs.bus == nil {
		return
	}
	err := eventbus.Emit(c.Request.Context(), rs.bus, eventSource, eventType, c.GetString("trace_id"), payload)
	if err != nil {
		rs.logger.Warn("Не удалось опубликовать событие %s: %v", eventType, err)
	}
}

// handleHealth проверка состояния сервера
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// handleStats возвращает статистику процесса и мира
func (rs *RestServer) handleStats(c *gin.Context) {
	rs.mu.RLock()
	dirty := len(rs.world.DirtySubChunks())
	catalogSize := rs.world.Catalog().Len()
	rs.mu.RUnlock()

	if rs.worldMetrics != nil {
		rs.worldMetrics.SetDirtySubChunks(dirty)
	}

	worldStats := gin.H{
		"size":            world.WorldExtent,
		"height":          world.WorldExtent,
		"block_types":     catalogSize,
		"dirty_subchunks": dirty,
		"storage":         rs.backend,
	}
	if mr, ok := rs.store.(saveMetaReader); ok {
		meta, err := mr.Meta()
		switch {
		case err == nil:
			worldStats["last_save"] = meta
		case !errors.Is(err, storage.ErrNotFound):
			rs.logger.Warn("Не удалось прочитать meta сохранения: %v", err)
		}
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Статистика сервера",
		Data: gin.H{
			"process": rs.metrics.Snapshot(),
			"world":   worldStats,
		},
	})
}

// saveMetaReader - хранилище, которое помнит последнее сохранение (BadgerDB)
type saveMetaReader interface {
	Meta() (*storage.SaveMeta, error)
}

// Start запускает REST сервер и блокируется до его остановки
func (rs *RestServer) Start() error {
	rs.logger.Info("🌐 REST API запущен на %s", rs.port)

	if err := rs.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop останавливает REST сервер, дожидаясь завершения запросов
func (rs *RestServer) Stop(ctx context.Context) error {
	return rs.httpServer.Shutdown(ctx)
}

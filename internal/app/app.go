package app

import (
	"context"
	"course_assistant_backend/internal/config"
	"course_assistant_backend/internal/controller"
	"course_assistant_backend/internal/repository"
	"course_assistant_backend/internal/service"
	"course_assistant_backend/internal/util"
	"course_assistant_backend/pkg/database"
	"course_assistant_backend/pkg/logger"
	"course_assistant_backend/pkg/monitoring"
	"course_assistant_backend/pkg/security"
	"course_assistant_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user         *repository.UserRepository
	instance     *repository.InstanceRepository
	contentBlock *repository.ContentBlockRepository
	conversation *repository.ConversationRepository
	reflection   *repository.ReflectionRepository
}

type services struct {
	auth         *service.AuthService
	storage      *service.StorageService
	instance     *service.InstanceService
	content      *service.ContentService
	extract      *service.ExtractService
	prompt       *service.PromptService
	ai           *service.AIService
	conversation *service.ConversationService
	sessionHub   *service.SessionHub
	assistant    *service.AssistantService
	reflection   *service.ReflectionService
}

type controllers struct {
	auth       *controller.AuthController
	assistant  *controller.AssistantController
	instance   *controller.InstanceController
	content    *controller.ContentController
	reflection *controller.ReflectionController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		instance:     repository.NewInstanceRepository(db),
		contentBlock: repository.NewContentBlockRepository(db),
		conversation: repository.NewConversationRepository(db, rdb),
		reflection:   repository.NewReflectionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.instance = service.NewInstanceService(repos.instance, cfg)
	s.content = service.NewContentService(repos.contentBlock, s.storage, cfg)
	s.extract = service.NewExtractService(repos.contentBlock)
	s.prompt = service.NewPromptService()
	s.ai = service.NewAIService(cfg.AI)
	s.conversation = service.NewConversationService(repos.conversation)

	s.sessionHub = service.NewSessionHub()
	go s.sessionHub.Run()

	s.assistant = service.NewAssistantService(repos.instance, s.extract, s.prompt, s.ai, s.conversation, s.sessionHub)
	s.reflection = service.NewReflectionService(repos.reflection, repos.instance, s.sessionHub)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		assistant:  controller.NewAssistantController(s.assistant, s.reflection, s.sessionHub),
		instance:   controller.NewInstanceController(s.instance),
		content:    controller.NewContentController(s.content),
		reflection: controller.NewReflectionController(s.reflection),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// ReloadConfig 配置热更新回调，目前只有大模型接入参数支持运行期更换
func (a *App) ReloadConfig(cfg *config.Config) {
	if a.services == nil || a.services.ai == nil {
		return
	}
	a.services.ai.Reload(cfg.AI)
	logger.Log.Info("AI 接入配置已热更新",
		zap.String("baseUrl", cfg.AI.BaseURL),
		zap.String("model", cfg.AI.Model))
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("course-assistant", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.services != nil && a.services.sessionHub != nil {
		a.services.sessionHub.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

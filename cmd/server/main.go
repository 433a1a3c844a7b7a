package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Artixsss/MVDProject/internal/ai"
	"github.com/Artixsss/MVDProject/internal/config"
	"github.com/Artixsss/MVDProject/internal/db"
	"github.com/Artixsss/MVDProject/internal/geo"
	"github.com/Artixsss/MVDProject/internal/goroutine"
	httpHandlers "github.com/Artixsss/MVDProject/internal/http/handlers"
	httpRouter "github.com/Artixsss/MVDProject/internal/http/router"
	"github.com/Artixsss/MVDProject/internal/logger"
	"github.com/Artixsss/MVDProject/internal/repository"
	"github.com/Artixsss/MVDProject/internal/service"
	"github.com/Artixsss/MVDProject/internal/storage"
	"github.com/Artixsss/MVDProject/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе, миграции и сиды справочников.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	seedService := service.NewSeedService(dbConn)
	if err := seedService.Seed(ctx); err != nil {
		log.Fatalf("main: ошибка заполнения справочников: %v", err)
	}

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	requestRepo := repository.NewRequestRepository(dbConn)
	citizenRepo := repository.NewCitizenRepository(dbConn)
	employeeRepo := repository.NewEmployeeRepository(dbConn)
	referenceRepo := repository.NewReferenceRepository(dbConn)
	auditRepo := repository.NewAuditRepository(dbConn)
	userRepo := repository.NewUserRepository(dbConn)
	attachmentRepo := repository.NewAttachmentRepository(dbConn)

	// Внешние клиенты.
	aiClient := ai.NewClient(cfg.AIBaseURL, cfg.AIModel, cfg.AIAPIKey, cfg.AITimeout)
	geocoder := geo.NewGeocoder(cfg.NominatimBaseURL, cfg.GeocodeCity, cfg.GeocodeTimeout)

	// Сервисы.
	auditService := service.NewAuditService(auditRepo)
	locationService := service.NewLocationService(geocoder, aiClient, referenceRepo)
	assignmentPolicy := service.NewFirstEmployeePolicy(employeeRepo)
	intakeService := service.NewIntakeService(requestRepo, citizenRepo, referenceRepo, auditService, aiClient, locationService, assignmentPolicy)
	requestService := service.NewRequestService(requestRepo, referenceRepo, employeeRepo, auditService, aiClient)
	authService := service.NewAuthService(userRepo, referenceRepo, tokenManager)
	employeeService := service.NewEmployeeService(employeeRepo, userRepo, requestRepo, citizenRepo)

	// Вебсокеты: все сотрудники получают события о новых обращениях
	// и готовности AI-анализа.
	hub := ws.NewHub()
	goroutine.SafeGo(hub.Run)
	intakeService.SetHub(hub)
	requestService.SetHub(hub)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	requestHandler := httpHandlers.NewRequestHandler(intakeService, requestService, referenceRepo)
	operatorHandler := httpHandlers.NewOperatorHandler(intakeService, requestService, userRepo)
	employeeHandler := httpHandlers.NewEmployeeHandler(employeeService)
	catalogHandler := httpHandlers.NewCatalogHandler(referenceRepo)
	attachmentHandler := httpHandlers.NewAttachmentHandler(attachmentRepo, requestService, photoStorage)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, requestHandler, operatorHandler, employeeHandler, catalogHandler, attachmentHandler, wsHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}

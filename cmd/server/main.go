package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lessonhub/lessonhub/internal/app"
	"github.com/lessonhub/lessonhub/internal/cache"
	"github.com/lessonhub/lessonhub/internal/config"
	"github.com/lessonhub/lessonhub/internal/notify"
	"github.com/lessonhub/lessonhub/internal/repository"
	"github.com/lessonhub/lessonhub/internal/service"
	"github.com/lessonhub/lessonhub/internal/storage"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, "migrations")
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	blobs, err := storage.NewLocalStore(cfg.MaterialsDir)
	if err != nil {
		logger.Fatal("Failed to create blob store", zap.Error(err))
	}

	stores := repository.NewRegistry(pool)

	// Один процессный кэш на горячие записи пользователей и уроков
	shared := cache.NewShared(cfg.CacheCapacity)
	users := cache.NewUsers(shared, stores.Users())
	bookings := cache.NewBookings(shared, stores.Bookings())

	var notifier notify.Notifier = notify.Nop{}
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramToken, users, logger)
		if err != nil {
			logger.Fatal("Failed to create telegram notifier", zap.Error(err))
		}
		notifier = tg
	}

	identity := service.ContextIdentity{}

	lessonService := service.NewLessonService(stores, users, bookings, notifier, logger)
	scheduleService := service.NewScheduleService(stores.Bookings(), identity, logger)
	calendarService := service.NewCalendarService(stores.Bookings())
	accessService := service.NewAccessService(bookings)
	messageService := service.NewMessageService(stores.Messages(), accessService, logger)
	materialService := service.NewMaterialService(stores.Materials(), accessService, blobs, logger)
	deletionService := service.NewDeletionService(stores, blobs, bookings, logger)

	sweeper := app.NewSweeper(lessonService, cfg.SweepInterval, logger)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	// Сервисы готовы; внешний слой (HTTP и т.п.) подключается здесь.
	_ = scheduleService
	_ = calendarService
	_ = messageService
	_ = materialService
	_ = deletionService

	logger.Info("lessonhub started",
		zap.String("environment", cfg.Environment),
		zap.Int("cache_capacity", cfg.CacheCapacity),
	)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
}

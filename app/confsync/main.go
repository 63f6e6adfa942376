package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/campusmedia/confsync/config"
	"github.com/campusmedia/confsync/internal/logger"
	"github.com/campusmedia/confsync/internal/models"
	"github.com/campusmedia/confsync/internal/providers/conference"
	"github.com/campusmedia/confsync/internal/providers/encoder"
	"github.com/campusmedia/confsync/internal/providers/notify"
	postgres "github.com/campusmedia/confsync/internal/repositories/postgres"
	"github.com/campusmedia/confsync/internal/services"
	"github.com/campusmedia/confsync/internal/storage"
)

// confsync performs one reconciliation run against the conference server and
// exits. Scheduling (e.g. a cron entry every few minutes) and run overlap
// prevention belong to the caller.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logg := logger.New(cfg.Debug)

	if err := config.InitPostgres(); err != nil {
		logg.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := config.InitRedis(); err != nil {
		logg.Fatalf("Redis init error: %v", err)
	}

	db := config.PostgresDB
	if err := db.AutoMigrate(&models.Meeting{}, &models.Attendee{}, &models.User{}, &models.Video{}); err != nil {
		logg.Fatalf("migration error: %v", err)
	}

	meetings := postgres.NewMeetingRepo(db)
	attendees := postgres.NewAttendeeRepo(db)
	users := postgres.NewUserRepo(db)
	videos := postgres.NewVideoRepo(db)

	conf := conference.NewBBBClient(conference.BBBConfig{
		BaseURL: cfg.ServerURL,
		Secret:  cfg.ServerSecret,
	}, logg)

	store := storage.NewLocalStore(cfg.DropPath, cfg.MediaRoot, logg)
	enc := encoder.NewRedisEncoder(config.RedisClient, cfg.EncodeStream)

	var notifier notify.Provider
	if cfg.AdminEmail != "" {
		notifier = notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:       cfg.SMTPHost,
			Port:       cfg.SMTPPort,
			From:       cfg.SMTPFrom,
			Username:   cfg.SMTPUsername,
			Password:   cfg.SMTPPassword,
			AdminEmail: cfg.AdminEmail,
		})
	} else {
		notifier = notify.NewNoop(logg)
	}

	sync := services.NewSyncService(
		services.NewReconcileService(conf, meetings, attendees, logg),
		services.NewRecordingService(conf, meetings, logg),
		services.NewMatchingService(attendees, users, cfg.UsernameFormat, logg),
		services.NewIngestService(meetings, videos, store, store, enc, cfg, logg),
		notifier,
		logg,
	)

	if err := sync.Run(context.Background()); err != nil {
		logg.WithError(err).Error("conference sync run aborted")
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aircon-store/storefront/app/routes"
	"github.com/aircon-store/storefront/app/services"
	"github.com/aircon-store/storefront/config"
	"github.com/aircon-store/storefront/pkg/app"
	"github.com/aircon-store/storefront/pkg/cache"
	"github.com/aircon-store/storefront/pkg/compare"
	"github.com/aircon-store/storefront/pkg/crypt"
	"github.com/aircon-store/storefront/pkg/database"
	"github.com/aircon-store/storefront/pkg/logger"
	"github.com/aircon-store/storefront/pkg/router"
	"github.com/aircon-store/storefront/pkg/session"
	"github.com/aircon-store/storefront/pkg/storage"
)

var closeLogger = func() {}

// bootConfig loads configuration and installs the process logger.
func bootConfig() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	closer, err := logger.Setup(logger.Options{
		Env:      config.AppEnv(),
		MongoURI: config.LogMongoURI(),
		MongoDB:  config.LogMongoDB(),
	})
	closeLogger = closer
	if err != nil {
		logger.Warn("mongo log sink disabled", "error", err)
	}
	return nil
}

func openDB() (*gorm.DB, error) {
	if database.DB != nil {
		return database.DB, nil
	}
	if err := database.Connect(); err != nil {
		return nil, err
	}
	return database.DB, nil
}

// buildApp connects every backing service and returns the assembled
// application.
func buildApp() (*app.Application, error) {
	db, err := openDB()
	if err != nil {
		return nil, err
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, sessions kept in memory", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	disk, err := storage.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	box, err := crypt.Default()
	if err != nil {
		return nil, err
	}

	sessOpts := session.DefaultOptions()
	sessOpts.TTL = config.SessionTTL()
	sessOpts.Secure = config.SessionSecure()

	env := routes.Env{
		DB:      db,
		Disk:    disk,
		Compare: compare.NewCookieStore(box, config.SessionSecure()),
		Contact: services.Settings{
			PhoneNumber: config.ContactPhone(),
			ZaloNumber:  config.ContactZalo(),
			FacebookURL: config.ContactFacebook(),
		},
		UploadMaxBytes: config.UploadMaxBytes(),
		BatchWorkers:   config.BatchWorkers(),
		UploadsPath:    config.StorageURL(),
	}

	return app.New().
		Sessions(sessOpts, cache.Default()).
		CORS(config.CORSOrigins()...).
		RateLimit(config.RateLimitPerMinute()).
		Routes(func(r *router.Router) { routes.Register(r, env) }), nil
}

package app

import (
	"context"
	"errors"
	"net/http"

	"gear-tracker-go/internal/config"
	"gear-tracker-go/internal/db"
	bandsvc "gear-tracker-go/internal/domain/band"
	gigsvc "gear-tracker-go/internal/domain/gig"
	instrumentdomain "gear-tracker-go/internal/domain/instrument"
	usersvc "gear-tracker-go/internal/domain/user"
	bandrepo "gear-tracker-go/internal/repository/postgres/band"
	gigrepo "gear-tracker-go/internal/repository/postgres/gig"
	instrumentrepo "gear-tracker-go/internal/repository/postgres/instrument"
	userrepo "gear-tracker-go/internal/repository/postgres/user"
	"gear-tracker-go/internal/storage"
	"gear-tracker-go/internal/transport/httpserver"
	"gear-tracker-go/internal/transport/httpserver/handler"
	"gear-tracker-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB)
	if err != nil {
		return nil, err
	}

	log.Info("app: running migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	users := usersvc.NewService(userrepo.NewPostgres(dbConn))
	bandRepository := bandrepo.NewPostgres(dbConn)
	bands := bandsvc.NewService(bandRepository)
	instrumentRepository := instrumentrepo.NewPostgres(dbConn)
	instruments := instrumentdomain.NewService(instrumentRepository)
	gigs := gigsvc.NewService(gigrepo.NewPostgres(dbConn), bandRepository, instrumentOwnership{repo: instrumentRepository})

	var images storage.ImageStore
	if cfg.Storage.Bucket != "" {
		log.Info("app: initializing object storage", "bucket", cfg.Storage.Bucket)
		store, err := storage.NewS3(context.Background(), cfg.Storage)
		if err != nil {
			return nil, err
		}
		images = store
	} else {
		log.Warn("app: object storage not configured, image uploads disabled")
	}

	handlers := handler.New(users, bands, instruments, gigs, images, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, users, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// instrumentOwnership adapts the instrument repository to the gig
// service's ownership check.
type instrumentOwnership struct {
	repo instrumentdomain.Repository
}

func (a instrumentOwnership) OwnsInstrument(ctx context.Context, ownerID string, instrumentID uint) (bool, error) {
	if _, err := a.repo.GetByID(ctx, ownerID, instrumentID); err != nil {
		if errors.Is(err, instrumentdomain.ErrInstrumentNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

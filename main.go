package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mbolis/survey-api/app"
	"github.com/mbolis/survey-api/config"
	"github.com/mbolis/survey-api/httpx"
	"github.com/mbolis/survey-api/log"
	"github.com/mbolis/survey-api/routes"
	"github.com/mbolis/survey-api/storage"
	"github.com/mbolis/survey-api/storage/memory"
	"github.com/mbolis/survey-api/storage/mongo"
	"github.com/mbolis/survey-api/storage/sqlite"
	"github.com/mbolis/survey-api/survey"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal("main.store.open:", err)
	}
	defer store.Close()

	surveys := survey.NewService(store.Surveys, store.Responses)
	responses := survey.NewResponseService(store.Responses, surveys)
	bearerServer := httpx.NewBearerServer(store.Users, cfg)

	app := app.App{
		Surveys:      surveys,
		Responses:    responses,
		Users:        store.Users,
		BearerServer: bearerServer,
		Config:       cfg,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func openStore(cfg config.Config) (*storage.Store, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return memory.NewStore(), nil
	case config.StorageSQLite:
		return sqlite.Open(cfg.DBUrl)
	case config.StorageMongo:
		return mongo.Open(context.Background(), cfg.MongoURL)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}

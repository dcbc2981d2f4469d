package repository

import (
	"errors"
	"fmt"

	"warehouse-inventory-api/internal/config"
	"warehouse-inventory-api/internal/model"
	"warehouse-inventory-api/pkg/database"

	"go.uber.org/zap"
)

// Open builds the TableQuery selected by cfg.Store.Driver.
func Open(cfg *config.Config, log *zap.Logger) (TableQuery, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.Connect(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.AutoMigrate {
			if err := db.AutoMigrate(model.Tables()...); err != nil {
				return nil, fmt.Errorf("auto migrate: %w", err)
			}
			log.Info("database migrated")
		}
		log.Info("store ready", zap.String("driver", cfg.Store.Driver))
		return NewGormTable(db), nil

	case config.DriverPostgREST:
		if cfg.PostgREST.URL == "" || cfg.PostgREST.Key == "" {
			return nil, errors.New("SUPABASE_URL and SUPABASE_KEY are required for the postgrest driver")
		}
		log.Info("store ready",
			zap.String("driver", cfg.Store.Driver),
			zap.String("url", cfg.PostgREST.URL),
		)
		return NewPostgRESTTable(cfg.PostgREST.URL, cfg.PostgREST.Key, cfg.Store.Timeout), nil

	case config.DriverSQLite:
		db, err := database.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		log.Info("store ready",
			zap.String("driver", cfg.Store.Driver),
			zap.String("path", cfg.SQLite.Path),
		)
		return NewSQLiteTable(db), nil

	case config.DriverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return NewMemoryTable(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

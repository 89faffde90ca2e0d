package api

import (
	"go.uber.org/zap"

	"github.com/openmartech/adreport/internal/config"
	"github.com/openmartech/adreport/internal/db"
	"github.com/openmartech/adreport/internal/observability"
	"github.com/openmartech/adreport/internal/warehouse"
)

// Server groups dependencies for HTTP handlers.
type Server struct {
	Logger    *zap.Logger
	Warehouse *warehouse.Warehouse
	PG        *db.Postgres
	Cache     *db.RedisStore
	Metrics   observability.MetricsRegistry
	Config    config.Config
}

// NewServer constructs a Server.
func NewServer(logger *zap.Logger, wh *warehouse.Warehouse, pg *db.Postgres, cache *db.RedisStore, metrics observability.MetricsRegistry, cfg config.Config) *Server {
	return &Server{
		Logger:    logger,
		Warehouse: wh,
		PG:        pg,
		Cache:     cache,
		Metrics:   metrics,
		Config:    cfg,
	}
}

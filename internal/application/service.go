package application

import (
	"time"

	"github.com/ordermesh/logistics-service/internal/ports"
)

type Config struct {
	ServiceName   string
	EventDedupTTL time.Duration
	CacheTTL      time.Duration
}

type Service struct {
	cfg        Config
	shipments  ports.ShipmentRepository
	eventDedup ports.EventDedupRepository
	outbox     ports.OutboxRepository
	cache      ports.Cache
	nowFn      func() time.Time
}

type Dependencies struct {
	Config     Config
	Shipments  ports.ShipmentRepository
	EventDedup ports.EventDedupRepository
	Outbox     ports.OutboxRepository
	Cache      ports.Cache
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "logistics-service"
	}
	if cfg.EventDedupTTL <= 0 {
		cfg.EventDedupTTL = 7 * 24 * time.Hour
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &Service{
		cfg:        cfg,
		shipments:  deps.Shipments,
		eventDedup: deps.EventDedup,
		outbox:     deps.Outbox,
		cache:      deps.Cache,
		nowFn:      func() time.Time { return time.Now().UTC() },
	}
}

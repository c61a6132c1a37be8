package service

import (
	"context"
	"strings"
	"time"

	"github.com/logiroute/internal/cache"
	"github.com/logiroute/internal/config"
	"github.com/logiroute/internal/logger"
	"github.com/logiroute/internal/models"
	"github.com/logiroute/internal/repository"
)

// TrackingResult 公开追踪结果
type TrackingResult struct {
	Shipment models.Shipment        `json:"shipment"`
	Events   []models.ShipmentEvent `json:"events"`
}

// TrackingService 运单号公开查询服务
// 运单号即访问凭证，不做归属校验
type TrackingService struct {
	cfg          *config.Config
	shipmentRepo repository.ShipmentRepository
	eventRepo    repository.ShipmentEventRepository
}

// NewTrackingService 创建追踪服务
func NewTrackingService(cfg *config.Config, shipmentRepo repository.ShipmentRepository, eventRepo repository.ShipmentEventRepository) *TrackingService {
	return &TrackingService{
		cfg:          cfg,
		shipmentRepo: shipmentRepo,
		eventRepo:    eventRepo,
	}
}

// Track 按运单号查询运单及全部事件（按发生时间升序）
func (s *TrackingService) Track(ctx context.Context, trackingNumber string) (*TrackingResult, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, ErrShipmentNotFound
	}

	var cached TrackingResult
	hit, err := cache.GetTracking(ctx, trackingNumber, &cached)
	if err != nil {
		logger.Warnw("tracking_cache_read_failed", "tracking_number", trackingNumber, "error", err)
	}
	if hit {
		return &cached, nil
	}

	shipment, err := s.shipmentRepo.GetByTrackingNumber(trackingNumber)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, ErrShipmentNotFound
	}
	events, err := s.eventRepo.ListByShipmentID(shipment.ID)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.ShipmentEvent{}
	}
	result := &TrackingResult{Shipment: *shipment, Events: events}

	if err := cache.SetTracking(ctx, trackingNumber, result, s.cacheTTL()); err != nil {
		logger.Warnw("tracking_cache_write_failed", "tracking_number", trackingNumber, "error", err)
	}
	return result, nil
}

func (s *TrackingService) cacheTTL() time.Duration {
	if s.cfg == nil || s.cfg.Shipment.TrackingTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(s.cfg.Shipment.TrackingTTLSeconds) * time.Second
}

package queue

import (
	"testing"

	"github.com/logiroute/internal/config"
)

func TestShipmentStatusTaskRoundTrip(t *testing.T) {
	task, err := NewShipmentStatusTask(ShipmentStatusPayload{
		ShipmentID:     3,
		TrackingNumber: " TN123 ",
		Status:         "in_transit",
		ChangedBy:      9,
	})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskShipmentStatusNotify {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := ParseShipmentStatusPayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.ShipmentID != 3 || payload.TrackingNumber != "TN123" || payload.ChangedBy != 9 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("disabled client should report not enabled")
	}
	if err := client.EnqueueShipmentStatus(ShipmentStatusPayload{ShipmentID: 1}); err != nil {
		t.Fatalf("disabled enqueue should be noop, got %v", err)
	}

	var nilClient *Client
	if err := nilClient.EnqueueShipmentStatus(ShipmentStatusPayload{ShipmentID: 1}); err != nil {
		t.Fatalf("nil client enqueue should be noop, got %v", err)
	}
}

func TestServerConfigDefaults(t *testing.T) {
	if opt := RedisOpt(nil); opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("unexpected addr: %s", opt.Addr)
	}
	cfg := ServerConfig(nil)
	if cfg.Concurrency != 5 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}

func TestServerConfigOverrides(t *testing.T) {
	queueCfg := &config.QueueConfig{
		Host:        " redis.internal ",
		Port:        6380,
		DB:          2,
		Concurrency: 12,
		Queues:      map[string]int{"notify": 3},
	}
	opt := RedisOpt(queueCfg)
	if opt.Addr != "redis.internal:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	cfg := ServerConfig(queueCfg)
	if cfg.Concurrency != 12 || cfg.Queues["notify"] != 3 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}

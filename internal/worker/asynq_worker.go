package worker

import (
	"context"
	"strings"

	"github.com/logiroute/internal/logger"
	"github.com/logiroute/internal/models"
	"github.com/logiroute/internal/provider"
	"github.com/logiroute/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
// 只读取运单与用户，从不修改运单
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskShipmentStatusNotify, c.handleShipmentStatusNotify)
}

// ShipmentStatusNotice 运单状态通知内容
type ShipmentStatusNotice struct {
	Receiver       string
	TrackingNumber string
	Status         string
	Message        string
}

// buildShipmentStatusNotice 组装通知，收件人缺失时返回 nil
func buildShipmentStatusNotice(shipment *models.Shipment, client *models.User, status string) *ShipmentStatusNotice {
	if shipment == nil || client == nil {
		return nil
	}
	receiver := strings.TrimSpace(client.Email)
	if receiver == "" {
		return nil
	}
	status = strings.TrimSpace(status)
	if status == "" {
		status = shipment.Status
	}
	return &ShipmentStatusNotice{
		Receiver:       receiver,
		TrackingNumber: shipment.TrackingNumber,
		Status:         status,
		Message:        "Shipment " + shipment.TrackingNumber + " status updated to " + status,
	}
}

func (c *Consumer) handleShipmentStatusNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_shipment_status_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseShipmentStatusPayload(task)
	if err != nil {
		logger.Warnw("worker_shipment_status_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.ShipmentID == 0 {
		logger.Debugw("worker_shipment_status_notify_skip_invalid_payload", "shipment_id", payload.ShipmentID)
		return nil
	}
	shipment, err := c.ShipmentRepo.GetByID(payload.ShipmentID)
	if err != nil {
		logger.Warnw("worker_shipment_status_notify_fetch_shipment_failed", "shipment_id", payload.ShipmentID, "error", err)
		return err
	}
	if shipment == nil {
		logger.Debugw("worker_shipment_status_notify_skip_shipment_not_found", "shipment_id", payload.ShipmentID)
		return nil
	}
	client, err := c.UserRepo.GetByID(shipment.ClientID)
	if err != nil {
		logger.Warnw("worker_shipment_status_notify_fetch_client_failed", "shipment_id", shipment.ID, "client_id", shipment.ClientID, "error", err)
		return err
	}
	notice := buildShipmentStatusNotice(shipment, client, payload.Status)
	if notice == nil {
		logger.Debugw("worker_shipment_status_notify_skip_empty_receiver", "shipment_id", shipment.ID, "tracking_number", shipment.TrackingNumber)
		return nil
	}
	logger.Infow("shipment_status_notified",
		"shipment_id", shipment.ID,
		"tracking_number", notice.TrackingNumber,
		"status", notice.Status,
		"receiver", notice.Receiver,
		"changed_by", payload.ChangedBy,
	)
	return nil
}

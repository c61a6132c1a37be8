package queue

import (
	"encoding/json"
	"strings"

	"github.com/logiroute/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskShipmentStatusNotify 运单状态变更通知任务
	TaskShipmentStatusNotify = constants.TaskShipmentStatusNotify
)

// ShipmentStatusPayload 运单状态通知任务载荷
type ShipmentStatusPayload struct {
	ShipmentID     uint   `json:"shipment_id"`
	TrackingNumber string `json:"tracking_number"`
	Status         string `json:"status"`
	ChangedBy      uint   `json:"changed_by"`
}

// NewShipmentStatusTask 创建运单状态通知任务
func NewShipmentStatusTask(payload ShipmentStatusPayload) (*asynq.Task, error) {
	payload.TrackingNumber = strings.TrimSpace(payload.TrackingNumber)
	payload.Status = strings.TrimSpace(payload.Status)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskShipmentStatusNotify, body), nil
}

// ParseShipmentStatusPayload 解析运单状态通知任务载荷
func ParseShipmentStatusPayload(task *asynq.Task) (ShipmentStatusPayload, error) {
	var payload ShipmentStatusPayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}

package service

import (
	"fmt"

	"github.com/logiroute/internal/constants"
)

// allowedShipmentTransitions 运单状态机
// pending -> assigned -> in_transit -> delivered，未签收前均可取消
var allowedShipmentTransitions = map[string]map[string]bool{
	constants.ShipmentStatusPending: {
		constants.ShipmentStatusAssigned:  true,
		constants.ShipmentStatusCancelled: true,
	},
	constants.ShipmentStatusAssigned: {
		constants.ShipmentStatusInTransit: true,
		constants.ShipmentStatusCancelled: true,
	},
	constants.ShipmentStatusInTransit: {
		constants.ShipmentStatusDelivered: true,
		constants.ShipmentStatusCancelled: true,
	},
}

// CanTransitionShipment 判断状态迁移是否合法（自迁移不合法）
func CanTransitionShipment(from, to string) bool {
	return allowedShipmentTransitions[from][to]
}

// IsTerminalShipmentStatus 是否终态
func IsTerminalShipmentStatus(status string) bool {
	return status == constants.ShipmentStatusDelivered || status == constants.ShipmentStatusCancelled
}

func validateShipmentTransition(from, to string) error {
	if !CanTransitionShipment(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

func statusEventDescription(status string) string {
	return "Status updated to " + status
}

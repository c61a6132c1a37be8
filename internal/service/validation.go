package service

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/logiroute/internal/constants"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9\-()\s]{6,20}$`)
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]{3,64}$`)

func requireText(v *ValidationError, field, value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		v.Add(field, ReasonRequired)
	}
	return trimmed
}

func checkMaxLength(v *ValidationError, field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		v.Add(field, ReasonTooLong)
	}
}

func checkPhone(v *ValidationError, field, value string, required bool) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if required {
			v.Add(field, ReasonRequired)
		}
		return ""
	}
	if !phonePattern.MatchString(trimmed) {
		v.Add(field, ReasonInvalid)
	}
	return trimmed
}

func checkEnum(v *ValidationError, field, value string, allowed ...string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, item := range allowed {
		if normalized == item {
			return normalized
		}
	}
	if normalized == "" {
		v.Add(field, ReasonRequired)
	} else {
		v.Add(field, ReasonInvalid)
	}
	return normalized
}

func normalizeEmail(email string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		return "", false
	}
	return normalized, true
}

func isShipmentStatus(value string) bool {
	switch value {
	case constants.ShipmentStatusPending,
		constants.ShipmentStatusAssigned,
		constants.ShipmentStatusInTransit,
		constants.ShipmentStatusDelivered,
		constants.ShipmentStatusCancelled:
		return true
	}
	return false
}

var paymentMethods = []string{constants.PaymentMethodPrepaid, constants.PaymentMethodCashOnDelivery}
var paymentStatuses = []string{constants.PaymentStatusPending, constants.PaymentStatusPaid}
var personnelPositions = []string{constants.PositionDriver, constants.PositionDispatcher}
var vehicleTypes = []string{constants.VehicleTypeVan, constants.VehicleTypeTruck, constants.VehicleTypeMotorcycle}
var vehicleStatuses = []string{constants.VehicleStatusAvailable, constants.VehicleStatusInUse, constants.VehicleStatusMaintenance}
var userRoles = []string{constants.RoleAdmin, constants.RoleClient, constants.RolePersonnel}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/logiroute/internal/constants"
)

func TestTrackReturnsShipmentWithChronologicalEvents(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin", constants.RoleAdmin)
	client := env.seedUser(t, "client1", constants.RoleClient)
	driver := env.seedUser(t, "driver1", constants.RolePersonnel)

	input := validShipmentInput(client.UserID)
	input.TrackingNumber = "TN100001"
	shipment, err := env.shipments.CreateShipment(admin, input)
	if err != nil {
		t.Fatalf("create shipment failed: %v", err)
	}
	if _, err := env.shipments.UpdateShipment(ctx, admin, shipment.ID, ShipmentPatch{
		Status:           strPtr("assigned"),
		AssignedDriverID: uintPtr(driver.UserID),
	}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if _, err := env.shipments.UpdateShipment(ctx, driver, shipment.ID, ShipmentPatch{Status: strPtr("in_transit")}); err != nil {
		t.Fatalf("in_transit failed: %v", err)
	}

	result, err := env.tracking.Track(ctx, " TN100001 ")
	if err != nil {
		t.Fatalf("track failed: %v", err)
	}
	if result.Shipment.ID != shipment.ID {
		t.Fatalf("unexpected shipment: %+v", result.Shipment)
	}
	if len(result.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(result.Events))
	}
	wantTypes := []string{constants.ShipmentEventCreated, constants.ShipmentStatusAssigned, constants.ShipmentStatusInTransit}
	for i, event := range result.Events {
		if event.EventType != wantTypes[i] {
			t.Fatalf("event %d: expected %s, got %s", i, wantTypes[i], event.EventType)
		}
		if i > 0 && event.CreatedAt.Before(result.Events[i-1].CreatedAt) {
			t.Fatalf("events out of order at %d", i)
		}
	}
}

func TestTrackUnknownNumber(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	if _, err := env.tracking.Track(ctx, "UNKNOWN"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := env.tracking.Track(ctx, "   "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for blank number, got %v", err)
	}
}

func TestTrackDeletedShipmentIsNotFound(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin", constants.RoleAdmin)
	client := env.seedUser(t, "client1", constants.RoleClient)

	shipment, err := env.shipments.CreateShipment(admin, validShipmentInput(client.UserID))
	if err != nil {
		t.Fatalf("create shipment failed: %v", err)
	}
	if _, err := env.tracking.Track(ctx, shipment.TrackingNumber); err != nil {
		t.Fatalf("track before delete failed: %v", err)
	}
	if err := env.shipments.DeleteShipment(ctx, admin, shipment.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := env.tracking.Track(ctx, shipment.TrackingNumber); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

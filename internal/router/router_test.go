package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/logiroute/internal/config"
	"github.com/logiroute/internal/constants"
	"github.com/logiroute/internal/models"
	"github.com/logiroute/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type routerTestEnv struct {
	engine    *gin.Engine
	container *provider.Container
	db        *gorm.DB
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
	Pagination struct {
		Total int64 `json:"total"`
	} `json:"pagination"`
}

func setupRouterTest(t *testing.T) *routerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{SecretKey: "router-test-secret", ExpireHours: 1},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8},
		},
		Shipment: config.ShipmentConfig{TrackingPrefix: "TN", TrackingDigits: 10},
	}
	container := provider.NewContainerWithDB(cfg, db)
	return &routerTestEnv{
		engine:    SetupRouter(cfg, container),
		container: container,
		db:        db,
	}
}

// tokenFor 直接写库创建账号并签发 Token
func (env *routerTestEnv) tokenFor(t *testing.T, username, role string) (uint, string) {
	t.Helper()
	now := time.Now()
	user := models.User{
		Username:     username,
		PasswordHash: "hash",
		FullName:     username,
		Email:        username + "@example.com",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := env.db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	token, _, err := env.container.UserAuthService.GenerateUserJWT(&user)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	return user.ID, token
}

func (env *routerTestEnv) do(t *testing.T, method, path, token string, body interface{}) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: http status want 200 got %d", method, path, w.Code)
	}
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s: unmarshal response failed: %v body=%s", method, path, err, w.Body.String())
	}
	return resp
}

func shipmentBody(clientID uint) map[string]interface{} {
	return map[string]interface{}{
		"client_id":        clientID,
		"pickup_address":   "Westlands",
		"delivery_address": "Kilimani",
		"recipient_name":   "Jane Wanjiku",
		"recipient_phone":  "+254700000001",
		"payment_method":   constants.PaymentMethodCashOnDelivery,
		"amount":           "2500.00",
	}
}

func TestShipmentRoutesEndToEnd(t *testing.T) {
	env := setupRouterTest(t)
	_, adminToken := env.tokenFor(t, "admin", constants.RoleAdmin)
	clientID, clientToken := env.tokenFor(t, "client1", constants.RoleClient)
	driverID, driverToken := env.tokenFor(t, "driver1", constants.RolePersonnel)

	created := env.do(t, http.MethodPost, "/api/v1/shipments", adminToken, shipmentBody(clientID))
	if created.StatusCode != 0 {
		t.Fatalf("create shipment: status_code want 0 got %d (%s)", created.StatusCode, created.Msg)
	}
	var shipment models.Shipment
	if err := json.Unmarshal(created.Data, &shipment); err != nil {
		t.Fatalf("decode shipment failed: %v", err)
	}
	if shipment.Status != constants.ShipmentStatusPending || shipment.ClientID != clientID {
		t.Fatalf("unexpected shipment: %+v", shipment)
	}
	detailPath := fmt.Sprintf("/api/v1/shipments/%d", shipment.ID)

	assigned := env.do(t, http.MethodPatch, detailPath, adminToken, map[string]interface{}{
		"status":             constants.ShipmentStatusAssigned,
		"assigned_driver_id": driverID,
	})
	if assigned.StatusCode != 0 {
		t.Fatalf("assign: status_code want 0 got %d (%s)", assigned.StatusCode, assigned.Msg)
	}

	// 司机附带其他字段的更新整体拒绝
	denied := env.do(t, http.MethodPatch, detailPath, driverToken, map[string]interface{}{
		"status": constants.ShipmentStatusInTransit,
		"notes":  "leave at gate",
	})
	if denied.StatusCode != 403 {
		t.Fatalf("personnel extra field patch: status_code want 403 got %d", denied.StatusCode)
	}
	moved := env.do(t, http.MethodPatch, detailPath, driverToken, map[string]interface{}{
		"status": constants.ShipmentStatusInTransit,
	})
	if moved.StatusCode != 0 {
		t.Fatalf("personnel status patch: status_code want 0 got %d (%s)", moved.StatusCode, moved.Msg)
	}

	events := env.do(t, http.MethodGet, detailPath+"/events", clientToken, nil)
	var eventList []models.ShipmentEvent
	if err := json.Unmarshal(events.Data, &eventList); err != nil {
		t.Fatalf("decode events failed: %v", err)
	}
	if len(eventList) != 3 {
		t.Fatalf("expected 3 events, got %d", len(eventList))
	}

	tracked := env.do(t, http.MethodGet, "/api/v1/public/track/"+shipment.TrackingNumber, "", nil)
	if tracked.StatusCode != 0 {
		t.Fatalf("track: status_code want 0 got %d", tracked.StatusCode)
	}
	var trackData struct {
		Shipment models.Shipment        `json:"shipment"`
		Events   []models.ShipmentEvent `json:"events"`
	}
	if err := json.Unmarshal(tracked.Data, &trackData); err != nil {
		t.Fatalf("decode track result failed: %v", err)
	}
	if trackData.Shipment.Status != constants.ShipmentStatusInTransit || len(trackData.Events) != 3 {
		t.Fatalf("unexpected track result: status=%s events=%d", trackData.Shipment.Status, len(trackData.Events))
	}

	list := env.do(t, http.MethodGet, "/api/v1/shipments", clientToken, nil)
	if list.StatusCode != 0 || list.Pagination.Total != 1 {
		t.Fatalf("client list: status_code=%d total=%d", list.StatusCode, list.Pagination.Total)
	}

	if resp := env.do(t, http.MethodDelete, detailPath, clientToken, nil); resp.StatusCode != 403 {
		t.Fatalf("client delete: status_code want 403 got %d", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodDelete, detailPath, adminToken, nil); resp.StatusCode != 0 {
		t.Fatalf("admin delete: status_code want 0 got %d", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodGet, detailPath, adminToken, nil); resp.StatusCode != 404 {
		t.Fatalf("get after delete: status_code want 404 got %d", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodGet, "/api/v1/public/track/"+shipment.TrackingNumber, "", nil); resp.StatusCode != 404 {
		t.Fatalf("track after delete: status_code want 404 got %d", resp.StatusCode)
	}
}

func TestShipmentRoutesRequireAuthentication(t *testing.T) {
	env := setupRouterTest(t)
	if resp := env.do(t, http.MethodGet, "/api/v1/shipments", "", nil); resp.StatusCode != 401 {
		t.Fatalf("status_code want 401 got %d", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodGet, "/api/v1/shipments", "not-a-token", nil); resp.StatusCode != 401 {
		t.Fatalf("status_code want 401 for bad token got %d", resp.StatusCode)
	}
}

func TestCreateShipmentValidationFields(t *testing.T) {
	env := setupRouterTest(t)
	_, adminToken := env.tokenFor(t, "admin", constants.RoleAdmin)

	resp := env.do(t, http.MethodPost, "/api/v1/shipments", adminToken, map[string]interface{}{})
	if resp.StatusCode != 400 {
		t.Fatalf("status_code want 400 got %d", resp.StatusCode)
	}
	var data struct {
		Fields []struct {
			Field  string `json:"field"`
			Reason string `json:"reason"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode validation data failed: %v", err)
	}
	if len(data.Fields) == 0 {
		t.Fatalf("expected field errors")
	}
}

func TestSignupLoginAndAdminRoutes(t *testing.T) {
	env := setupRouterTest(t)

	signup := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]interface{}{
		"username":  "carol",
		"password":  "secret123",
		"full_name": "Carol",
		"email":     "carol@example.com",
		"role":      constants.RoleAdmin,
	})
	if signup.StatusCode != 0 {
		t.Fatalf("signup: status_code want 0 got %d (%s)", signup.StatusCode, signup.Msg)
	}
	var session struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := json.Unmarshal(signup.Data, &session); err != nil {
		t.Fatalf("decode session failed: %v", err)
	}
	if session.User.Role != constants.RoleClient || session.Token == "" {
		t.Fatalf("unexpected session: role=%s", session.User.Role)
	}

	login := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"username": "carol",
		"password": "wrong-password",
	})
	if login.StatusCode != 401 {
		t.Fatalf("bad login: status_code want 401 got %d", login.StatusCode)
	}

	if resp := env.do(t, http.MethodGet, "/api/v1/admin/vehicles", session.Token, nil); resp.StatusCode != 403 {
		t.Fatalf("client admin route: status_code want 403 got %d", resp.StatusCode)
	}

	_, adminToken := env.tokenFor(t, "admin", constants.RoleAdmin)
	vehicle := env.do(t, http.MethodPost, "/api/v1/admin/vehicles", adminToken, map[string]interface{}{
		"plate_number": "kca 123a",
		"vehicle_type": "van",
	})
	if vehicle.StatusCode != 0 {
		t.Fatalf("create vehicle: status_code want 0 got %d (%s)", vehicle.StatusCode, vehicle.Msg)
	}
	users := env.do(t, http.MethodGet, "/api/v1/admin/users?role=client", adminToken, nil)
	if users.StatusCode != 0 || users.Pagination.Total != 1 {
		t.Fatalf("list clients: status_code=%d total=%d", users.StatusCode, users.Pagination.Total)
	}

	if resp := env.do(t, http.MethodPost, "/api/v1/auth/logout", session.Token, nil); resp.StatusCode != 0 {
		t.Fatalf("logout: status_code want 0 got %d", resp.StatusCode)
	}
	if resp := env.do(t, http.MethodGet, "/api/v1/me", session.Token, nil); resp.StatusCode != 401 {
		t.Fatalf("me after logout: status_code want 401 got %d", resp.StatusCode)
	}
}

package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/logiroute/internal/service"

	"github.com/gin-gonic/gin"
)

type errorEnvelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func serveError(t *testing.T, err error, lang string) errorEnvelope {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		c.Set(ContextKeyRequestID, "req-1")
		RespondServiceError(c, err)
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	r.ServeHTTP(w, req)
	var resp errorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp
}

func TestRespondServiceErrorCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"unauthenticated", service.ErrUnauthenticated, 401},
		{"forbidden", fmt.Errorf("update shipment: %w", service.ErrForbidden), 403},
		{"shipment not found", service.ErrShipmentNotFound, 404},
		{"generic not found", service.ErrNotFound, 404},
		{"tracking conflict", service.ErrTrackingNumberExists, 409},
		{"invalid transition", service.ErrInvalidTransition, 409},
		{"bad credentials", service.ErrInvalidCredentials, 401},
		{"captcha", service.ErrCaptchaInvalid, 400},
		{"unexpected", errors.New("disk full"), 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := serveError(t, tc.err, "")
			if resp.StatusCode != tc.code {
				t.Fatalf("status_code want %d got %d", tc.code, resp.StatusCode)
			}
		})
	}
}

func TestRespondServiceErrorSpecificMessageWins(t *testing.T) {
	resp := serveError(t, service.ErrPlateNumberExists, "en-US")
	if resp.Msg != "Plate number already exists" {
		t.Fatalf("expected plate conflict message, got %q", resp.Msg)
	}
	resp = serveError(t, service.ErrPlateNumberExists, "zh-CN")
	if resp.Msg == "" || resp.Msg == "Plate number already exists" {
		t.Fatalf("expected localized message, got %q", resp.Msg)
	}
}

func TestRespondServiceErrorValidationFields(t *testing.T) {
	verr := &service.ValidationError{Fields: []service.FieldError{
		{Field: "pickup_address", Reason: service.ReasonRequired},
	}}
	resp := serveError(t, verr, "")
	if resp.StatusCode != 400 {
		t.Fatalf("status_code want 400 got %d", resp.StatusCode)
	}
	var data struct {
		Fields    []service.FieldError `json:"fields"`
		RequestID string               `json:"request_id"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data failed: %v", err)
	}
	if len(data.Fields) != 1 || data.Fields[0].Field != "pickup_address" {
		t.Fatalf("unexpected fields: %+v", data.Fields)
	}
	if data.RequestID != "req-1" {
		t.Fatalf("request_id want req-1 got %q", data.RequestID)
	}
}

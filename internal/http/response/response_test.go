package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNewPagination(t *testing.T) {
	cases := []struct {
		pageSize int
		total    int64
		want     int64
	}{
		{pageSize: 20, total: 0, want: 0},
		{pageSize: 20, total: 20, want: 1},
		{pageSize: 20, total: 21, want: 2},
		{pageSize: 0, total: 5, want: 0},
	}
	for _, tc := range cases {
		if got := NewPagination(1, tc.pageSize, tc.total).TotalPage; got != tc.want {
			t.Fatalf("pageSize=%d total=%d: want %d got %d", tc.pageSize, tc.total, tc.want, got)
		}
	}
}

func TestSuccessWithPageFlattensEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SuccessWithPage(c, []int{1, 2}, NewPagination(1, 2, 3))

	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, key := range []string{"status_code", "msg", "data", "pagination"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("missing key %s in %s", key, w.Body.String())
		}
	}
}

func TestErrorAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(requestIDKey, "req-9")

	NewAppError(CodeConflict, "conflict", errors.New("duplicate key")).Render(c, gin.H{"field": "plate_number"})

	if w.Code != http.StatusOK {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	var resp struct {
		StatusCode int               `json:"status_code"`
		Data       map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.StatusCode != CodeConflict || resp.Data["request_id"] != "req-9" || resp.Data["field"] != "plate_number" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewAppError(CodeInternal, "internal", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
}

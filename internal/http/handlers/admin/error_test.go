package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/restock-next/internal/service"

	"github.com/gin-gonic/gin"
)

func decodeStatusCode(t *testing.T, body []byte) int {
	t.Helper()
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode
}

func TestRespondServiceErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: service.ErrNotFound, want: 404},
		{name: "invalid input", err: service.ErrInvalidInput, want: 400},
		{name: "option limit", err: service.ErrOptionLimitReached, want: 400},
		{name: "terminal offer", err: service.ErrOfferTerminal, want: 400},
		{name: "handle conflict", err: service.ErrHandleExists, want: 409},
		{name: "variant conflict", err: service.ErrVariantExists, want: 409},
		{name: "missing default profile", err: service.ErrNoDefaultDeliveryProfile, want: 500},
		{name: "wrapped sentinel", err: fmt.Errorf("create option: %w", service.ErrOptionTitleExists), want: 409},
		{name: "unknown", err: errors.New("boom"), want: 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondServiceError(c, tc.err)

			if got := decodeStatusCode(t, w.Body.Bytes()); got != tc.want {
				t.Fatalf("status_code want %d got %d", tc.want, got)
			}
		})
	}
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	id, ok := parseIDParam(c, "id")
	if !ok || id != 42 {
		t.Fatalf("parse want 42 got %d ok=%v", id, ok)
	}

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c2.Params = gin.Params{{Key: "id", Value: "zero"}}

	if _, ok := parseIDParam(c2, "id"); ok {
		t.Fatalf("non-numeric id should fail")
	}
	if got := decodeStatusCode(t, w2.Body.Bytes()); got != 400 {
		t.Fatalf("status_code want 400 got %d", got)
	}
}

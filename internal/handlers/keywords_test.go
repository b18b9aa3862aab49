package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/haneulclass/saengibu-backend/internal/keyword"
)

func TestListCategories(t *testing.T) {
	gin.SetMode(gin.TestMode)

	catalog, err := keyword.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	h := NewKeywordHandler(catalog)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/keywords", nil)

	h.ListCategories(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body struct {
		Categories []keyword.Category `json:"categories"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Categories) == 0 {
		t.Fatal("no categories in response")
	}
	if body.Categories[0].ID != "learning_attitude" {
		t.Fatalf("first category=%q, want display order preserved", body.Categories[0].ID)
	}
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/healthcheck", nil)

	HealthCheck(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

package stats

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"micp-backend/internal/projects"
)

func TestStatsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := projects.NewMemoryRepo()
	project := seedProject(t, repo)
	handler := NewHandler(&Service{Repo: repo})

	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet,
		"/api/v1/projects/"+project.ID+"/stats", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	var company map[string]int
	if err := json.Unmarshal(body["wells_by_company"], &company); err != nil {
		t.Fatalf("decode wells_by_company: %v", err)
	}
	if company["Acme"] != 2 || company[UnknownBucket] != 1 {
		t.Fatalf("unexpected wells_by_company: %v", company)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/projects/missing/stats", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

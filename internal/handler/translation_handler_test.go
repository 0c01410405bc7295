package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ticsite/internal/db"
	"github.com/ticsite/internal/service"
)

func TestManualTranslationEndpoints(t *testing.T) {
	env := newTestEnv(t, "admin-translations")
	cookies := env.login()

	career, err := env.api.careers.Create(service.CareerInput{Title: "Inspector", ApplyEmail: "jobs@example.com", IsActive: true})
	if err != nil {
		t.Fatalf("create career: %v", err)
	}
	path := fmt.Sprintf("/api/admin/translations/career/%d/fr", career.ID)

	rr := env.do(http.MethodPut, path, gin.H{"fields": gin.H{"title": "Inspecteur", "summary": "Résumé"}}, cookies)
	expectStatus(t, rr, http.StatusOK)

	var saved struct {
		Language string            `json:"language"`
		Fields   map[string]string `json:"fields"`
	}
	decodeData(t, rr, &saved)
	if saved.Language != "fr" || saved.Fields["title"] != "Inspecteur" || len(saved.Fields) != 2 {
		t.Fatalf("unexpected saved translations %+v", saved)
	}

	rr = env.do(http.MethodPut, path, gin.H{"fields": gin.H{"summary": ""}}, cookies)
	expectStatus(t, rr, http.StatusOK)

	rr = env.do(http.MethodGet, path, nil, cookies)
	expectStatus(t, rr, http.StatusOK)
	decodeData(t, rr, &saved)
	if len(saved.Fields) != 1 || saved.Fields["title"] != "Inspecteur" {
		t.Fatalf("expected empty value to remove field, got %+v", saved.Fields)
	}

	rr = env.do(http.MethodGet, fmt.Sprintf("/api/careers/%s?lang=fr", career.Slug), nil, nil)
	expectStatus(t, rr, http.StatusOK)
	var detail struct {
		Career db.Career `json:"career"`
	}
	decodeData(t, rr, &detail)
	if detail.Career.Title != "Inspecteur" {
		t.Fatalf("expected manual title on public career, got %q", detail.Career.Title)
	}

	rr = env.do(http.MethodGet, "/api/admin/translations/widget/1/fr", nil, cookies)
	expectError(t, rr, http.StatusBadRequest)
	rr = env.do(http.MethodGet, fmt.Sprintf("/api/admin/translations/career/%d/en", career.ID), nil, cookies)
	expectError(t, rr, http.StatusBadRequest)
	rr = env.do(http.MethodGet, fmt.Sprintf("/api/admin/translations/career/%d/de", career.ID), nil, cookies)
	expectError(t, rr, http.StatusBadRequest)
	rr = env.do(http.MethodGet, "/api/admin/translations/career/999/fr", nil, cookies)
	expectError(t, rr, http.StatusNotFound)
	rr = env.do(http.MethodPut, path, gin.H{"fields": gin.H{" ": "x"}}, cookies)
	expectError(t, rr, http.StatusBadRequest)
}

func TestTranslateTextEndpoint(t *testing.T) {
	env := newTestEnv(t, "admin-translate")
	cookies := env.login()

	rr := env.do(http.MethodPost, "/api/admin/translate", gin.H{"text": "Inspection", "target": "ar"}, cookies)
	expectStatus(t, rr, http.StatusOK)
	var result struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	decodeData(t, rr, &result)
	if result.Text != "[ar] Inspection" || result.Language != "ar" {
		t.Fatalf("unexpected translation %+v", result)
	}

	var cached int64
	env.db.Model(&db.TranslationMemory{}).Count(&cached)
	if cached != 1 {
		t.Fatalf("expected translation memory entry, got %d", cached)
	}

	rr = env.do(http.MethodPost, "/api/admin/translate", gin.H{"text": "Inspection", "target": "de"}, cookies)
	expectError(t, rr, http.StatusBadRequest)
	rr = env.do(http.MethodPost, "/api/admin/translate", gin.H{"target": "fr"}, cookies)
	expectError(t, rr, http.StatusBadRequest)
}

func TestTranslateTextWithoutTranslator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gdb := setupHandlerTestDB(t, "admin-translate-off")
	api, err := NewAPI(Dependencies{DB: gdb, Config: testConfig(t)})
	if err != nil {
		t.Fatalf("build api: %v", err)
	}
	if _, err := db.EnsureAdmin(gdb, testAdminEmail, testAdminPassword, "Editor"); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	env := &testEnv{t: t, db: gdb, api: api, engine: newTestEngine(api)}
	cookies := env.login()

	rr := env.do(http.MethodPost, "/api/admin/translate", gin.H{"text": "Inspection", "target": "fr"}, cookies)
	expectError(t, rr, http.StatusInternalServerError)
}

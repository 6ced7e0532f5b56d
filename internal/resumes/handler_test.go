package resumes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/bootstrap"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/config"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:3000"},
		LocalStoreDir:   t.TempDir(),
		SessionCacheDir: t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}

func saveBody(t *testing.T, agg resumes.Aggregate, resumeID string) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"resumeId": resumeID,
		"resume":   agg,
	})
	if err != nil {
		t.Fatalf("marshal save body: %v", err)
	}
	return bytes.NewBuffer(body)
}

func sampleAggregate() resumes.Aggregate {
	agg := resumes.NewAggregate()
	agg.Title = "Backend Resume"
	agg.TemplateID = 2
	agg.Personal = resumes.PersonalInfo{FullName: "Ada Lovelace", Email: "ada@example.com", Location: "London"}
	agg.Skills = []resumes.Skill{{ID: "s1", Name: "Go", Proficiency: "Expert", Category: "Languages"}}
	return agg
}

func saveResume(t *testing.T, router *gin.Engine, agg resumes.Aggregate, resumeID string) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", saveBody(t, agg, resumeID))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("save: expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var saved struct {
		ResumeID string `json:"resumeId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		t.Fatalf("decode save response: %v", err)
	}
	if saved.ResumeID == "" {
		t.Fatalf("expected resumeId, got empty")
	}
	return saved.ResumeID
}

func TestSaveLoadAndList(t *testing.T) {
	router := newTestRouter(t)

	resumeID := saveResume(t, router, sampleAggregate(), "")

	// Load it back.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes/"+resumeID, nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("get: expected status 200, got %d", resp.Code)
	}
	var loaded struct {
		Resume struct {
			Title      string `json:"title"`
			TemplateID int    `json:"templateId"`
		} `json:"resume"`
		Data resumes.Aggregate `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loaded); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if loaded.Resume.Title != "Backend Resume" || loaded.Resume.TemplateID != 2 {
		t.Fatalf("unexpected meta: %+v", loaded.Resume)
	}
	if loaded.Data.Personal.FullName != "Ada Lovelace" {
		t.Fatalf("unexpected personal data: %+v", loaded.Data.Personal)
	}
	if len(loaded.Data.Skills) != 1 {
		t.Fatalf("expected 1 skill, got %d", len(loaded.Data.Skills))
	}

	// List shows the resume.
	reqList := httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil)
	addGuestHeader(reqList)
	respList := httptest.NewRecorder()
	router.ServeHTTP(respList, reqList)

	if respList.Code != http.StatusOK {
		t.Fatalf("list: expected status 200, got %d", respList.Code)
	}
	var items []struct {
		ResumeID string `json:"resumeId"`
	}
	if err := json.NewDecoder(respList.Body).Decode(&items); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(items) != 1 || items[0].ResumeID != resumeID {
		t.Fatalf("unexpected list: %+v", items)
	}
}

func TestSaveRequiresIdentity(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", saveBody(t, sampleAggregate(), ""))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestSaveRejectsInvalidEmail(t *testing.T) {
	router := newTestRouter(t)

	agg := sampleAggregate()
	agg.Personal.Email = "not-an-email"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", saveBody(t, agg, ""))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestDuplicateEndpoint(t *testing.T) {
	router := newTestRouter(t)

	resumeID := saveResume(t, router, sampleAggregate(), "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/"+resumeID+"/duplicate", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var dup struct {
		ResumeID string `json:"resumeId"`
		Title    string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&dup); err != nil {
		t.Fatalf("decode duplicate response: %v", err)
	}
	if dup.Title != "Backend Resume (Copy)" {
		t.Fatalf("expected copy title, got %q", dup.Title)
	}
	if dup.ResumeID == resumeID {
		t.Fatalf("copy should have a fresh id")
	}
}

func TestPublishAndPublicView(t *testing.T) {
	router := newTestRouter(t)

	resumeID := saveResume(t, router, sampleAggregate(), "")

	// Unpublished: the share link is a 404 even with a valid id.
	reqView := httptest.NewRequest(http.MethodGet, "/resume/"+resumeID, nil)
	respView := httptest.NewRecorder()
	router.ServeHTTP(respView, reqView)
	if respView.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 before publish, got %d", respView.Code)
	}

	reqPub := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/"+resumeID+"/publish", nil)
	addGuestHeader(reqPub)
	respPub := httptest.NewRecorder()
	router.ServeHTTP(respPub, reqPub)
	if respPub.Code != http.StatusOK {
		t.Fatalf("publish: expected status 200, got %d", respPub.Code)
	}
	var published struct {
		PublicURL string `json:"publicUrl"`
		IsPublic  bool   `json:"isPublic"`
	}
	if err := json.NewDecoder(respPub.Body).Decode(&published); err != nil {
		t.Fatalf("decode publish response: %v", err)
	}
	if !published.IsPublic || published.PublicURL != "/resume/"+resumeID {
		t.Fatalf("unexpected publish response: %+v", published)
	}

	// The share view needs no identity.
	reqView = httptest.NewRequest(http.MethodGet, published.PublicURL, nil)
	respView = httptest.NewRecorder()
	router.ServeHTTP(respView, reqView)
	if respView.Code != http.StatusOK {
		t.Fatalf("public view: expected status 200, got %d", respView.Code)
	}
	if !strings.Contains(respView.Body.String(), "Ada Lovelace") {
		t.Fatalf("expected rendered name in share view")
	}

	// Unpublish revokes the link.
	reqUnpub := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/"+resumeID+"/unpublish", nil)
	addGuestHeader(reqUnpub)
	respUnpub := httptest.NewRecorder()
	router.ServeHTTP(respUnpub, reqUnpub)
	if respUnpub.Code != http.StatusOK {
		t.Fatalf("unpublish: expected status 200, got %d", respUnpub.Code)
	}

	reqView = httptest.NewRequest(http.MethodGet, "/resume/"+resumeID, nil)
	respView = httptest.NewRecorder()
	router.ServeHTTP(respView, reqView)
	if respView.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 after unpublish, got %d", respView.Code)
	}
}

func TestDeleteEndpoint(t *testing.T) {
	router := newTestRouter(t)

	resumeID := saveResume(t, router, sampleAggregate(), "")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/resumes/"+resumeID, nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("delete: expected status 204, got %d", resp.Code)
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/resumes/"+resumeID, nil)
	addGuestHeader(reqGet)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)
	if respGet.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 after delete, got %d", respGet.Code)
	}
}

func TestResumeIsPrivatePerUser(t *testing.T) {
	router := newTestRouter(t)

	resumeID := saveResume(t, router, sampleAggregate(), "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes/"+resumeID, nil)
	req.Header.Set("X-Guest-Id", "someone-else")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for foreign user, got %d", resp.Code)
	}
}

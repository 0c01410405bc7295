package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/ticsite/internal/config"
	"github.com/ticsite/internal/db"
	"github.com/ticsite/internal/handler"
	"github.com/ticsite/internal/router"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

const (
	adminEmail    = "editor@example.com"
	adminPassword = "correct-horse"
)

type e2eSuite struct {
	t      *testing.T
	server *httptest.Server
	admin  *http.Client
	public *http.Client
	cfg    config.AppConfig
}

type envelope struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Data    json.RawMessage            `json:"data"`
	Raw     map[string]json.RawMessage `json:"-"`
}

func newSuite(t *testing.T) *e2eSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	gdb, err := db.Open(filepath.Join(dir, "data", "ticsite.db"), logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	_, err = db.EnsureAdmin(gdb, adminEmail, adminPassword, "Editor")
	require.NoError(t, err)

	cfg := config.AppConfig{
		SessionSecret:      "e2e-secret",
		DefaultLanguage:    "en",
		SupportedLanguages: []string{"en", "ar", "fr"},
		UploadDir:          filepath.Join(dir, "uploads"),
		UploadURLPath:      "/static/uploads",
		OTPTTL:             10 * time.Minute,
		OTPMaxAttempts:     3,
		ContactInboxEmail:  "inbox@example.com",
	}
	api, err := handler.NewAPI(handler.Dependencies{DB: gdb, Config: cfg, Logger: zap.NewNop()})
	require.NoError(t, err)

	server := httptest.NewServer(router.SetupRouter(api, cfg, zap.NewNop()))
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &e2eSuite{
		t:      t,
		server: server,
		admin:  &http.Client{Jar: jar, Timeout: 10 * time.Second},
		public: &http.Client{Timeout: 10 * time.Second},
		cfg:    cfg,
	}
}

func (s *e2eSuite) request(client *http.Client, method, path string, payload interface{}, headers ...string) (*http.Response, envelope) {
	s.t.Helper()

	var body io.Reader
	contentType := ""
	switch typed := payload.(type) {
	case nil:
	case *multipartPayload:
		body = bytes.NewReader(typed.body)
		contentType = typed.contentType
	default:
		raw, err := json.Marshal(typed)
		require.NoError(s.t, err)
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req, err := http.NewRequest(method, s.server.URL+path, body)
	require.NoError(s.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := client.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(raw, &env), "body: %s", raw)
		require.NoError(s.t, json.Unmarshal(raw, &env.Raw))
	}
	return resp, env
}

func (s *e2eSuite) expect(client *http.Client, status int, method, path string, payload interface{}, headers ...string) envelope {
	s.t.Helper()
	resp, env := s.request(client, method, path, payload, headers...)
	require.Equalf(s.t, status, resp.StatusCode, "%s %s: %s", method, path, env.Message)
	require.Equal(s.t, status < 400, env.Success, "%s %s", method, path)
	return env
}

func decode(t *testing.T, raw json.RawMessage, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, dst), "payload: %s", raw)
}

type multipartPayload struct {
	body        []byte
	contentType string
}

func pngUpload(t *testing.T, name string, w, h int) *multipartPayload {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var encoded bytes.Buffer
	require.NoError(t, png.Encode(&encoded, img))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(encoded.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &multipartPayload{body: body.Bytes(), contentType: writer.FormDataContentType()}
}

func TestAdminSessionLifecycle(t *testing.T) {
	s := newSuite(t)

	s.expect(s.admin, http.StatusUnauthorized, http.MethodGet, "/api/admin/auth/me", nil)
	s.expect(s.admin, http.StatusUnauthorized, http.MethodPost, "/api/admin/auth/login",
		map[string]string{"email": adminEmail, "password": "wrong"})

	env := s.expect(s.admin, http.StatusOK, http.MethodPost, "/api/admin/auth/login",
		map[string]string{"email": adminEmail, "password": adminPassword})
	var otpRequired bool
	decode(t, env.Raw["otpRequired"], &otpRequired)
	require.False(t, otpRequired)

	env = s.expect(s.admin, http.StatusOK, http.MethodGet, "/api/admin/auth/me", nil)
	var me db.Admin
	decode(t, env.Data, &me)
	require.Equal(t, adminEmail, me.Email)

	// 公共客户端没有会话
	s.expect(s.public, http.StatusUnauthorized, http.MethodGet, "/api/admin/dashboard", nil)

	s.expect(s.admin, http.StatusOK, http.MethodPost, "/api/admin/auth/logout", nil)
	s.expect(s.admin, http.StatusUnauthorized, http.MethodGet, "/api/admin/auth/me", nil)
}

func TestPublishContentFlow(t *testing.T) {
	s := newSuite(t)
	s.expect(s.admin, http.StatusOK, http.MethodPost, "/api/admin/auth/login",
		map[string]string{"email": adminEmail, "password": adminPassword})

	// 页面与分区
	env := s.expect(s.admin, http.StatusCreated, http.MethodPost, "/api/admin/pages",
		map[string]string{"slug": "about", "title": "About Us", "status": db.StatusPublished})
	var page db.Page
	decode(t, env.Data, &page)
	require.Equal(t, "about", page.Slug)

	s.expect(s.admin, http.StatusCreated, http.MethodPost, fmt.Sprintf("/api/admin/pages/%d/sections", page.ID),
		map[string]interface{}{"key": "hero", "type": db.SectionHero, "title": "Trusted inspection", "content": "Accredited **since 1998**."})
	s.expect(s.admin, http.StatusCreated, http.MethodPost, fmt.Sprintf("/api/admin/pages/%d/sections", page.ID),
		map[string]interface{}{"key": "hidden", "type": db.SectionText, "title": "Draft copy", "isVisible": false})

	env = s.expect(s.public, http.StatusOK, http.MethodGet, "/api/pages/about", nil)
	var view struct {
		Title    string `json:"title"`
		Sections []struct {
			Key   string `json:"key"`
			Title string `json:"title"`
			HTML  string `json:"html"`
		} `json:"sections"`
	}
	decode(t, env.Data, &view)
	require.Equal(t, "About Us", view.Title)
	require.Len(t, view.Sections, 1)
	require.Equal(t, "hero", view.Sections[0].Key)
	require.Contains(t, view.Sections[0].HTML, "<strong>since 1998</strong>")

	// 博客：草稿不可见，发布后可见
	env = s.expect(s.admin, http.StatusCreated, http.MethodPost, "/api/admin/blogs", map[string]interface{}{
		"title":    "Pressure Vessel Inspection Basics",
		"content":  "## Why inspect\n\nRegular checks keep plants safe.",
		"category": "Inspection",
		"tags":     []string{"safety", "vessels"},
		"status":   db.StatusDraft,
	})
	var blog db.Blog
	decode(t, env.Data, &blog)
	require.Equal(t, "pressure-vessel-inspection-basics", blog.Slug)
	s.expect(s.public, http.StatusNotFound, http.MethodGet, "/api/blogs/"+blog.Slug, nil)

	s.expect(s.admin, http.StatusOK, http.MethodPut, fmt.Sprintf("/api/admin/blogs/%d", blog.ID), map[string]interface{}{
		"title":    blog.Title,
		"content":  "## Why inspect\n\nRegular checks keep plants safe.",
		"category": "Inspection",
		"status":   db.StatusPublished,
	})

	env = s.expect(s.public, http.StatusOK, http.MethodGet, "/api/blogs?category=inspection", nil)
	var listed []db.Blog
	decode(t, env.Data, &listed)
	require.Len(t, listed, 1)
	require.Equal(t, blog.ID, listed[0].ID)

	s.expect(s.admin, http.StatusOK, http.MethodPut, fmt.Sprintf("/api/admin/translations/blog/%d/ar", blog.ID),
		map[string]interface{}{"fields": map[string]string{"title": "أساسيات فحص أوعية الضغط"}})

	resp, env := s.request(s.public, http.MethodGet, "/api/blogs/"+blog.Slug, nil, "Accept-Language", "ar-SA,ar;q=0.9")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ar", resp.Header.Get("Content-Language"))
	var detail struct {
		Title string `json:"title"`
		HTML  string `json:"html"`
	}
	decode(t, env.Data, &detail)
	require.Equal(t, "أساسيات فحص أوعية الضغط", detail.Title)
	require.Contains(t, detail.HTML, "<h2")

	env = s.expect(s.public, http.StatusOK, http.MethodGet, "/api/blogs/"+blog.Slug+"?lang=fr", nil)
	decode(t, env.Data, &detail)
	require.Equal(t, blog.Title, detail.Title)

	// 招聘
	env = s.expect(s.admin, http.StatusCreated, http.MethodPost, "/api/admin/careers", map[string]interface{}{
		"title":          "Lead Auditor",
		"department":     "Certification",
		"employmentType": db.EmploymentFullTime,
		"applyEmail":     "Jobs@Example.com",
		"deadline":       time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
	})
	var career db.Career
	decode(t, env.Data, &career)
	require.True(t, career.IsActive)
	require.Equal(t, "jobs@example.com", career.ApplyEmail)

	env = s.expect(s.public, http.StatusOK, http.MethodGet, "/api/careers/departments", nil)
	var departments []string
	decode(t, env.Data, &departments)
	require.Equal(t, []string{"Certification"}, departments)

	env = s.expect(s.admin, http.StatusOK, http.MethodGet, "/api/admin/dashboard", nil)
	var stats struct {
		Blogs          int64 `json:"blogs"`
		PublishedBlogs int64 `json:"publishedBlogs"`
		ActiveCareers  int64 `json:"activeCareers"`
		Pages          int64 `json:"pages"`
		Translations   int64 `json:"translations"`
	}
	decode(t, env.Data, &stats)
	require.EqualValues(t, 1, stats.Blogs)
	require.EqualValues(t, 1, stats.PublishedBlogs)
	require.EqualValues(t, 1, stats.ActiveCareers)
	require.EqualValues(t, 1, stats.Pages)
	require.EqualValues(t, 1, stats.Translations)

	// 删除博客后翻译随之清除
	s.expect(s.admin, http.StatusOK, http.MethodDelete, fmt.Sprintf("/api/admin/blogs/%d", blog.ID), nil)
	s.expect(s.public, http.StatusNotFound, http.MethodGet, "/api/blogs/"+blog.Slug, nil)
	env = s.expect(s.admin, http.StatusOK, http.MethodGet, "/api/admin/dashboard", nil)
	decode(t, env.Data, &stats)
	require.EqualValues(t, 0, stats.Translations)
}

func TestContactFlow(t *testing.T) {
	s := newSuite(t)
	s.expect(s.admin, http.StatusOK, http.MethodPost, "/api/admin/auth/login",
		map[string]string{"email": adminEmail, "password": adminPassword})

	lat, lon := 24.7136, 46.6753
	env := s.expect(s.admin, http.StatusCreated, http.MethodPost, "/api/admin/contact-offices", map[string]interface{}{
		"name":           "Riyadh Headquarters",
		"country":        "Saudi Arabia",
		"city":           "Riyadh",
		"email":          "Riyadh@Example.com",
		"latitude":       lat,
		"longitude":      lon,
		"isHeadquarters": true,
	})
	var hq db.ContactOffice
	decode(t, env.Data, &hq)

	env = s.expect(s.admin, http.StatusCreated, http.MethodPost, "/api/admin/contact-offices", map[string]interface{}{
		"name":    "Dubai Branch",
		"country": "United Arab Emirates",
		"city":    "Dubai",
	})
	var branch db.ContactOffice
	decode(t, env.Data, &branch)

	s.expect(s.admin, http.StatusOK, http.MethodPut, "/api/admin/contact-offices/order",
		map[string]interface{}{"ids": []uint{branch.ID, hq.ID}})

	env = s.expect(s.public, http.StatusOK, http.MethodGet, "/api/contact-offices", nil)
	var offices []db.ContactOffice
	decode(t, env.Data, &offices)
	require.Len(t, offices, 2)
	require.Equal(t, hq.ID, offices[0].ID, "headquarters stays first")
	require.NotNil(t, offices[0].Latitude)
	require.InDelta(t, lat, *offices[0].Latitude, 1e-9)

	s.expect(s.public, http.StatusBadRequest, http.MethodPost, "/api/contact-messages", map[string]interface{}{
		"name": "Ahmed", "email": "not-an-email", "message": "Need a quote",
	})
	s.expect(s.public, http.StatusBadRequest, http.MethodPost, "/api/contact-messages", map[string]interface{}{
		"name": "Ahmed", "email": "ahmed@client.example", "message": "Need a quote", "officeId": 9999,
	})
	env = s.expect(s.public, http.StatusCreated, http.MethodPost, "/api/contact-messages", map[string]interface{}{
		"name":     "Ahmed",
		"email":    "ahmed@client.example",
		"company":  "Gulf Petrochem",
		"subject":  "Tank inspection",
		"message":  "Please send a quotation for API 653 inspection.",
		"officeId": hq.ID,
	})
	var messageID uint
	decode(t, env.Raw["id"], &messageID)
	require.NotZero(t, messageID)

	env = s.expect(s.admin, http.StatusOK, http.MethodGet, "/api/admin/contact-messages?search=petrochem", nil)
	var unread int64
	decode(t, env.Raw["unreadCount"], &unread)
	require.EqualValues(t, 1, unread)
	var messages []db.ContactMessage
	decode(t, env.Data, &messages)
	require.Len(t, messages, 1)
	require.Equal(t, messageID, messages[0].ID)

	s.expect(s.admin, http.StatusOK, http.MethodPut, fmt.Sprintf("/api/admin/contact-messages/%d/status", messageID),
		map[string]string{"status": db.MessageRead})
	env = s.expect(s.admin, http.StatusOK, http.MethodGet, "/api/admin/contact-messages", nil)
	decode(t, env.Raw["unreadCount"], &unread)
	require.EqualValues(t, 0, unread)
}

func TestMediaAndDictionaries(t *testing.T) {
	s := newSuite(t)
	s.expect(s.admin, http.StatusOK, http.MethodPost, "/api/admin/auth/login",
		map[string]string{"email": adminEmail, "password": adminPassword})

	env := s.expect(s.admin, http.StatusCreated, http.MethodPost, "/api/admin/media", pngUpload(t, "lab.png", 12, 8))
	var asset db.MediaAsset
	decode(t, env.Data, &asset)
	require.Equal(t, 12, asset.Width)
	require.Equal(t, 8, asset.Height)
	require.True(t, strings.HasPrefix(asset.URL, s.cfg.UploadURLPath+"/"))

	resp, err := s.public.Get(s.server.URL + asset.URL)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	s.expect(s.admin, http.StatusOK, http.MethodDelete, fmt.Sprintf("/api/admin/media/%d", asset.ID), nil)
	resp, err = s.public.Get(s.server.URL + asset.URL)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	env = s.expect(s.public, http.StatusOK, http.MethodGet, "/api/translations/ar-SA", nil)
	var language, direction string
	decode(t, env.Raw["language"], &language)
	decode(t, env.Raw["direction"], &direction)
	require.Equal(t, "ar", language)
	require.Equal(t, "rtl", direction)

	s.expect(s.public, http.StatusNotFound, http.MethodGet, "/api/translations/xx", nil)

	env = s.expect(s.public, http.StatusOK, http.MethodGet, "/api/languages", nil)
	var fallback string
	decode(t, env.Raw["default"], &fallback)
	require.Equal(t, "en", fallback)
}

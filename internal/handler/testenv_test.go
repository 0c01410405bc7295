package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/ticsite/internal/config"
	"github.com/ticsite/internal/db"
	"github.com/ticsite/internal/service"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testAdminEmail    = "editor@example.com"
	testAdminPassword = "correct-horse"
)

type stubMailer struct {
	mu   sync.Mutex
	sent []service.Email
}

func (m *stubMailer) Send(_ context.Context, email service.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return nil
}

func (m *stubMailer) last() (service.Email, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return service.Email{}, false
	}
	return m.sent[len(m.sent)-1], true
}

// prefixTranslator 把文本翻译为 "[lang] text"
type prefixTranslator struct {
	calls int
}

func (p *prefixTranslator) Translate(_ context.Context, text, _, target string) (string, error) {
	p.calls++
	return "[" + target + "] " + text, nil
}

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	api    *API
	engine *gin.Engine
	mailer *stubMailer
	cfg    config.AppConfig
}

type envOption func(*config.AppConfig)

func withOTP(cfg *config.AppConfig) {
	cfg.OTPEnabled = true
}

func setupHandlerTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s-%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func newTestEnv(t *testing.T, name string, opts ...envOption) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := setupHandlerTestDB(t, name)
	if _, err := db.EnsureAdmin(gdb, testAdminEmail, testAdminPassword, "Editor"); err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}

	cfg := testConfig(t)
	for _, opt := range opts {
		opt(&cfg)
	}

	mailer := &stubMailer{}
	api, err := NewAPI(Dependencies{
		DB:         gdb,
		Config:     cfg,
		Logger:     zap.NewNop(),
		Mailer:     mailer,
		Translator: &prefixTranslator{},
	})
	if err != nil {
		t.Fatalf("failed to build api: %v", err)
	}

	return &testEnv{t: t, db: gdb, api: api, engine: newTestEngine(api), mailer: mailer, cfg: cfg}
}

func testConfig(t *testing.T) config.AppConfig {
	return config.AppConfig{
		SessionSecret:      "test-secret",
		DefaultLanguage:    "en",
		SupportedLanguages: []string{"en", "ar", "fr"},
		UploadDir:          t.TempDir(),
		UploadURLPath:      "/static/uploads",
		OTPTTL:             10 * time.Minute,
		OTPMaxAttempts:     3,
		ContactInboxEmail:  "inbox@example.com",
	}
}

// newTestEngine 复用生产环境的路由注册，只替换会话存储
func newTestEngine(api *API) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	api.RegisterRoutes(r)
	return r
}

// do 发送请求；payload 为 string 时原样发送，否则编码为 JSON
func (e *testEnv) do(method, path string, payload interface{}, cookies []*http.Cookie, headers ...string) *httptest.ResponseRecorder {
	e.t.Helper()

	var body io.Reader
	switch typed := payload.(type) {
	case nil:
	case string:
		body = strings.NewReader(typed)
	default:
		raw, err := json.Marshal(typed)
		if err != nil {
			e.t.Fatalf("failed to encode payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rr := httptest.NewRecorder()
	e.engine.ServeHTTP(rr, req)
	return rr
}

// login 以测试管理员登录（未开启 OTP）并返回会话 cookie
func (e *testEnv) login() []*http.Cookie {
	e.t.Helper()

	rr := e.do(http.MethodPost, "/api/admin/auth/login", gin.H{"email": testAdminEmail, "password": testAdminPassword}, nil)
	if rr.Code != http.StatusOK {
		e.t.Fatalf("login failed: %d %s", rr.Code, rr.Body.String())
	}
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		e.t.Fatalf("expected session cookie after login")
	}
	return cookies
}

type envelope struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message"`
	Data       json.RawMessage        `json:"data"`
	Pagination map[string]interface{} `json:"pagination"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) envelope {
	t.Helper()

	env := decodeEnvelope(t, rr)
	if !env.Success {
		t.Fatalf("expected success response, got %s", rr.Body.String())
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("failed to decode data %s: %v", string(env.Data), err)
	}
	return env
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rr.Code, rr.Body.String())
	}
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int) envelope {
	t.Helper()
	expectStatus(t, rr, status)
	env := decodeEnvelope(t, rr)
	if env.Success || env.Message == "" {
		t.Fatalf("expected error envelope, got %s", rr.Body.String())
	}
	return env
}

func pageInputWithTitle(title string) service.PageInput {
	return service.PageInput{Title: title}
}

func sectionInputWithKey(key string) service.SectionInput {
	return service.SectionInput{Key: key, IsVisible: true}
}

func officeInputWithEmail(name, email string) service.ContactOfficeInput {
	return service.ContactOfficeInput{Name: name, Email: email, IsActive: true}
}

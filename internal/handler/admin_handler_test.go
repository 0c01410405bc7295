package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ticsite/internal/db"
)

var otpCodePattern = regexp.MustCompile(`<strong>(\d{6})</strong>`)

func TestAuthRequiredRejectsAnonymous(t *testing.T) {
	env := newTestEnv(t, "auth-anon")

	rr := env.do(http.MethodGet, "/api/admin/auth/me", nil, nil)
	body := expectError(t, rr, http.StatusUnauthorized)
	if body.Message != "Authentication required" {
		t.Fatalf("unexpected message %q", body.Message)
	}

	rr = env.do(http.MethodGet, "/api/admin/dashboard", nil, nil)
	expectError(t, rr, http.StatusUnauthorized)
}

func TestLoginWithoutOTPStartsSession(t *testing.T) {
	env := newTestEnv(t, "auth-login")
	cookies := env.login()

	rr := env.do(http.MethodGet, "/api/admin/auth/me", nil, cookies)
	expectStatus(t, rr, http.StatusOK)

	var admin db.Admin
	decodeData(t, rr, &admin)
	if admin.Email != testAdminEmail {
		t.Fatalf("expected %s, got %s", testAdminEmail, admin.Email)
	}
	if admin.LastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}
	if _, sent := env.mailer.last(); sent {
		t.Fatalf("expected no email when OTP is disabled")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := newTestEnv(t, "auth-wrong")

	rr := env.do(http.MethodPost, "/api/admin/auth/login", gin.H{"email": testAdminEmail, "password": "nope"}, nil)
	expectError(t, rr, http.StatusUnauthorized)

	rr = env.do(http.MethodPost, "/api/admin/auth/login", gin.H{"email": testAdminEmail}, nil)
	expectError(t, rr, http.StatusBadRequest)
}

func TestLoginWithOTPRequiresVerification(t *testing.T) {
	env := newTestEnv(t, "auth-otp", withOTP)

	rr := env.do(http.MethodPost, "/api/admin/auth/login", gin.H{"email": testAdminEmail, "password": testAdminPassword}, nil)
	expectStatus(t, rr, http.StatusOK)

	var payload struct {
		Success     bool `json:"success"`
		OTPRequired bool `json:"otpRequired"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if !payload.Success || !payload.OTPRequired {
		t.Fatalf("expected otpRequired response, got %s", rr.Body.String())
	}

	// 仅完成第一步时不应建立会话
	rr = env.do(http.MethodGet, "/api/admin/auth/me", nil, rr.Result().Cookies())
	expectError(t, rr, http.StatusUnauthorized)

	email, ok := env.mailer.last()
	if !ok || email.To != testAdminEmail {
		t.Fatalf("expected code emailed to admin, got %+v", email)
	}
	match := otpCodePattern.FindStringSubmatch(email.HTML)
	if len(match) != 2 {
		t.Fatalf("expected code in email body: %s", email.HTML)
	}

	wrong := "000000"
	if match[1] == wrong {
		wrong = "111111"
	}
	rr = env.do(http.MethodPost, "/api/admin/auth/verify-otp", gin.H{"email": testAdminEmail, "code": wrong}, nil)
	expectError(t, rr, http.StatusUnauthorized)

	rr = env.do(http.MethodPost, "/api/admin/auth/verify-otp", gin.H{"email": testAdminEmail, "code": match[1]}, nil)
	expectStatus(t, rr, http.StatusOK)
	cookies := rr.Result().Cookies()

	rr = env.do(http.MethodGet, "/api/admin/auth/me", nil, cookies)
	expectStatus(t, rr, http.StatusOK)

	// 验证码只能使用一次
	rr = env.do(http.MethodPost, "/api/admin/auth/verify-otp", gin.H{"email": testAdminEmail, "code": match[1]}, nil)
	expectError(t, rr, http.StatusUnauthorized)
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t, "auth-logout")
	cookies := env.login()

	rr := env.do(http.MethodPost, "/api/admin/auth/logout", nil, cookies)
	expectStatus(t, rr, http.StatusOK)

	rr = env.do(http.MethodGet, "/api/admin/auth/me", nil, rr.Result().Cookies())
	expectError(t, rr, http.StatusUnauthorized)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t, "auth-password")
	cookies := env.login()

	rr := env.do(http.MethodPut, "/api/admin/auth/password", gin.H{"currentPassword": testAdminPassword, "newPassword": "short"}, cookies)
	expectError(t, rr, http.StatusBadRequest)

	rr = env.do(http.MethodPut, "/api/admin/auth/password", gin.H{"currentPassword": "wrong-password", "newPassword": "a-longer-secret"}, cookies)
	expectError(t, rr, http.StatusBadRequest)

	rr = env.do(http.MethodPut, "/api/admin/auth/password", gin.H{"currentPassword": testAdminPassword, "newPassword": "a-longer-secret"}, cookies)
	expectStatus(t, rr, http.StatusOK)

	rr = env.do(http.MethodPost, "/api/admin/auth/login", gin.H{"email": testAdminEmail, "password": testAdminPassword}, nil)
	expectError(t, rr, http.StatusUnauthorized)
	rr = env.do(http.MethodPost, "/api/admin/auth/login", gin.H{"email": testAdminEmail, "password": "a-longer-secret"}, nil)
	expectStatus(t, rr, http.StatusOK)
}

func TestDashboardCounts(t *testing.T) {
	env := newTestEnv(t, "dashboard")
	cookies := env.login()

	env.db.Create(&db.Blog{Title: "One", Slug: "one", Status: db.StatusPublished})
	env.db.Create(&db.Blog{Title: "Two", Slug: "two", Status: db.StatusDraft})
	env.db.Create(&db.ContactMessage{Name: "Ann", Email: "ann@example.com", Message: "hi", Status: db.MessageNew})

	rr := env.do(http.MethodGet, "/api/admin/dashboard", nil, cookies)
	expectStatus(t, rr, http.StatusOK)

	var stats struct {
		Blogs          int64 `json:"blogs"`
		PublishedBlogs int64 `json:"publishedBlogs"`
		UnreadMessages int64 `json:"unreadMessages"`
	}
	decodeData(t, rr, &stats)
	if stats.Blogs != 2 || stats.PublishedBlogs != 1 || stats.UnreadMessages != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/ticsite/internal/service"
)

const (
	sessionAdminKey    = "admin_id"
	contextAdminKey    = "admin_id"
	messageAuthMissing = "Authentication required"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// Login 校验邮箱密码；开启 OTP 时发送验证码，否则直接建立会话
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "Email and password are required") {
		return
	}

	result, err := a.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		a.respondInternal(c, "Failed to sign in", err)
		return
	}

	if result.OTPRequired {
		respondOK(c, http.StatusOK, gin.H{
			"otpRequired": true,
			"message":     "A verification code has been sent to your email",
		})
		return
	}

	if !a.startSession(c, result.Admin.ID) {
		return
	}
	respondOK(c, http.StatusOK, gin.H{"otpRequired": false, "data": result.Admin})
}

// VerifyOTP 校验邮箱验证码并建立会话
func (a *API) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if !bindJSON(c, &req, "Email and code are required") {
		return
	}

	admin, err := a.auth.VerifyOTP(req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOTPInvalid),
			errors.Is(err, service.ErrOTPExpired),
			errors.Is(err, service.ErrOTPNotRequested),
			errors.Is(err, service.ErrAdminNotFound):
			respondError(c, http.StatusUnauthorized, "Invalid or expired verification code")
		case errors.Is(err, service.ErrOTPTooManyAttempts):
			respondError(c, http.StatusUnauthorized, "Too many attempts, please sign in again")
		default:
			a.respondInternal(c, "Failed to verify code", err)
		}
		return
	}

	if !a.startSession(c, admin.ID) {
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": admin})
}

func (a *API) startSession(c *gin.Context, adminID uint) bool {
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionAdminKey, adminID)
	if err := session.Save(); err != nil {
		a.respondInternal(c, "Failed to save session", err)
		return false
	}
	return true
}

// Logout 清除会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		a.respondInternal(c, "Failed to sign out", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Signed out"})
}

// Me returns the signed-in admin.
func (a *API) Me(c *gin.Context) {
	admin, err := a.auth.Get(c.GetUint(contextAdminKey))
	if err != nil {
		if errors.Is(err, service.ErrAdminNotFound) {
			respondError(c, http.StatusUnauthorized, messageAuthMissing)
			return
		}
		a.respondInternal(c, "Failed to load profile", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": admin})
}

// ChangePassword updates the password of the signed-in admin.
func (a *API) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !bindJSON(c, &req, "Current and new password are required") {
		return
	}

	err := a.auth.ChangePassword(c.GetUint(contextAdminKey), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordTooShort):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPasswordMismatch):
			respondError(c, http.StatusBadRequest, "Current password is incorrect")
		case errors.Is(err, service.ErrAdminNotFound):
			respondError(c, http.StatusUnauthorized, messageAuthMissing)
		default:
			a.respondInternal(c, "Failed to change password", err)
		}
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Password updated"})
}

// Dashboard 汇总后台首页的计数
func (a *API) Dashboard(c *gin.Context) {
	stats, err := a.dashboard.Stats()
	if err != nil {
		a.respondInternal(c, "Failed to load dashboard", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"data": stats})
}

// AuthRequired 校验会话中的管理员，未登录时返回 401 JSON
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		adminID, ok := session.Get(sessionAdminKey).(uint)
		if !ok || adminID == 0 {
			respondError(c, http.StatusUnauthorized, messageAuthMissing)
			return
		}
		c.Set(contextAdminKey, adminID)
		c.Next()
	}
}

package controllers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/config"
	"marketplace-service/middlewares"
	"marketplace-service/models"
	"marketplace-service/services"
	"marketplace-service/utils"
)

const oauthStateCookie = "oauth_state"

// GoogleIdentity is the OAuth flow used by the Google login routes.
type GoogleIdentity interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*models.GoogleProfile, error)
}

// AuthController issues and clears the access token cookie around AuthService.
type AuthController struct {
	svc    *services.AuthService
	cfg    *config.Config
	google GoogleIdentity
}

// NewAuthController wires the auth routes. google may be nil when Google
// login is not configured.
func NewAuthController(svc *services.AuthService, cfg *config.Config, google GoogleIdentity) *AuthController {
	return &AuthController{svc: svc, cfg: cfg, google: google}
}

func (a *AuthController) setSession(c *gin.Context, u *models.User) error {
	token, err := utils.GenerateToken(u.ID, string(u.Role), a.cfg.JWTSecret, a.cfg.TokenTTL)
	if err != nil {
		return services.Internal("Failed to issue access token", err)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.AccessTokenCookie, token, int(a.cfg.TokenTTL.Seconds()), "/", "", a.cfg.CookieSecure, true)
	return nil
}

type registerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	AgreeTerms *bool  `json:"agreeTerms"`
}

// Register POST /api/auth/register
func (a *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := a.svc.Register(c.Request.Context(), services.RegisterInput(req)); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "User registered successfully, please check your inbox to verify your account", nil)
}

// VerifyEmail GET /api/auth/verify-email/:token
func (a *AuthController) VerifyEmail(c *gin.Context) {
	user, err := a.svc.VerifyEmail(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := a.setSession(c, user); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Email verified successfully", nil)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login POST /api/auth/login
func (a *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := a.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := a.setSession(c, user); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "User login successfully", gin.H{
		"user": gin.H{"name": user.Name, "email": user.Email},
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword POST /api/auth/forgot-password
func (a *AuthController) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := a.svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "A password reset link has been sent to your email", nil)
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// ResetPassword POST /api/auth/reset-password/:token
func (a *AuthController) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := a.svc.ResetPassword(c.Request.Context(), c.Param("token"), req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Your password was reset successfully, you can now login with your new credentials", nil)
}

// Logout GET /api/auth/logout
func (a *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.AccessTokenCookie, "", -1, "/", "", a.cfg.CookieSecure, true)
	respond(c, http.StatusOK, "User logout successfully", nil)
}

// VerifyAuth GET /api/auth/verify-auth
func (a *AuthController) VerifyAuth(c *gin.Context) {
	user, err := a.svc.CurrentUser(c.Request.Context(), middlewares.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "User fetch successfully", user)
}

// GoogleLogin GET /api/auth/google
func (a *AuthController) GoogleLogin(c *gin.Context) {
	if a.google == nil {
		respondError(c, services.Internal("Google login is not configured", nil))
		return
	}
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		respondError(c, services.Internal("Failed to start Google login", err))
		return
	}
	state := hex.EncodeToString(b)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", a.cfg.CookieSecure, true)
	c.Redirect(http.StatusTemporaryRedirect, a.google.AuthCodeURL(state))
}

// GoogleCallback GET /api/auth/google/callback
func (a *AuthController) GoogleCallback(c *gin.Context) {
	if a.google == nil {
		respondError(c, services.Internal("Google login is not configured", nil))
		return
	}
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		c.Redirect(http.StatusTemporaryRedirect, a.cfg.FrontendURL)
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", a.cfg.CookieSecure, true)

	profile, err := a.google.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		slog.Warn("Google login failed", "err", err)
		c.Redirect(http.StatusTemporaryRedirect, a.cfg.FrontendURL)
		return
	}
	user, err := a.svc.GoogleLogin(c.Request.Context(), *profile)
	if err != nil {
		slog.Warn("Google login rejected", "err", err)
		c.Redirect(http.StatusTemporaryRedirect, a.cfg.FrontendURL)
		return
	}
	if err := a.setSession(c, user); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, a.cfg.FrontendURL)
}

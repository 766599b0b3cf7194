package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "clinic/internal/errors"
	"clinic/internal/logger"
	"clinic/internal/mailer"
	"clinic/internal/middleware"
	"clinic/internal/models"
	"clinic/internal/services"
)

// cookieMaxAge is the lifetime of the auth cookies in seconds.
const cookieMaxAge = 24 * 60 * 60

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService        services.UserServicer
	auditService       services.AuditServicer
	mailer             mailer.Sender
	registrationSecret string
	cookieSecure       bool
}

// AuthOptions configures registration gating and cookie attributes.
type AuthOptions struct {
	RegistrationSecret string
	CookieSecure       bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, auditService services.AuditServicer, sender mailer.Sender, opts AuthOptions) *AuthHandler {
	return &AuthHandler{
		userService:        userService,
		auditService:       auditService,
		mailer:             sender,
		registrationSecret: opts.RegistrationSecret,
		cookieSecure:       opts.CookieSecure,
	}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Name       string `json:"name" binding:"max=100"`
	Email      string `json:"email" binding:"omitempty,email,max=255"`
	Password   string `json:"password" binding:"max=128"`
	SecretCode string `json:"secretCode"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries a refresh token when no cookie is sent.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ForgotPasswordRequest represents the forgot-password payload
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents the reset-password payload
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	ResetCode   string `json:"resetCode"`
	NewPassword string `json:"newPassword"`
}

// LoginData is the data of a successful login.
type LoginData struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, maxAge, "/", "", h.cookieSecure, true)
}

// Register handles user registration
// @Summary     Register a new user
// @Description Register a staff account. Requires the clinic registration secret.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} SuccessResponse "User registered"
// @Failure     400 {object} ErrorResponse "Invalid input or secret code"
// @Failure     409 {object} ErrorResponse "Email already in use"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/register-user [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" || req.SecretCode == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Please provide all the information to register"))
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.SecretCode), []byte(h.registrationSecret)) != 1 {
		respondWithError(c, apperrors.ErrInvalidSecretCode)
		return
	}

	user, err := h.userService.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, services.AuditActionRegister, "user", user.ID, c.ClientIP(), nil)
	respondWithSuccess(c, http.StatusCreated, gin.H{"user": user}, "User registered successfully.")
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate and receive access and refresh tokens as cookies and in the body
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} SuccessResponse{data=LoginData} "User authenticated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login-user [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Email and password are required. Please provide both."))
		return
	}

	user, err := h.userService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accessToken, err := middleware.GenerateAccessToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	refreshToken, err := middleware.GenerateRefreshToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	if err := h.userService.StoreRefreshTokenHash(user.ID, middleware.HashToken(refreshToken)); err != nil {
		respondWithError(c, err)
		return
	}

	h.setAuthCookie(c, middleware.AccessTokenCookie, accessToken, cookieMaxAge)
	h.setAuthCookie(c, middleware.RefreshTokenCookie, refreshToken, cookieMaxAge)
	h.auditService.Log(user.ID, services.AuditActionLogin, "user", user.ID, c.ClientIP(), nil)

	respondWithSuccess(c, http.StatusOK, LoginData{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, "User logged in successfully")
}

// Logout handles user logout
// @Summary     Logout user
// @Description Revoke the stored refresh token and clear auth cookies
// @Tags        auth
// @Produce     json
// @Security    CookieAuth
// @Success     200 {object} SuccessResponse "Logged out"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/logout-user [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.ClearRefreshToken(userID); err != nil {
		respondWithError(c, err)
		return
	}

	h.setAuthCookie(c, middleware.AccessTokenCookie, "", -1)
	h.setAuthCookie(c, middleware.RefreshTokenCookie, "", -1)
	h.auditService.Log(userID, services.AuditActionLogout, "user", userID, c.ClientIP(), nil)

	respondWithSuccess(c, http.StatusOK, gin.H{}, "User logged out successfully.")
}

// RefreshToken issues a new access token
// @Summary     Refresh access token
// @Description Exchange the current refresh token (cookie or body) for a new access token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RefreshRequest false "Refresh token when no cookie is sent"
// @Success     200 {object} SuccessResponse "Access token refreshed"
// @Failure     401 {object} ErrorResponse "Invalid or revoked refresh token"
// @Router      /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	incoming, _ := c.Cookie(middleware.RefreshTokenCookie)
	if incoming == "" {
		var req RefreshRequest
		_ = c.ShouldBindJSON(&req)
		incoming = req.RefreshToken
	}
	if incoming == "" {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	claims, err := middleware.ValidateRefreshToken(incoming)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidRefreshToken)
		return
	}

	storedHash, err := h.userService.GetRefreshTokenHash(claims.UserID)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidRefreshToken)
		return
	}
	incomingHash := middleware.HashToken(incoming)
	if storedHash == "" || subtle.ConstantTimeCompare([]byte(storedHash), []byte(incomingHash)) != 1 {
		respondWithError(c, apperrors.ErrInvalidRefreshToken)
		return
	}

	user, err := h.userService.GetUserByID(claims.UserID)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidRefreshToken)
		return
	}

	accessToken, err := middleware.GenerateAccessToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.setAuthCookie(c, middleware.AccessTokenCookie, accessToken, cookieMaxAge)
	respondWithSuccess(c, http.StatusOK, gin.H{
		"accessToken":  accessToken,
		"refreshToken": incoming,
	}, "Access token refreshed")
}

// ForgotPassword emails a reset code
// @Summary     Request a password reset code
// @Description Generate a 6-digit code valid for 10 minutes and email it to the user
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body ForgotPasswordRequest true "Account email"
// @Success     200 {object} SuccessResponse "Reset code sent"
// @Failure     400 {object} ErrorResponse "Email missing"
// @Failure     404 {object} ErrorResponse "Unknown email"
// @Failure     500 {object} ErrorResponse "Email delivery failed"
// @Router      /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Email == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Email is required."))
		return
	}

	code, err := h.userService.CreateResetCode(req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.mailer.SendResetCode(c.Request.Context(), req.Email, code); err != nil {
		logger.Get().Errorw("failed to send reset code", "error", err)
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInternalServer, "Failed to send reset code. Please try again."))
		return
	}

	respondWithSuccess(c, http.StatusOK, nil, "Reset code sent to your email.")
}

// ResetPassword sets a new password using a reset code
// @Summary     Reset password
// @Description Replace the password when the reset code matches and has not expired
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body ResetPasswordRequest true "Email, code and new password"
// @Success     200 {object} SuccessResponse "Password reset"
// @Failure     400 {object} ErrorResponse "Invalid or expired reset code"
// @Router      /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.userService.ResetPassword(req.Email, req.ResetCode, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("", services.AuditActionPasswordReset, "user", req.Email, c.ClientIP(), nil)
	respondWithSuccess(c, http.StatusOK, nil, "Password reset successfully.")
}

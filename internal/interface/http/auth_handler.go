package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-engagement/internal/application"
	"github.com/oksasatya/blog-engagement/internal/domain/entity"
	"github.com/oksasatya/blog-engagement/internal/interface/middleware"
	"github.com/oksasatya/blog-engagement/pkg/helpers"
	"github.com/oksasatya/blog-engagement/pkg/response"
)

type AuthHandler struct {
	Sessions *application.SessionService
	Accounts *application.AccountService
	Cookies  *helpers.Manager
	Logger   *logrus.Logger
}

func NewAuthHandler(sessions *application.SessionService, accounts *application.AccountService, cookies *helpers.Manager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Sessions: sessions, Accounts: accounts, Cookies: cookies, Logger: logger}
}

type registerRequest struct {
	Username  string `json:"username" binding:"required,handle"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,pwd"`
	FirstName string `json:"first_name" binding:"omitempty,max=64"`
	LastName  string `json:"last_name" binding:"omitempty,max=64"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required,pwd"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	u, err := h.Sessions.Register(c.Request.Context(), application.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.startSession(c, u, http.StatusCreated)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	u, err := h.Sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.startSession(c, u, http.StatusOK)
}

func (h *AuthHandler) startSession(c *gin.Context, u *entity.User, status int) {
	sess, err := h.Sessions.IssueSession(u)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	response.Success(c, status, userOf(u), "session started", gin.H{"expires_at": sess.ExpiresAt.Format(time.RFC3339)})
}

// Logout POST /api/auth/logout. The cookie is cleared; the credential is
// not revoked and stays valid until it expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// ForgotPassword POST /api/auth/password/forgot
// The answer is the same whether or not the email is registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	err := h.Accounts.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, application.ErrUserNotFound) {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"sent": true}, "if the email is registered, a reset link is on its way", nil)
}

// ResetPassword PUT /api/auth/password/reset/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	if err := h.Accounts.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password updated", nil)
}

// RequestVerification POST /api/auth/verify
func (h *AuthHandler) RequestVerification(c *gin.Context) {
	sent, err := h.Accounts.RequestVerification(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if !sent {
		response.Success[any](c, http.StatusOK, gin.H{"already_verified": true}, "already verified", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"sent": true}, "verification email sent", nil)
}

// Verify PUT /api/auth/verify/:token
func (h *AuthHandler) Verify(c *gin.Context) {
	if err := h.Accounts.Verify(c.Request.Context(), c.Param("token"), middleware.UserID(c)); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"verified": true}, "account verified", nil)
}

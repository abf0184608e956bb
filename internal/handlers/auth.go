package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mvolkov/storefront/internal/hash"
	"github.com/mvolkov/storefront/internal/logging"
	"github.com/mvolkov/storefront/internal/models"
	"github.com/mvolkov/storefront/internal/mykafka"
	"github.com/mvolkov/storefront/internal/token"
)

type AuthHandler struct {
	DB       *gorm.DB
	Tokens   *token.Service
	Producer *mykafka.Producer
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req credentials
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password required")
	}

	var existing models.User
	err := h.DB.WithContext(ctx).Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "user already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("register_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: pwHash,
		Role:         "user",
	}
	if err := h.DB.WithContext(ctx).Create(&user).Error; err != nil {
		l.Error("register_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, mykafka.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})
	l.Info("user_registered", "user_id", user.ID)
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req credentials
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := h.DB.WithContext(ctx).Where("username = ?", req.Username).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	accessToken, err := h.Tokens.SignAccessToken(user.ID, user.Role)
	if err != nil {
		l.Error("login_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	refreshToken, err := h.Tokens.SignRefreshToken(user.ID, user.Role)
	if err != nil {
		l.Error("login_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if err := h.Tokens.SaveRefreshToken(refreshToken, user.ID); err != nil {
		l.Error("login_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(token.CreateCookie("accessToken", accessToken, "/", time.Now().Add(token.AccessTTL)))
	c.SetCookie(token.CreateCookie("refreshToken", refreshToken, "/", time.Now().Add(token.RefreshTTL)))

	publish(c, h.Producer, mykafka.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":    "user_logged_in",
		"user_id": user.ID,
	})
	l.Info("user_logged_in", "user_id", user.ID)
	return c.JSON(http.StatusOK, map[string]string{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if ck, err := c.Cookie("refreshToken"); err == nil {
		if err := h.Tokens.RevokeRefresh(ck.Value); err != nil {
			logging.FromContext(c.Request().Context()).Error("logout revoke error", "error", err)
		}
	}

	c.SetCookie(token.CreateCookie("accessToken", "", "/", time.Unix(0, 0)))
	c.SetCookie(token.CreateCookie("refreshToken", "", "/", time.Unix(0, 0)))

	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

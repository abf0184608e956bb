package token

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// AutoRefreshMiddleware accepts a valid access cookie, or rotates the refresh
// cookie into a fresh pair when the access token is missing or expired.
func (s *Service) AutoRefreshMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := s.authenticate(c)
		if err != nil {
			return err
		}
		setUserContext(c, claims)
		return next(c)
	}
}

// AutoRefreshMiddlewareAdmin is AutoRefreshMiddleware plus an admin role check.
func (s *Service) AutoRefreshMiddlewareAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := s.authenticate(c)
		if err != nil {
			return err
		}
		if role, _ := claims["role"].(string); role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
		setUserContext(c, claims)
		return next(c)
	}
}

func (s *Service) authenticate(c echo.Context) (jwt.MapClaims, error) {
	asCookie, err := c.Cookie("accessToken")
	if err == nil {
		t, err := jwt.Parse(asCookie.Value, func(t *jwt.Token) (interface{}, error) {
			return s.JWTSecret, nil
		})
		if err == nil && t.Valid {
			return t.Claims.(jwt.MapClaims), nil
		}
		if !errors.Is(err, jwt.ErrTokenExpired) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
	}

	rfCookie, err := c.Cookie("refreshToken")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	newAccess, newRefresh, claims, err := s.RotateToken(rfCookie.Value)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "cannot rotate token: "+err.Error())
	}

	c.SetCookie(CreateCookie("accessToken", newAccess, "/", time.Now().Add(AccessTTL)))
	c.SetCookie(CreateCookie("refreshToken", newRefresh, "/", time.Now().Add(RefreshTTL)))

	return claims, nil
}

func setUserContext(c echo.Context, claims jwt.MapClaims) {
	if sub, ok := claims["sub"].(float64); ok {
		c.Set("userID", uint(sub))
	}
	if role, ok := claims["role"].(string); ok {
		c.Set("role", role)
	}
}

// UserID reads the authenticated user id placed by the middleware.
func UserID(c echo.Context) (uint, error) {
	v, ok := c.Get("userID").(uint)
	if !ok || v == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return v, nil
}

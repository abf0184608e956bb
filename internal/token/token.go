package token

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/mvolkov/storefront/internal/models"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

type Service struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
}

func (s *Service) SignAccessToken(userID uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(AccessTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.JWTSecret)
}

func (s *Service) SignRefreshToken(userID uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(RefreshTTL).Unix(),
		"typ":  "refresh",
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.RefreshSecret)
}

func (s *Service) SaveRefreshToken(token string, userID uint) error {
	rec := models.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(RefreshTTL).Unix(),
		Revoked:   false,
	}
	if err := s.DB.Create(&rec).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *Service) ValidateRefresh(rawToken string) (jwt.MapClaims, error) {
	t, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.RefreshSecret, nil
	})
	if err != nil || !t.Valid {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("cannot parse claims")
	}
	if typ, ok := claims["typ"]; !ok || typ != "refresh" {
		return nil, errors.New("not a refresh token")
	}

	var stored models.RefreshToken
	if err := s.DB.Where("token = ?", rawToken).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("refresh token not found")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if stored.Revoked {
		return nil, errors.New("refresh token revoked")
	}
	if time.Now().Unix() > stored.ExpiresAt {
		return nil, errors.New("refresh token expired")
	}

	return claims, nil
}

func (s *Service) RotateToken(rawToken string) (newAccess, newRefresh string, claims jwt.MapClaims, err error) {
	claims, err = s.ValidateRefresh(rawToken)
	if err != nil {
		return "", "", nil, err
	}

	userID := uint(claims["sub"].(float64))
	role, _ := claims["role"].(string)

	newAccess, err = s.SignAccessToken(userID, role)
	if err != nil {
		return "", "", nil, err
	}
	newRefresh, err = s.SignRefreshToken(userID, role)
	if err != nil {
		return "", "", nil, err
	}

	if err := s.DB.Model(&models.RefreshToken{}).
		Where("token = ?", rawToken).
		Update("revoked", true).Error; err != nil {
		return "", "", nil, fmt.Errorf("db error: %w", err)
	}
	if err := s.SaveRefreshToken(newRefresh, userID); err != nil {
		return "", "", nil, err
	}

	return newAccess, newRefresh, claims, nil
}

func (s *Service) RevokeRefresh(token string) error {
	if err := s.DB.Model(&models.RefreshToken{}).
		Where("token = ?", token).
		Update("revoked", true).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func CreateCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

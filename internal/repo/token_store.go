package repo

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"gorm.io/gorm"

	"fixdesk/internal/models"
)

// ErrInvalidToken covers missing, used and expired tokens alike so the
// login flow cannot be used as an oracle for which case it was.
var ErrInvalidToken = errors.New("invalid or expired login link")

// TokenLifetime is the magic-link validity window.
const TokenLifetime = 24 * time.Hour

type TokenStore struct{ db *gorm.DB }

func NewTokenStore(db *gorm.DB) *TokenStore { return &TokenStore{db: db} }

// Issue creates a single-use login token for the user and returns the
// opaque string to embed in the magic link.
func (s *TokenStore) Issue(ctx context.Context, userID uint) (string, error) {
	raw, err := randomToken()
	if err != nil {
		return "", err
	}
	t := models.LoginToken{
		UserID:    userID,
		Token:     raw,
		ExpiresAt: time.Now().UTC().Add(TokenLifetime),
	}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return "", err
	}
	return raw, nil
}

// Redeem consumes a token and returns its user. The used flag is set
// with a single guarded UPDATE, so two concurrent redemptions of the
// same string cannot both succeed.
func (s *TokenStore) Redeem(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.LoginToken{}).
			Where("token = ? AND used = ? AND expires_at > ?", token, false, time.Now().UTC()).
			Update("used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidToken
		}
		var t models.LoginToken
		if err := tx.Where("token = ?", token).First(&t).Error; err != nil {
			return err
		}
		if err := tx.First(&user, t.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidToken
			}
			return err
		}
		now := time.Now().UTC()
		user.LastLogin = &now
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// PurgeExpired removes stale rows; callable from admin maintenance.
func (s *TokenStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("used = ? OR expires_at <= ?", true, time.Now().UTC()).
		Delete(&models.LoginToken{})
	return res.RowsAffected, res.Error
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

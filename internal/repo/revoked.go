package repo

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/auth_portal/internal/models"
)

func (r *GormRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Revoke records jti as revoked. ON CONFLICT DO NOTHING makes the insert
// idempotent, so two concurrent logouts of the same token both succeed
// and leave exactly one row.
func (r *GormRepo) Revoke(ctx context.Context, jti string, expiresAt int64) error {
	revoked := models.RevokedToken{
		JTI:       jti,
		RevokedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
	}
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "jti"}},
			DoNothing: true,
		}).
		Create(&revoked).Error
}

// DeleteExpiredRevocations drops registry entries whose token has passed
// its own expiry; such a token is rejected on the expiry check alone.
func (r *GormRepo) DeleteExpiredRevocations(ctx context.Context, now time.Time) (int64, error) {
	result := r.DB.WithContext(ctx).
		Where("expires_at < ?", now.Unix()).
		Delete(&models.RevokedToken{})
	return result.RowsAffected, result.Error
}

package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mindease-app/edge/internal/models"
)

type GormStore struct {
	DB     *gorm.DB
	Sealer *Sealer
}

func NewGormStore(db *gorm.DB, sealer *Sealer) *GormStore {
	return &GormStore{DB: db, Sealer: sealer}
}

func (g *GormStore) Save(ctx context.Context, deviceID string, t Tokens) error {
	access, err := g.Sealer.Seal(t.Access)
	if err != nil {
		return fmt.Errorf("seal access token: %w", err)
	}
	refresh, err := g.Sealer.Seal(t.Refresh)
	if err != nil {
		return fmt.Errorf("seal refresh token: %w", err)
	}

	res := g.DB.WithContext(ctx).
		Model(&models.DeviceTokens{}).
		Where("device_id = ?", deviceID).
		Updates(map[string]any{"access_token": access, "refresh_token": refresh})
	if res.Error != nil {
		return fmt.Errorf("db error: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		rec := models.DeviceTokens{
			DeviceID:     deviceID,
			AccessToken:  access,
			RefreshToken: refresh,
		}
		if err := g.DB.WithContext(ctx).Create(&rec).Error; err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (g *GormStore) Load(ctx context.Context, deviceID string) (Tokens, error) {
	var rec models.DeviceTokens
	err := g.DB.WithContext(ctx).Where("device_id = ?", deviceID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Tokens{}, nil
	}
	if err != nil {
		return Tokens{}, fmt.Errorf("db error: %w", err)
	}

	access, err := g.Sealer.Open(rec.AccessToken)
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := g.Sealer.Open(rec.RefreshToken)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{Access: access, Refresh: refresh}, nil
}

func (g *GormStore) Clear(ctx context.Context, deviceID string) error {
	err := g.DB.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Delete(&models.DeviceTokens{}).Error
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

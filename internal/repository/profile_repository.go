package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Hunter-sfcb/iceapp/internal/model"
)

// ProfileRepository 用户资料仓储，读取时总是带上 Rank
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	GetByUsername(ctx context.Context, username string) (*model.Profile, error)
	// GetByIDs 不保证顺序，缺失的 ID 直接跳过
	GetByIDs(ctx context.Context, ids []string) ([]*model.Profile, error)
	// List 按创建时间倒序
	List(ctx context.Context) ([]*model.Profile, error)

	SetRank(ctx context.Context, id string, rankID *string) error
	SetVerified(ctx context.Context, id string, verified bool) error
	SetPremium(ctx context.Context, id string, premium bool, until *time.Time) error
}

type profileRepository struct{ db *gorm.DB }

func NewProfileRepository(db *gorm.DB) ProfileRepository { return &profileRepository{db: db} }

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	// 调用方负责 ID（与账号 ID 相同）
	return translate(r.db.WithContext(ctx).Omit("Rank").Create(profile).Error)
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string) (*model.Profile, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *profileRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Profile, error) {
	res := []*model.Profile{}
	if len(ids) == 0 {
		return res, nil
	}
	err := r.db.WithContext(ctx).Preload("Rank").Where("id IN ?", ids).Find(&res).Error
	return res, err
}

func (r *profileRepository) first(ctx context.Context, query string, arg interface{}) (*model.Profile, error) {
	var p model.Profile
	if err := r.db.WithContext(ctx).Preload("Rank").Where(query, arg).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *profileRepository) List(ctx context.Context) ([]*model.Profile, error) {
	var res []*model.Profile
	err := r.db.WithContext(ctx).
		Preload("Rank").
		Order("created_at DESC").
		Find(&res).Error
	return res, err
}

func (r *profileRepository) SetRank(ctx context.Context, id string, rankID *string) error {
	return r.patch(ctx, id, map[string]interface{}{"rank_id": rankID})
}

func (r *profileRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	return r.patch(ctx, id, map[string]interface{}{"is_verified": verified})
}

func (r *profileRepository) SetPremium(ctx context.Context, id string, premium bool, until *time.Time) error {
	return r.patch(ctx, id, map[string]interface{}{"is_premium": premium, "premium_until": until})
}

func (r *profileRepository) patch(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Profile{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Hunter-sfcb/iceapp/internal/model"
)

// FollowStats 某个 Profile 的关注数与粉丝数
type FollowStats struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// FollowRepository 关注关系仓储（follows 表，ID 均为 Profile.ID）
type FollowRepository interface {
	// Create 幂等：已关注时返回 false
	Create(ctx context.Context, followerID, followeeID string) (bool, error)
	// Delete 未关注时返回 false
	Delete(ctx context.Context, followerID, followeeID string) (bool, error)
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)
	ListFollowing(ctx context.Context, followerID string, offset, limit int) ([]*model.Follow, error)
	ListFollowers(ctx context.Context, followeeID string, offset, limit int) ([]*model.Follow, error)
	Stats(ctx context.Context, profileID string) (*FollowStats, error)
}

type followRepository struct{ db *gorm.DB }

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) pair(ctx context.Context, followerID, followeeID string) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followeeID)
}

func (r *followRepository) Create(ctx context.Context, followerID, followeeID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Follow{ID: uuid.New().String(), FollowerID: followerID, FolloweeID: followeeID})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID string) (bool, error) {
	res := r.pair(ctx, followerID, followeeID).Delete(&model.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	var n int64
	if err := r.pair(ctx, followerID, followeeID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, followerID string, offset, limit int) ([]*model.Follow, error) {
	return r.page(ctx, "follower_id = ?", followerID, offset, limit)
}

// ListFollowers 走 following_id 索引反查
func (r *followRepository) ListFollowers(ctx context.Context, followeeID string, offset, limit int) ([]*model.Follow, error) {
	return r.page(ctx, "following_id = ?", followeeID, offset, limit)
}

func (r *followRepository) page(ctx context.Context, where string, id string, offset, limit int) ([]*model.Follow, error) {
	var res []*model.Follow
	err := r.db.WithContext(ctx).
		Where(where, id).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *followRepository) Stats(ctx context.Context, profileID string) (*FollowStats, error) {
	var s FollowStats
	if err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("following_id = ?", profileID).Count(&s.Followers).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ?", profileID).Count(&s.Following).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

package model

import "time"

// Follow 关注关系（follower 关注 followee，均为 Profile.ID）
type Follow struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FollowerID string `json:"follower_id" gorm:"type:varchar(36);not null;index:idx_follow_pair,unique"`
	FolloweeID string `json:"following_id" gorm:"column:following_id;type:varchar(36);not null;index:idx_follow_pair,unique;index:idx_follow_followee"`
	// 复合唯一键，避免重复关注
	// idx_follow_pair = (follower_id, following_id)
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (Follow) TableName() string { return "follows" }

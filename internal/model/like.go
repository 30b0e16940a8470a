package model

import "time"

// Like 点赞（同一用户对同一帖子至多一条）
type Like struct {
	ID     string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PostID string `json:"post_id" gorm:"type:varchar(36);not null;index:idx_like_pair,unique"`
	UserID string `json:"user_id" gorm:"type:varchar(36);not null;index:idx_like_pair,unique;index:idx_like_user"`
	// idx_like_pair = (post_id, user_id)
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string { return "likes" }

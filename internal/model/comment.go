package model

import "time"

// Comment 帖子评论
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PostID    string    `json:"post_id" gorm:"type:varchar(36);index:idx_comment_post;not null"`
	AuthorID  string    `json:"author_id" gorm:"type:varchar(36);not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	Author    *Profile  `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

func (Comment) TableName() string { return "comments" }

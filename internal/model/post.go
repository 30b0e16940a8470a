package model

import "time"

// MaxPostLength 帖子内容上限（按字符计）
const MaxPostLength = 500

// Post 帖子；likes_count / comments_count 由存储层维护
type Post struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AuthorID      string    `json:"author_id" gorm:"type:varchar(36);index:idx_post_author;not null"`
	Content       string    `json:"content" gorm:"type:text;not null"`
	MediaURL      string    `json:"media_url" gorm:"type:text;not null;default:''"`
	LikesCount    int64     `json:"likes_count" gorm:"not null;default:0"`
	CommentsCount int64     `json:"comments_count" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at" gorm:"index:idx_post_created"`
	Author        *Profile  `json:"author,omitempty" gorm:"foreignKey:AuthorID"`

	// IsLiked 仅在查询 feed 时按当前查看者填充
	IsLiked bool `json:"is_liked" gorm:"-:all"`
}

func (Post) TableName() string { return "posts" }

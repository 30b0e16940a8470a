package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Hunter-sfcb/iceapp/internal/model"
)

// Store 远端数据客户端：按表划分的仓储集合，共享同一个连接
type Store struct {
	Accounts AccountRepository
	Ranks    RankRepository
	Profiles ProfileRepository
	Posts    PostRepository
	Comments CommentRepository
	Likes    LikeRepository
	Follows  FollowRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		Accounts: NewAccountRepository(db),
		Ranks:    NewRankRepository(db),
		Profiles: NewProfileRepository(db),
		Posts:    NewPostRepository(db),
		Comments: NewCommentRepository(db),
		Likes:    NewLikeRepository(db),
		Follows:  NewFollowRepository(db),
	}
}

// AutoMigrate 创建/更新全部表结构
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

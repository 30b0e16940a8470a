package service

import (
	"context"

	"github.com/Hunter-sfcb/iceapp/internal/model"
	"github.com/Hunter-sfcb/iceapp/internal/repository"
)

// FeedPageSize feed 固定返回的最大条数
const FeedPageSize = 50

// Feed 一次完整拉取的结果
type Feed struct {
	Posts []*model.Post `json:"posts"`
}

// Empty 空 feed 是正常状态而非错误
func (f *Feed) Empty() bool { return f == nil || len(f.Posts) == 0 }

// FeedService feed 数据访问
type FeedService interface {
	// FetchFeed viewer 为 nil 时所有帖子 is_liked 均为 false
	FetchFeed(ctx context.Context, viewer *model.Profile) (*Feed, error)
}

type feedService struct {
	posts repository.PostRepository
	likes repository.LikeRepository
}

func NewFeedService(posts repository.PostRepository, likes repository.LikeRepository) FeedService {
	return &feedService{posts: posts, likes: likes}
}

func (s *feedService) FetchFeed(ctx context.Context, viewer *model.Profile) (*Feed, error) {
	posts, err := s.posts.ListRecent(ctx, FeedPageSize)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	if viewer == nil || len(posts) == 0 {
		return &Feed{Posts: posts}, nil
	}

	// 一次查询取回 viewer 对本页帖子的点赞，替代逐帖检查
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	liked, err := s.likes.LikedPostIDs(ctx, viewer.ID, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		p.IsLiked = liked[p.ID]
	}
	return &Feed{Posts: posts}, nil
}

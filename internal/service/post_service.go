package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/Hunter-sfcb/iceapp/internal/model"
	"github.com/Hunter-sfcb/iceapp/internal/repository"
)

// CreatePostInput 发帖参数
type CreatePostInput struct {
	AuthorID string
	Content  string
	MediaURL string
}

// PostService 帖子/评论/点赞写操作。调用方在成功后自行重新拉取 feed，
// 这里不返回也不修补任何本地状态。
type PostService interface {
	CreatePost(ctx context.Context, in CreatePostInput) (*model.Post, error)
	// ToggleLike 先查后写，非原子；返回切换后的点赞状态
	ToggleLike(ctx context.Context, postID, userID string) (bool, error)
	CreateComment(ctx context.Context, postID, authorID, content string) (*model.Comment, error)
	ListComments(ctx context.Context, postID string) ([]*model.Comment, error)
}

type postService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	likes    repository.LikeRepository
}

func NewPostService(posts repository.PostRepository, comments repository.CommentRepository, likes repository.LikeRepository) PostService {
	return &postService{posts: posts, comments: comments, likes: likes}
}

// ValidatePostContent 返回去除首尾空白后的内容
func ValidatePostContent(content string) (string, error) {
	if utf8.RuneCountInString(content) > model.MaxPostLength {
		return "", ErrContentTooLong
	}
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", ErrEmptyContent
	}
	return trimmed, nil
}

func (s *postService) CreatePost(ctx context.Context, in CreatePostInput) (*model.Post, error) {
	content, err := ValidatePostContent(in.Content)
	if err != nil {
		return nil, err
	}
	post := &model.Post{
		AuthorID: in.AuthorID,
		Content:  content,
		MediaURL: strings.TrimSpace(in.MediaURL),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	liked, err := s.likes.Exists(ctx, postID, userID)
	if err != nil {
		return false, err
	}
	if liked {
		if _, err := s.likes.Delete(ctx, postID, userID); err != nil {
			return true, err
		}
		return false, nil
	}
	if _, err := s.likes.Create(ctx, postID, userID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *postService) CreateComment(ctx context.Context, postID, authorID, content string) (*model.Comment, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrEmptyContent
	}
	c := &model.Comment{PostID: postID, AuthorID: authorID, Content: trimmed}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *postService) ListComments(ctx context.Context, postID string) ([]*model.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*model.Comment{}
	}
	return comments, nil
}

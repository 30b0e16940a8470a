package service

import (
	"context"
	"errors"

	"github.com/Hunter-sfcb/iceapp/internal/model"
	"github.com/Hunter-sfcb/iceapp/internal/repository"
)

var ErrFollowSelf = errors.New("cannot follow yourself")

// RelationshipService 关注关系（ID 均为 Profile.ID）
type RelationshipService interface {
	// Follow 返回是否新建了关注关系
	Follow(ctx context.Context, followerID, followeeID string) (bool, error)
	Unfollow(ctx context.Context, followerID, followeeID string) (bool, error)
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	ListFollowing(ctx context.Context, profileID string, page, pageSize int) ([]*model.Profile, error)
	ListFollowers(ctx context.Context, profileID string, page, pageSize int) ([]*model.Profile, error)
	Stats(ctx context.Context, profileID string) (*repository.FollowStats, error)
}

type relationshipService struct {
	follows  repository.FollowRepository
	profiles repository.ProfileRepository
}

func NewRelationshipService(follows repository.FollowRepository, profiles repository.ProfileRepository) RelationshipService {
	return &relationshipService{follows: follows, profiles: profiles}
}

func (s *relationshipService) Follow(ctx context.Context, followerID, followeeID string) (bool, error) {
	if followerID == followeeID {
		return false, ErrFollowSelf
	}
	if _, err := s.profiles.GetByID(ctx, followeeID); err != nil {
		return false, err
	}
	return s.follows.Create(ctx, followerID, followeeID)
}

func (s *relationshipService) Unfollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	return s.follows.Delete(ctx, followerID, followeeID)
}

func (s *relationshipService) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	return s.follows.Exists(ctx, followerID, followeeID)
}

func (s *relationshipService) ListFollowing(ctx context.Context, profileID string, page, pageSize int) ([]*model.Profile, error) {
	offset, limit := normalizePage(page, pageSize)
	rows, err := s.follows.ListFollowing(ctx, profileID, offset, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(rows))
	for i, f := range rows {
		ids[i] = f.FolloweeID
	}
	return s.resolve(ctx, ids)
}

func (s *relationshipService) ListFollowers(ctx context.Context, profileID string, page, pageSize int) ([]*model.Profile, error) {
	offset, limit := normalizePage(page, pageSize)
	rows, err := s.follows.ListFollowers(ctx, profileID, offset, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(rows))
	for i, f := range rows {
		ids[i] = f.FollowerID
	}
	return s.resolve(ctx, ids)
}

func (s *relationshipService) Stats(ctx context.Context, profileID string) (*repository.FollowStats, error) {
	if _, err := s.profiles.GetByID(ctx, profileID); err != nil {
		return nil, err
	}
	return s.follows.Stats(ctx, profileID)
}

// resolve 按 ids 的顺序返回 Profile，已删除的跳过
func (s *relationshipService) resolve(ctx context.Context, ids []string) ([]*model.Profile, error) {
	found, err := s.profiles.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Profile, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	res := make([]*model.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			res = append(res, p)
		}
	}
	return res, nil
}

func normalizePage(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return (page - 1) * pageSize, pageSize
}

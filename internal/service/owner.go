package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hunter-sfcb/iceapp/internal/access"
	"github.com/Hunter-sfcb/iceapp/internal/model"
	"github.com/Hunter-sfcb/iceapp/internal/repository"
)

const (
	OwnerRankName  = "Owner"
	OwnerRankColor = "#F59E0B"
)

// GrantOwner 确保存在 priority=1000 的 Owner 等级并分配给 username。
// 仅供运维命令初始化第一个站长使用，不经过 API。
func GrantOwner(ctx context.Context, ranks repository.RankRepository, profiles repository.ProfileRepository, username string) (*model.Profile, error) {
	profile, err := profiles.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find profile %q: %w", username, err)
	}

	rank, err := ranks.GetByName(ctx, OwnerRankName)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if rank == nil || rank.Priority < access.OwnerPriority {
		rank = &model.Rank{Name: OwnerRankName, Color: OwnerRankColor, Priority: access.OwnerPriority}
		if err := ranks.Create(ctx, rank); err != nil {
			return nil, fmt.Errorf("create owner rank: %w", err)
		}
	}

	if err := profiles.SetRank(ctx, profile.ID, &rank.ID); err != nil {
		return nil, err
	}
	return profiles.GetByID(ctx, profile.ID)
}

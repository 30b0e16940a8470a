package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/Hunter-sfcb/iceapp/internal/access"
	"github.com/Hunter-sfcb/iceapp/internal/model"
	"github.com/Hunter-sfcb/iceapp/internal/repository"
)

// PremiumDuration 开通会员的有效期
const PremiumDuration = 30 * 24 * time.Hour

// AdminData 管理面板数据：全部用户（新注册在前）与全部等级（priority 高在前）
type AdminData struct {
	Users []*model.Profile `json:"users"`
	Ranks []*model.Rank    `json:"ranks"`
}

// CreateRankInput 新建等级
type CreateRankInput struct {
	Name     string
	Color    string
	Priority int
}

// AdminService 仅站长可用；每个写操作成功后都会整体重新拉取 AdminData。
// 所有方法先做 access.IsOwner 检查，失败时返回 access.ErrForbidden 且不访问存储。
type AdminService interface {
	FetchAdminData(ctx context.Context, viewer *model.Profile) (*AdminData, error)
	CreateRank(ctx context.Context, viewer *model.Profile, in CreateRankInput) (*AdminData, error)
	SetUserRank(ctx context.Context, viewer *model.Profile, profileID string, rankID *string) (*AdminData, error)
	ToggleVerified(ctx context.Context, viewer *model.Profile, profileID string, current bool) (*AdminData, error)
	TogglePremium(ctx context.Context, viewer *model.Profile, profileID string, current bool) (*AdminData, error)
}

type adminService struct {
	ranks    repository.RankRepository
	profiles repository.ProfileRepository
	validate *validator.Validate
	now      func() time.Time
}

func NewAdminService(ranks repository.RankRepository, profiles repository.ProfileRepository) AdminService {
	return &adminService{ranks: ranks, profiles: profiles, validate: validator.New(), now: time.Now}
}

func (s *adminService) FetchAdminData(ctx context.Context, viewer *model.Profile) (*AdminData, error) {
	if !access.IsOwner(viewer) {
		return nil, access.ErrForbidden
	}
	return s.reload(ctx)
}

func (s *adminService) reload(ctx context.Context) (*AdminData, error) {
	var data AdminData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := s.profiles.List(gctx)
		data.Users = users
		return err
	})
	g.Go(func() error {
		ranks, err := s.ranks.List(gctx)
		data.Ranks = ranks
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if data.Users == nil {
		data.Users = []*model.Profile{}
	}
	if data.Ranks == nil {
		data.Ranks = []*model.Rank{}
	}
	return &data, nil
}

func (s *adminService) CreateRank(ctx context.Context, viewer *model.Profile, in CreateRankInput) (*AdminData, error) {
	if !access.IsOwner(viewer) {
		return nil, access.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrEmptyRankName
	}
	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = model.DefaultRankColor
	}
	if err := s.validate.Var(color, "hexcolor"); err != nil {
		return nil, ErrInvalidRankColor
	}

	if err := s.ranks.Create(ctx, &model.Rank{Name: name, Color: color, Priority: in.Priority}); err != nil {
		return nil, err
	}
	return s.reload(ctx)
}

func (s *adminService) SetUserRank(ctx context.Context, viewer *model.Profile, profileID string, rankID *string) (*AdminData, error) {
	if !access.IsOwner(viewer) {
		return nil, access.ErrForbidden
	}
	if rankID != nil && *rankID == "" {
		rankID = nil
	}
	if rankID != nil {
		if _, err := s.ranks.GetByID(ctx, *rankID); err != nil {
			return nil, err
		}
	}
	if err := s.profiles.SetRank(ctx, profileID, rankID); err != nil {
		return nil, err
	}
	return s.reload(ctx)
}

func (s *adminService) ToggleVerified(ctx context.Context, viewer *model.Profile, profileID string, current bool) (*AdminData, error) {
	if !access.IsOwner(viewer) {
		return nil, access.ErrForbidden
	}
	if err := s.profiles.SetVerified(ctx, profileID, !current); err != nil {
		return nil, err
	}
	return s.reload(ctx)
}

// TogglePremium 开通时有效期为 now+30 天，关闭时清空有效期
func (s *adminService) TogglePremium(ctx context.Context, viewer *model.Profile, profileID string, current bool) (*AdminData, error) {
	if !access.IsOwner(viewer) {
		return nil, access.ErrForbidden
	}
	var until *time.Time
	if !current {
		t := s.now().Add(PremiumDuration).UTC()
		until = &t
	}
	if err := s.profiles.SetPremium(ctx, profileID, !current, until); err != nil {
		return nil, err
	}
	return s.reload(ctx)
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Hunter-sfcb/iceapp/internal/model"
)

// RankRepository 等级仓储
type RankRepository interface {
	Create(ctx context.Context, rank *model.Rank) error
	GetByID(ctx context.Context, id string) (*model.Rank, error)
	GetByName(ctx context.Context, name string) (*model.Rank, error)
	// List 按 priority 从高到低
	List(ctx context.Context) ([]*model.Rank, error)
}

type rankRepository struct{ db *gorm.DB }

func NewRankRepository(db *gorm.DB) RankRepository { return &rankRepository{db: db} }

func (r *rankRepository) Create(ctx context.Context, rank *model.Rank) error {
	if rank.ID == "" {
		rank.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(rank).Error)
}

func (r *rankRepository) GetByID(ctx context.Context, id string) (*model.Rank, error) {
	var rank model.Rank
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rank).Error; err != nil {
		return nil, translate(err)
	}
	return &rank, nil
}

func (r *rankRepository) GetByName(ctx context.Context, name string) (*model.Rank, error) {
	var rank model.Rank
	if err := r.db.WithContext(ctx).Where("name = ?", name).Order("priority DESC").First(&rank).Error; err != nil {
		return nil, translate(err)
	}
	return &rank, nil
}

func (r *rankRepository) List(ctx context.Context) ([]*model.Rank, error) {
	var ranks []*model.Rank
	err := r.db.WithContext(ctx).Order("priority DESC").Order("created_at ASC").Find(&ranks).Error
	return ranks, err
}

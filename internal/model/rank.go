package model

import "time"

// DefaultRankColor 新建等级未指定颜色时使用
const DefaultRankColor = "#6B7280"

// Rank 用户等级（priority 越高权限越大）
type Rank struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(64);not null"`
	Color     string    `json:"color" gorm:"type:varchar(16);not null;default:'#6B7280'"`
	Priority  int       `json:"priority" gorm:"index:idx_rank_priority;not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
}

func (Rank) TableName() string { return "ranks" }

package model

import "time"

// Profile 应用层用户资料，与认证账号一一对应
type Profile struct {
	ID           string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID       string     `json:"user_id" gorm:"type:varchar(36);uniqueIndex;not null"`
	Username     string     `json:"username" gorm:"type:varchar(64);uniqueIndex;not null"`
	DisplayName  string     `json:"display_name" gorm:"type:varchar(128);not null"`
	Bio          string     `json:"bio" gorm:"type:text;not null;default:''"`
	AvatarURL    string     `json:"avatar_url" gorm:"type:text;not null;default:''"`
	RankID       *string    `json:"rank_id" gorm:"type:varchar(36);index"`
	Rank         *Rank      `json:"rank,omitempty" gorm:"foreignKey:RankID;constraint:OnDelete:SET NULL"`
	IsVerified   bool       `json:"is_verified" gorm:"not null;default:false"`
	IsPremium    bool       `json:"is_premium" gorm:"not null;default:false"`
	PremiumUntil *time.Time `json:"premium_until"`
	CreatedAt    time.Time  `json:"created_at" gorm:"index"`
}

func (Profile) TableName() string { return "profiles" }

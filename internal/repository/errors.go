package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 目标行不存在
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 违反唯一约束（用户名、邮箱等）
	ErrDuplicate = errors.New("duplicate record")
)

// translate 把 gorm 错误映射为仓储层错误，其余原样返回
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

package model

// All 返回需要迁移的全部表模型
func All() []interface{} {
	return []interface{}{
		&Account{},
		&Rank{},
		&Profile{},
		&Post{},
		&Comment{},
		&Like{},
		&Follow{},
	}
}
